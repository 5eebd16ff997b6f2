package video

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/png"
	"os"

	"github.com/gen2brain/webp"

	"visage/pkg/schema"
)

var overlayColor = color.RGBA{R: 255, G: 64, B: 64, A: 255}

const overlayThickness = 4

// LoadImage decodes a captured frame from disk.
func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open frame: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	return img, nil
}

// DrawBox returns a copy of img with the rectangle outlined on top of it.
// Coordinates outside the frame are clamped.
func DrawBox(img image.Image, box [2]schema.Point) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	x0, y0 := clamp(box[0].X, bounds.Min.X, bounds.Max.X-1), clamp(box[0].Y, bounds.Min.Y, bounds.Max.Y-1)
	x1, y1 := clamp(box[1].X, bounds.Min.X, bounds.Max.X-1), clamp(box[1].Y, bounds.Min.Y, bounds.Max.Y-1)
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}

	for t := 0; t < overlayThickness; t++ {
		for x := x0; x <= x1; x++ {
			setPixel(out, x, y0+t)
			setPixel(out, x, y1-t)
		}
		for y := y0; y <= y1; y++ {
			setPixel(out, x0+t, y)
			setPixel(out, x1-t, y)
		}
	}
	return out
}

func setPixel(img *image.RGBA, x, y int) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, overlayColor)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// EncodeWebP renders the image as a lossy webp suitable for transport.
func EncodeWebP(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, webp.Options{Lossless: false, Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode webp: %w", err)
	}
	return buf.Bytes(), nil
}
