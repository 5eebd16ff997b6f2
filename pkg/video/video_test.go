package video

import (
	"image"
	"math"
	"testing"

	"visage/pkg/schema"
)

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{name: "integer ratio", in: "30/1", want: 30},
		{name: "ntsc ratio", in: "30000/1001", want: 29.97002997},
		{name: "plain number", in: "25", want: 25},
		{name: "zero denominator", in: "30/0", want: 0},
		{name: "garbage", in: "abc", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFrameRate(tt.in); math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("parseFrameRate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseProbeOutput(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    Metadata
		wantErr bool
	}{
		{
			name: "mp4 style stream metadata",
			out: `{"streams": [{"width": 1920, "height": 1080, "r_frame_rate": "30/1",
				"duration": "10.5", "nb_frames": "315"}], "format": {"duration": "10.5"}}`,
			want: Metadata{Duration: 10.5, FPS: 30, TotalFrames: 315, Width: 1920, Height: 1080},
		},
		{
			name: "matroska duration only on format section",
			out: `{"streams": [{"width": 1280, "height": 720, "r_frame_rate": "24/1"}],
				"format": {"duration": "10.000000"}}`,
			want: Metadata{Duration: 10, FPS: 24, TotalFrames: 240, Width: 1280, Height: 720},
		},
		{
			name: "frame count derived from stream duration",
			out: `{"streams": [{"width": 640, "height": 480, "r_frame_rate": "24/1",
				"duration": "2.5"}], "format": {}}`,
			want: Metadata{Duration: 2.5, FPS: 24, TotalFrames: 60, Width: 640, Height: 480},
		},
		{
			name:    "no video stream",
			out:     `{"streams": [], "format": {"duration": "3.0"}}`,
			wantErr: true,
		},
		{
			name:    "not json",
			out:     `ffprobe: command not found`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseProbeOutput([]byte(tt.out))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseProbeOutput() unexpected error: %v", err)
			}
			if *got != tt.want {
				t.Errorf("parseProbeOutput() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestDrawBox(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 100))
	box := [2]schema.Point{{X: 20, Y: 30}, {X: 80, Y: 70}}

	out := DrawBox(src, box)

	if out.RGBAAt(50, 30) != overlayColor {
		t.Error("top edge not painted")
	}
	if out.RGBAAt(20, 50) != overlayColor {
		t.Error("left edge not painted")
	}
	if out.RGBAAt(50, 50) == overlayColor {
		t.Error("interior painted")
	}
}

func TestDrawBoxClampsOutOfFrameCorners(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 50, 50))
	box := [2]schema.Point{{X: -10, Y: -10}, {X: 200, Y: 200}}

	out := DrawBox(src, box)

	if out.Bounds() != src.Bounds() {
		t.Fatalf("bounds changed to %v", out.Bounds())
	}
	if out.RGBAAt(25, 0) != overlayColor {
		t.Error("clamped top edge not painted")
	}
}

func TestDrawBoxAcceptsSwappedCorners(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 100))
	normal := DrawBox(src, [2]schema.Point{{X: 20, Y: 30}, {X: 80, Y: 70}})
	swapped := DrawBox(src, [2]schema.Point{{X: 80, Y: 70}, {X: 20, Y: 30}})

	for y := 0; y < 100; y += 10 {
		for x := 0; x < 100; x += 10 {
			if normal.RGBAAt(x, y) != swapped.RGBAAt(x, y) {
				t.Fatalf("swapped corners diverge at (%d,%d)", x, y)
			}
		}
	}
}
