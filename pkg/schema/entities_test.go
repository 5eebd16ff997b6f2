package schema

import (
	"encoding/json"
	"testing"
)

func TestLocatorUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Locator
		wantErr bool
	}{
		{
			name: "single point",
			raw:  `{"x": 450, "y": 300}`,
			want: PointLocator(450, 300),
		},
		{
			name: "two point box",
			raw:  `[{"x": 100, "y": 120}, {"x": 300, "y": 360}]`,
			want: BoxLocator(Point{100, 120}, Point{300, 360}),
		},
		{
			name:    "three points",
			raw:     `[{"x":1,"y":1},{"x":2,"y":2},{"x":3,"y":3}]`,
			wantErr: true,
		},
		{
			name:    "scalar",
			raw:     `42`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Locator
			err := json.Unmarshal([]byte(tt.raw), &got)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLocatorMarshalRoundTrip(t *testing.T) {
	point := PointLocator(12, 34)
	data, err := json.Marshal(point)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"x":12,"y":34}` {
		t.Errorf("point marshals to %s", data)
	}

	box := BoxLocator(Point{1, 2}, Point{3, 4})
	data, err = json.Marshal(box)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `[{"x":1,"y":2},{"x":3,"y":4}]` {
		t.Errorf("box marshals to %s", data)
	}
}

func TestZeroLocatorMarshalsAsOrigin(t *testing.T) {
	var l Locator
	data, err := json.Marshal(l)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"x":0,"y":0}` {
		t.Errorf("zero locator marshals to %s, want origin point", data)
	}
}
