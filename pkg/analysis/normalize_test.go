package analysis

import (
	"math"
	"testing"
)

func TestNormalizeNumericText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plus sign stripped",
			in:   `{"valence": +2, "arousal": +3}`,
			want: `{"valence": 2, "arousal": 3}`,
		},
		{
			name: "negative values untouched",
			in:   `{"valence": -2}`,
			want: `{"valence": -2}`,
		},
		{
			name: "multi dot time recombined",
			in:   `{"start_time": "2.02.96"}`,
			want: `{"start_time": 122.96}`,
		},
		{
			name: "multi dot without quotes",
			in:   `{"video_duration": 1.05.5}`,
			want: `{"video_duration": 65.5}`,
		},
		{
			name: "single dot left alone",
			in:   `{"start_time": "22.96"}`,
			want: `{"start_time": "22.96"}`,
		},
		{
			name: "unrelated field never repaired",
			in:   `{"version": "1.2.3"}`,
			want: `{"version": "1.2.3"}`,
		},
		{
			name: "both repairs in one document",
			in:   `{"end_time": "3.10.25", "valence": +1}`,
			want: `{"end_time": 190.25, "valence": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeNumericText(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeNumericText(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := NormalizeNumericText(got); again != got {
				t.Errorf("not idempotent: second pass changed %q to %q", got, again)
			}
		})
	}
}

func TestParseTimeSeconds(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{name: "plain float", in: "22.96", want: 22.96},
		{name: "plain integer", in: "45", want: 45},
		{name: "minutes seconds clock", in: "2:02.96", want: 122.96},
		{name: "hours minutes seconds clock", in: "1:02:03", want: 3723},
		{name: "multi dot artifact", in: "2.02.96", want: 122.96},
		{name: "multi dot with extra segment", in: "1.02.9.6", want: 62.96},
		{name: "unparseable", in: "abc", want: 0},
		{name: "empty", in: "", want: 0},
		{name: "infinity", in: "Inf", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTimeSeconds(tt.in)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ParseTimeSeconds(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRound4(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 2.5, want: 2.5},
		{in: 11.333333333, want: 11.3333},
		{in: 8.49999999, want: 8.5},
		{in: 0, want: 0},
		{in: 0.00004, want: 0},
		{in: 0.00005, want: 0.0001},
	}

	for _, tt := range tests {
		if got := Round4(tt.in); got != tt.want {
			t.Errorf("Round4(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
