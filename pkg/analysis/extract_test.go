package analysis

import (
	"errors"
	"testing"
)

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "fenced json",
			raw:  "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "surrounding prose",
			raw:  "분석 결과는 다음과 같습니다.\n{\"a\": 1}\n이상입니다.",
			want: `{"a": 1}`,
		},
		{
			name: "fence and prose together",
			raw:  "Here you go:\n```json\n{\"meta\": {\"frame_number\": 75}}\n```\nDone.",
			want: `{"meta": {"frame_number": 75}}`,
		},
		{
			name: "nested braces span to last close",
			raw:  `{"a": {"b": 2}}`,
			want: `{"a": {"b": 2}}`,
		},
		{
			name:    "no object at all",
			raw:     "죄송합니다, 분석할 수 없습니다.",
			wantErr: true,
		},
		{
			name:    "open brace only",
			raw:     `{"a": 1`,
			wantErr: true,
		},
		{
			name:    "empty input",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractObject(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedResponse) {
					t.Fatalf("ExtractObject(%q) error = %v, want ErrMalformedResponse", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractObject(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ExtractObject(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
