package analysis

import (
	"testing"

	"visage/pkg/schema"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name         string
		in           []schema.ClassEntry
		wantClasses  []int
		wantWarnings int
	}{
		{
			name: "registry class overrides model class",
			in: []schema.ClassEntry{
				{Category: "Face", Class: 9, Label: "둥근형"},
			},
			wantClasses: []int{1},
		},
		{
			name: "unknown label keeps model class",
			in: []schema.ClassEntry{
				{Category: "Face", Class: 2, Label: "불명"},
			},
			wantClasses:  []int{2},
			wantWarnings: 1,
		},
		{
			name: "unknown label without class falls to zero",
			in: []schema.ClassEntry{
				{Category: "EmoCategory", Label: "환희"},
			},
			wantClasses:  []int{0},
			wantWarnings: 1,
		},
		{
			name: "unknown category is degraded, not fatal",
			in: []schema.ClassEntry{
				{Category: "HairStyle", Class: 3, Label: "단발"},
			},
			wantClasses:  []int{3},
			wantWarnings: 1,
		},
		{
			name: "label from another category does not match",
			in: []schema.ClassEntry{
				{Category: "Male/Female", Label: "둥근형"},
			},
			wantClasses:  []int{0},
			wantWarnings: 1,
		},
		{
			name: "full classification set",
			in: []schema.ClassEntry{
				{Category: "Male/Female", Label: "여자"},
				{Category: "EmomainCategory", Label: "부정"},
				{Category: "EmoCategory", Label: "불안"},
				{Category: "Face", Label: "둥근형"},
				{Category: "EyeShape", Label: "수평형"},
				{Category: "NoseShape", Label: "직선형"},
				{Category: "MouthShape", Label: "곡선형"},
			},
			wantClasses: []int{2, 2, 5, 1, 2, 1, 2},
		},
		{
			name:        "empty input",
			in:          nil,
			wantClasses: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warnings := Reconcile(tt.in)
			if len(got) != len(tt.wantClasses) {
				t.Fatalf("Reconcile() returned %d entries, want %d", len(got), len(tt.wantClasses))
			}
			for i, want := range tt.wantClasses {
				if got[i].Class != want {
					t.Errorf("entry %d (%s/%s) class = %d, want %d",
						i, got[i].Category, got[i].Label, got[i].Class, want)
				}
				if got[i].Label != tt.in[i].Label {
					t.Errorf("entry %d label changed to %q", i, got[i].Label)
				}
			}
			if len(warnings) != tt.wantWarnings {
				t.Errorf("got %d warnings, want %d", len(warnings), tt.wantWarnings)
			}
		})
	}
}

func TestReconcileSuggestsClosestLabel(t *testing.T) {
	_, warnings := Reconcile([]schema.ClassEntry{
		{Category: "Face", Label: "둥근"},
	})
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	if warnings[0].Closest != "둥근형" {
		t.Errorf("closest = %q, want 둥근형", warnings[0].Closest)
	}
}
