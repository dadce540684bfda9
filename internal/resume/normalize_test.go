package resume

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantLines []string
		wantWords int
	}{
		{
			name:      "empty input",
			raw:       "",
			wantLines: nil,
			wantWords: 0,
		},
		{
			name:      "whitespace only",
			raw:       "  \n\t\n   \n",
			wantLines: nil,
			wantWords: 0,
		},
		{
			name:      "trims and drops empty lines",
			raw:       "  John Smith  \n\n  Engineer \n",
			wantLines: []string{"John Smith", "Engineer"},
			wantWords: 3,
		},
		{
			name:      "windows line endings survive trimming",
			raw:       "John Smith\r\nEngineer\r\n",
			wantLines: []string{"John Smith", "Engineer"},
			wantWords: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Normalize(tt.raw)
			if len(n.Lines) != len(tt.wantLines) {
				t.Fatalf("Normalize(%q).Lines = %v, want %v", tt.raw, n.Lines, tt.wantLines)
			}
			for i := range tt.wantLines {
				if n.Lines[i] != tt.wantLines[i] {
					t.Errorf("Lines[%d] = %q, want %q", i, n.Lines[i], tt.wantLines[i])
				}
			}
			if len(n.Words) != tt.wantWords {
				t.Errorf("len(Words) = %d, want %d", len(n.Words), tt.wantWords)
			}
		})
	}
}

func TestNormalizeWordCap(t *testing.T) {
	raw := strings.Repeat("word ", 100)
	n := Normalize(raw)
	if len(n.Words) != maxWords {
		t.Errorf("len(Words) = %d, want cap %d", len(n.Words), maxWords)
	}
}
