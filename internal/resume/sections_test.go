package resume

import "testing"

func TestIsSectionHeader(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		// Exact header set, case-insensitive with surrounding whitespace.
		{"Technical Skills", true},
		{"TECHNICAL SKILLS", true},
		{"  experience  ", true},
		{"Education", true},
		{"Professional Summary", true},
		{"Contact Information", true},

		// Concatenated headers left by layout decoders.
		{"TechnicalSkills", true},
		{"WorkExperience", true},
		{"ProgrammingLanguages", true},
		{"technicalskillsjavapython", true},

		// Three or more tech keywords on one line reads as a skills list.
		{"Java, Python, JavaScript", true},
		{"react node sql", true},

		// Ordinary content.
		{"John Smith", false},
		{"Built a REST API in Go", false},
		{"Java developer", false}, // one keyword is not enough
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := IsSectionHeader(tt.line); got != tt.want {
				t.Errorf("IsSectionHeader(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}
