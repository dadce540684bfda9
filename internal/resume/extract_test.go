package resume

import "testing"

func TestExtractName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "standalone line",
			raw:  "Jane Doe\nFull Stack Developer\njane@example.com",
			want: "Jane Doe",
		},
		{
			name: "hyphen and apostrophe",
			raw:  "Mary-Anne O'Brien\nmary@example.com",
			want: "Mary-Anne O'Brien",
		},
		{
			name: "explicit label",
			raw:  "Candidate profile\nName: John Smith\nSkills below",
			want: "John Smith",
		},
		{
			name: "merged tokens from layout decoder",
			raw:  "JohnSmith\njohn@example.com",
			want: "John Smith",
		},
		{
			name: "merged tokens with trailing section word",
			raw:  "JohnSmithSkills: Java, Python\nExperience",
			want: "John Smith",
		},
		{
			name: "name inside header window",
			raw:  "Senior Software Engineer John Smith Technical Skills Java React",
			want: "John Smith",
		},
		{
			name: "section header is not a name",
			raw:  "Technical Skills\nJava, Python, React\nSQL and HTML",
			want: "",
		},
		{
			name: "job title is not a name",
			raw:  "React Developer\nreact@example.com",
			want: "",
		},
		{
			name: "digits disqualify",
			raw:  "John123 Doe\ncontact below",
			want: "",
		},
		{
			name: "headers only yields no name",
			raw:  "Experience\nTechnicalSkills\nJava Python React",
			want: "",
		},
		{
			name: "empty input",
			raw:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.raw)
			if got.Name != tt.want {
				t.Errorf("Extract(%q).Name = %q, want %q", tt.raw, got.Name, tt.want)
			}
		})
	}
}

func TestExtractEmailAndPhone(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantEmail string
		wantPhone string
	}{
		{
			name:      "both present",
			raw:       "Jane Doe\njane.doe+jobs@example.co.uk\n+1 (555) 123-4567",
			wantEmail: "jane.doe+jobs@example.co.uk",
			wantPhone: "+1 (555) 123-4567",
		},
		{
			name:      "plain phone formats",
			raw:       "call 555-123-4567 or 555.987.6543",
			wantEmail: "",
			wantPhone: "555-123-4567",
		},
		{
			name:      "neither present",
			raw:       "no contact details here",
			wantEmail: "",
			wantPhone: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.raw)
			if got.Email != tt.wantEmail {
				t.Errorf("Email = %q, want %q", got.Email, tt.wantEmail)
			}
			if got.Phone != tt.wantPhone {
				t.Errorf("Phone = %q, want %q", got.Phone, tt.wantPhone)
			}
		})
	}
}

// Extraction must be total: arbitrary input never panics and always yields
// a (possibly empty) identity.
func TestExtractTotality(t *testing.T) {
	inputs := []string{
		"",
		"\x00\x01\x02",
		"日本語のテキスト",
		"@@@@@@",
		"a",
		"ALLCAPS HEADER LINE",
	}
	for _, raw := range inputs {
		got := Extract(raw)
		if got.Name != "" && len(got.Name) < 2 {
			t.Errorf("Extract(%q) produced invalid name %q", raw, got.Name)
		}
	}
}

func TestIsValidName(t *testing.T) {
	tests := []struct {
		candidate string
		want      bool
	}{
		{"Jane Doe", true},
		{"Mary-Anne O'Brien", true},
		{"John Michael Smith", true},
		{"John", false},               // single word
		{"Technical Skills", false},   // vocabulary
		{"React Developer", false},    // vocabulary
		{"John123 Doe", false},        // digits
		{"jane doe", false},           // not capitalized
		{"A B C D E", false},          // too many words
		{"John SMITH", false},         // all-caps word
	}

	for _, tt := range tests {
		t.Run(tt.candidate, func(t *testing.T) {
			if got := isValidName(tt.candidate); got != tt.want {
				t.Errorf("isValidName(%q) = %v, want %v", tt.candidate, got, tt.want)
			}
		})
	}
}
