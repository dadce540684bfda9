package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLenient(t *testing.T) {
	type payload struct {
		Score int `json:"score"`
	}

	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{
			name: "plain JSON",
			raw:  `{"score": 7}`,
			want: 7,
		},
		{
			name: "fenced JSON",
			raw:  "```json\n{\"score\": 8}\n```",
			want: 8,
		},
		{
			name: "bare fence",
			raw:  "```\n{\"score\": 4}\n```",
			want: 4,
		},
		{
			name: "prose-wrapped object",
			raw:  `Here is my evaluation: {"score": 9} — hope that helps!`,
			want: 9,
		},
		{
			name:    "no object at all",
			raw:     "I cannot answer that.",
			wantErr: true,
		},
		{
			name:    "braces but invalid JSON",
			raw:     `answer: {score: nine}`,
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
			var p payload
			err := decodeLenient(tt.raw, &p)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Score)
		})
	}
}
