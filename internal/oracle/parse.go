package oracle

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeLenient parses a JSON object out of free-form oracle output. Models
// routinely wrap the payload in ```json fences or surround it with prose;
// both are stripped before unmarshalling. Any remaining mismatch is an
// error the caller treats as oracle absence.
func decodeLenient(raw string, v interface{}) error {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}

	// Second chance: cut to the outermost object.
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON object in oracle output")
	}

	if err := json.Unmarshal([]byte(cleaned[start:end+1]), v); err != nil {
		return fmt.Errorf("decode oracle JSON: %w", err)
	}
	return nil
}
