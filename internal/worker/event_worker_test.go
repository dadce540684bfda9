package worker

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventPayloadParseIDs(t *testing.T) {
	candidateID := uuid.New()
	interviewID := uuid.New()

	t.Run("both IDs present", func(t *testing.T) {
		p := EventPayload{CandidateID: candidateID.String(), InterviewID: interviewID.String()}
		gotCandidate, gotInterview, err := p.parseIDs()
		require.NoError(t, err)
		assert.Equal(t, candidateID, gotCandidate)
		require.NotNil(t, gotInterview)
		assert.Equal(t, interviewID, *gotInterview)
	})

	t.Run("interview ID optional", func(t *testing.T) {
		p := EventPayload{CandidateID: candidateID.String()}
		gotCandidate, gotInterview, err := p.parseIDs()
		require.NoError(t, err)
		assert.Equal(t, candidateID, gotCandidate)
		assert.Nil(t, gotInterview)
	})

	t.Run("invalid candidate ID", func(t *testing.T) {
		p := EventPayload{CandidateID: "not-a-uuid"}
		_, _, err := p.parseIDs()
		assert.Error(t, err)
	})

	t.Run("invalid interview ID", func(t *testing.T) {
		p := EventPayload{CandidateID: candidateID.String(), InterviewID: "not-a-uuid"}
		_, _, err := p.parseIDs()
		assert.Error(t, err)
	})
}
