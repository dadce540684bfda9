package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// InterviewerSessionKey returns the cache key for an interviewer's login session.
func (r *CacheKeyStruct) InterviewerSessionKey(interviewerID int) string {
	return fmt.Sprintf("login:%d", interviewerID)
}

// CandidateProgressKey returns the cache key for a candidate's interview
// progress pointer (current question index of the active interview).
func (r *CacheKeyStruct) CandidateProgressKey(candidateID string) string {
	return fmt.Sprintf("candidate:%s:progress", candidateID)
}

// CandidateMonitorChannel returns the Redis PubSub channel name for a
// candidate's live interview monitor.
func (r *CacheKeyStruct) CandidateMonitorChannel(candidateID string) string {
	return fmt.Sprintf("candidate:%s:monitor", candidateID)
}

var CacheKey = NewCacheKeyStruct()
