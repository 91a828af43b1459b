// Package api provides the completion gateways used by the send pipeline.
package api

// GJSON paths for extracting values from generateContent responses.
// Only the first candidate and its first part are read.
const (
	PathCandidates    = "candidates"
	PathCandidateText = "candidates.0.content.parts.0.text"
	PathFinishReason  = "candidates.0.finishReason"
	PathBlockReason   = "promptFeedback.blockReason"
	PathErrorMessage  = "error.message"
)
