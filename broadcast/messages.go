package broadcast

import (
	"time"

	"actioncam/recognize"
)

// Message types carried in the envelope Type field.
const (
	TypeIntermediate = "intermediate"
	TypeFinal        = "final"
)

// ResultMessage is the JSON envelope for recognition results sent over the
// hub. Intermediate messages are followed by a binary frame with the
// annotated JPEG when rendering succeeded.
type ResultMessage struct {
	Type      string                  `json:"type"`
	SessionID string                  `json:"session_id"`
	Labels    []recognize.RankedLabel `json:"labels"`
	Clips     int                     `json:"clips,omitempty"`
	Timestamp time.Time               `json:"timestamp"`
}

// NewIntermediateMessage builds the envelope for a smoothed rolling result.
func NewIntermediateMessage(r recognize.IntermediateResult) ResultMessage {
	return ResultMessage{
		Type:      TypeIntermediate,
		SessionID: r.SessionID,
		Labels:    r.Labels,
		Timestamp: r.Timestamp,
	}
}

// NewFinalMessage builds the envelope for a session's final verdict.
func NewFinalMessage(r recognize.FinalResult) ResultMessage {
	return ResultMessage{
		Type:      TypeFinal,
		SessionID: r.SessionID,
		Labels:    r.Labels,
		Clips:     r.Clips,
		Timestamp: r.Timestamp,
	}
}
