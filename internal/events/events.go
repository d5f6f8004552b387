package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the envelope published for every domain event.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

const (
	EventSource  = "contest-service"
	EventVersion = "1.0"
)

// Domain event types.
const (
	UserRegistered       = "user.registered"
	ContestCreated       = "contest.created"
	ContestStatusChanged = "contest.status_changed"
	ApplicationReceived  = "contest.application_received"
	ApplicationReviewed  = "contest.application_reviewed"
	SubmissionCreated    = "contest.submission_created"
	SubmissionScored     = "submission.scored"
	RankingsRecomputed   = "contest.rankings_recomputed"
	JuryAssigned         = "contest.jury_assigned"
)

// NewEvent builds an event envelope with a fresh ID and timestamp.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// ContestStatusChangedEvent is emitted when a contest transitions between
// lifecycle states, whether by an operator action or the periodic sweep.
type ContestStatusChangedEvent struct {
	ContestID string `json:"contest_id"`
	From      string `json:"from"`
	To        string `json:"to"`
}

type ApplicationReceivedEvent struct {
	ApplicationID string `json:"application_id"`
	ContestID     string `json:"contest_id"`
	UserID        string `json:"user_id"`
	Status        string `json:"status"`
}

type SubmissionScoredEvent struct {
	SubmissionID string   `json:"submission_id"`
	ContestID    string   `json:"contest_id"`
	JuryID       string   `json:"jury_id"`
	Score        float64  `json:"score"`
	FinalScore   *float64 `json:"final_score"`
}

type RankingsRecomputedEvent struct {
	ContestID string `json:"contest_id"`
	Ranked    int    `json:"ranked"`
}
