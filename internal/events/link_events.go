package events

import (
	"time"

	"github.com/SAP-F-2025/valentine-service/internal/models"
	"github.com/google/uuid"
)

// EventType represents the kinds of link lifecycle events
type EventType string

const (
	// Link events
	EventLinkGenerated EventType = "link.generated"
	EventLinkResolved  EventType = "link.resolved"
	EventLinkRejected  EventType = "link.rejected"

	// Quiz events
	EventQuizAnswered EventType = "quiz.answered"
	EventQuizImported EventType = "quiz.imported"
)

const (
	eventSource  = "valentine-service"
	eventVersion = "1.0"
)

// LinkEvent is the envelope of every published event
type LinkEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Event payloads. Names and answers are never published.

type LinkGeneratedEvent struct {
	Mode          models.Mode `json:"mode"`
	QuestionCount int         `json:"question_count"`
	LinkLength    int         `json:"link_length"`
}

type LinkResolvedEvent struct {
	Mode          models.Mode `json:"mode"`
	QuestionCount int         `json:"question_count"`
}

type LinkRejectedEvent struct {
	Reason string `json:"reason"`
}

type QuizAnsweredEvent struct {
	Index    int    `json:"index"`
	Result   string `json:"result"`
	Finished bool   `json:"finished"`
}

type QuizImportedEvent struct {
	FileType  models.ImportFileType `json:"file_type"`
	TotalRows int                   `json:"total_rows"`
	Imported  int                   `json:"imported"`
	Skipped   int                   `json:"skipped"`
}

func newEvent(t EventType, data interface{}) *LinkEvent {
	return &LinkEvent{
		ID:        GenerateEventID(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func NewLinkGeneratedEvent(mode models.Mode, questions, linkLength int) *LinkEvent {
	return newEvent(EventLinkGenerated, LinkGeneratedEvent{
		Mode:          mode,
		QuestionCount: questions,
		LinkLength:    linkLength,
	})
}

func NewLinkResolvedEvent(mode models.Mode, questions int) *LinkEvent {
	return newEvent(EventLinkResolved, LinkResolvedEvent{Mode: mode, QuestionCount: questions})
}

func NewLinkRejectedEvent(reason string) *LinkEvent {
	return newEvent(EventLinkRejected, LinkRejectedEvent{Reason: reason})
}

func NewQuizAnsweredEvent(index int, result string, finished bool) *LinkEvent {
	return newEvent(EventQuizAnswered, QuizAnsweredEvent{Index: index, Result: result, Finished: finished})
}

func NewQuizImportedEvent(fileType models.ImportFileType, total, imported, skipped int) *LinkEvent {
	return newEvent(EventQuizImported, QuizImportedEvent{
		FileType:  fileType,
		TotalRows: total,
		Imported:  imported,
		Skipped:   skipped,
	})
}

// GenerateEventID returns a random event ID
func GenerateEventID() string {
	return uuid.NewString()
}
