package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sender identifies who authored an entry
type Sender int

const (
	SenderUser Sender = iota
	SenderAssistant
)

func (s Sender) String() string {
	switch s {
	case SenderUser:
		return "user"
	case SenderAssistant:
		return "assistant"
	default:
		return "unknown"
	}
}

// Status is the lifecycle state of an entry
type Status int

const (
	StatusPending Status = iota
	StatusComplete
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusComplete:
		return "complete"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MessageEntry is one item of a conversation.
// Entries are values; a pending placeholder is replaced, never mutated.
type MessageEntry struct {
	ID        string
	Text      string
	Sender    Sender
	Status    Status
	IsCode    bool // only meaningful when Status is StatusComplete
	CreatedAt time.Time
}

// IsPending reports whether the entry is the assistant placeholder
func (e MessageEntry) IsPending() bool {
	return e.Status == StatusPending
}

// Result is the settlement of a turn, used to build the terminal assistant entry
type Result struct {
	Status Status
	Text   string
	IsCode bool
}

// IsCodeText reports whether text starts with a fenced-code marker
func IsCodeText(text string) bool {
	return strings.HasPrefix(text, CodeFence)
}

// CompleteResult builds the result of a successful completion
func CompleteResult(text string) Result {
	return Result{
		Status: StatusComplete,
		Text:   text,
		IsCode: IsCodeText(text),
	}
}

// FailedResult builds the result of a failed completion
func FailedResult() Result {
	return Result{
		Status: StatusFailed,
		Text:   FailedReplyText,
		IsCode: false,
	}
}

// NewUserEntry creates a completed user entry
func NewUserEntry(text string) MessageEntry {
	return MessageEntry{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    SenderUser,
		Status:    StatusComplete,
		CreatedAt: time.Now(),
	}
}

// NewPlaceholder creates a pending assistant entry
func NewPlaceholder() MessageEntry {
	return MessageEntry{
		ID:        uuid.NewString(),
		Sender:    SenderAssistant,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
}

// NewAssistantEntry creates a terminal assistant entry from a result.
// A pending result is coerced to failed so no second placeholder can be produced.
func NewAssistantEntry(r Result) MessageEntry {
	entry := MessageEntry{
		ID:        uuid.NewString(),
		Text:      r.Text,
		Sender:    SenderAssistant,
		Status:    r.Status,
		CreatedAt: time.Now(),
	}
	switch r.Status {
	case StatusComplete:
		entry.IsCode = r.IsCode
	default:
		entry.Status = StatusFailed
		entry.IsCode = false
	}
	return entry
}
