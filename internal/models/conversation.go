package models

// Conversation is an immutable, ordered snapshot of message entries.
// The zero value is an empty conversation.
type Conversation struct {
	entries []MessageEntry
}

// NewConversation builds a snapshot that owns a copy of entries
func NewConversation(entries ...MessageEntry) Conversation {
	if len(entries) == 0 {
		return Conversation{}
	}
	owned := make([]MessageEntry, len(entries))
	copy(owned, entries)
	return Conversation{entries: owned}
}

// Len returns the number of entries
func (c Conversation) Len() int {
	return len(c.entries)
}

// IsEmpty reports whether the conversation has no entries
func (c Conversation) IsEmpty() bool {
	return len(c.entries) == 0
}

// Entries returns a copy of the entries in chronological order
func (c Conversation) Entries() []MessageEntry {
	out := make([]MessageEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// At returns the entry at index i
func (c Conversation) At(i int) MessageEntry {
	return c.entries[i]
}

// Last returns the newest entry
func (c Conversation) Last() (MessageEntry, bool) {
	if len(c.entries) == 0 {
		return MessageEntry{}, false
	}
	return c.entries[len(c.entries)-1], true
}

// Pending returns the pending placeholder, if any
func (c Conversation) Pending() (MessageEntry, bool) {
	for _, e := range c.entries {
		if e.IsPending() {
			return e, true
		}
	}
	return MessageEntry{}, false
}

// PendingCount returns the number of pending entries (0 or 1 in correct operation)
func (c Conversation) PendingCount() int {
	n := 0
	for _, e := range c.entries {
		if e.IsPending() {
			n++
		}
	}
	return n
}

// LastReply returns the newest completed assistant entry
func (c Conversation) LastReply() (MessageEntry, bool) {
	for i := len(c.entries) - 1; i >= 0; i-- {
		e := c.entries[i]
		if e.Sender == SenderAssistant && e.Status == StatusComplete {
			return e, true
		}
	}
	return MessageEntry{}, false
}

// With returns a new snapshot with entries appended; c is left untouched
func (c Conversation) With(entries ...MessageEntry) Conversation {
	next := make([]MessageEntry, 0, len(c.entries)+len(entries))
	next = append(next, c.entries...)
	next = append(next, entries...)
	return Conversation{entries: next}
}

// WithoutPending returns a new snapshot with every pending entry removed
func (c Conversation) WithoutPending() Conversation {
	next := make([]MessageEntry, 0, len(c.entries))
	for _, e := range c.entries {
		if !e.IsPending() {
			next = append(next, e)
		}
	}
	return Conversation{entries: next}
}
