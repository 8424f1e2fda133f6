package domain

import "time"

// Entry is one journal record. Entries are immutable once created.
type Entry struct {
	// ID is unique and increases with creation time.
	ID string `json:"id"`

	// Text is the trimmed deed text as submitted.
	Text string `json:"text"`

	// Category is the category resolved at creation time.
	Category CategoryID `json:"category"`

	// Points is copied from the category when the entry is created,
	// so later catalog changes never rewrite history.
	Points int `json:"points"`

	// Timestamp is the full-precision creation time.
	Timestamp time.Time `json:"timestamp"`
}

// NewEntry builds an entry for a classified deed.
func NewEntry(id, text string, cat Category, at time.Time) Entry {
	return Entry{
		ID:        id,
		Text:      text,
		Category:  cat.ID,
		Points:    cat.Points,
		Timestamp: at,
	}
}

// Date is the calendar day the entry was logged, in the timestamp's location.
func (e Entry) Date() Date {
	return DateOf(e.Timestamp)
}
