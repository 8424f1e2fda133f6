package domain

// Ledger is the ordered collection of entries, newest first.
//
// Entries are stored oldest first so Append stays O(1) amortized; every
// accessor exposes them newest first. A Ledger value is never modified in
// place: Append returns the extended ledger. Always extend the latest value;
// appending twice to the same older value would make the two results share
// storage.
type Ledger struct {
	entries []Entry
}

// NewLedger builds a ledger from entries ordered newest first,
// which is the order they are persisted in.
func NewLedger(newestFirst []Entry) Ledger {
	entries := make([]Entry, len(newestFirst))
	for i, e := range newestFirst {
		entries[len(newestFirst)-1-i] = e
	}
	return Ledger{entries: entries}
}

// Append returns the ledger with e as its newest entry.
func (l Ledger) Append(e Entry) Ledger {
	return Ledger{entries: append(l.entries, e)}
}

// Entries returns a copy of the entries, newest first.
func (l Ledger) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}

// Len returns the number of entries.
func (l Ledger) Len() int {
	return len(l.entries)
}

// TotalPoints folds the point values of every entry.
func (l Ledger) TotalPoints() int {
	total := 0
	for _, e := range l.entries {
		total += e.Points
	}
	return total
}
