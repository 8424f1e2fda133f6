// Package store defines the persistence contract consumed by the journal.
//
// Values are opaque strings; the journal owns their encoding. Every Save is a
// full overwrite of one key and the last write wins.
package store

import "context"

// Logical keys persisted by the journal.
const (
	// KeyDeeds holds the JSON encoded entry list, newest first.
	KeyDeeds = "deeds"
	// KeyStreak holds the current streak as a decimal integer.
	KeyStreak = "streak"
	// KeyLastDate holds the last log date as YYYY-MM-DD.
	KeyLastDate = "last_date"
)

// Keys returns every logical key, in the order the journal loads them.
func Keys() []string {
	return []string{KeyDeeds, KeyStreak, KeyLastDate}
}

// Gateway is a key-value persistence backend.
type Gateway interface {
	// Load returns the stored value for key; ok is false when the key is absent.
	Load(ctx context.Context, key string) (value string, ok bool, err error)

	// Save overwrites the value for key.
	Save(ctx context.Context, key, value string) error

	// ClearAll removes every key written by this application.
	ClearAll(ctx context.Context) error
}

// Pinger is implemented by gateways backed by a remote or file resource
// whose availability can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping probes g when it supports it, and reports healthy otherwise.
func Ping(ctx context.Context, g Gateway) error {
	if p, ok := g.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
