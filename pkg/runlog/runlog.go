// Package runlog persists the outcome journal for supervised native runs.
// Each record tracks one launch from its launched state to a terminal
// outcome. Records are msgpack-encoded; a BadgerDB-backed store is provided
// for production use and an in-memory store for testing and embedding.
package runlog

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Sentinel errors.
var (
	// ErrNotFound is returned when a record does not exist in the store.
	ErrNotFound = errors.New("runlog: not found")
)

// Record is one journaled run.
type Record struct {
	// ID is the supervisor-assigned run id.
	ID string `msgpack:"id"`

	// Label is an optional caller-supplied description of the run.
	Label string `msgpack:"label,omitempty"`

	// State is the run state: "launched" until an outcome is journaled,
	// then "ok", "cancelled" or "fault".
	State string `msgpack:"state"`

	// Started is when the launch succeeded.
	Started time.Time `msgpack:"started"`

	// Ended is when the outcome fired. Zero while the run is live.
	Ended time.Time `msgpack:"ended,omitempty"`
}

// Terminal reports whether the record reached a terminal outcome.
func (r Record) Terminal() bool {
	return r.State != "" && r.State != "launched"
}

// Duration returns the run duration, or the time since launch for a record
// with no outcome yet.
func (r Record) Duration() time.Duration {
	if r.Ended.IsZero() {
		return time.Since(r.Started)
	}
	return r.Ended.Sub(r.Started)
}

// Encode serializes the record.
func (r Record) Encode() ([]byte, error) {
	return msgpack.Marshal(r)
}

// Decode deserializes a record.
func Decode(data []byte) (Record, error) {
	var r Record
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Store is the journal interface.
type Store interface {
	// Put stores a record keyed by its ID. Overwrites any existing record.
	Put(ctx context.Context, rec Record) error

	// Get retrieves a record by id. Returns ErrNotFound if not present.
	Get(ctx context.Context, id string) (Record, error)

	// Delete removes a record. No error if the record does not exist.
	Delete(ctx context.Context, id string) error

	// List iterates over all records in lexicographic id order.
	List(ctx context.Context) iter.Seq2[Record, error]

	// Close releases any resources held by the store.
	Close() error
}
