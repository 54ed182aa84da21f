// Package store provides the record storage layer: a uniform CRUD contract
// over typed record collections keyed by entity name, with an in-memory
// implementation for mock/test use and a Postgres implementation for
// production.
package store

import (
	"context"
	"errors"
	"time"
)

// Entity names for the collections the service manages.
const (
	EntityClient       = "client"
	EntityTransaction  = "transaction"
	EntityBankEntry    = "bank_entry"
	EntityInvoice      = "invoice"
	EntityDocument     = "document"
	EntityConversation = "conversation"
	EntityMessage      = "message"
)

var (
	// ErrNotFound is returned when no record with the requested ID exists.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidID is returned before any backend call when an ID is not a
	// positive integer.
	ErrInvalidID = errors.New("invalid ID: must be a positive integer")
)

// Record is a single stored record. Fields holds the entity-specific data;
// ID and the timestamps are managed by the store.
type Record struct {
	ID        int            `json:"Id"`
	CreatedAt time.Time      `json:"CreatedOn"`
	UpdatedAt time.Time      `json:"ModifiedOn"`
	Fields    map[string]any `json:"fields"`
}

// Clone returns a deep copy of the record so callers can mutate the result
// without aliasing store state.
func (r Record) Clone() Record {
	out := r
	out.Fields = cloneFields(r.Fields)
	return out
}

// Store is the CRUD contract shared by all implementations. Handlers receive
// a Store; they never reach into a concrete backend.
type Store interface {
	// GetAll returns the full collection, most-recent-first by creation
	// timestamp (insertion order breaks ties).
	GetAll(ctx context.Context, entity string) ([]Record, error)

	// GetByID returns ErrInvalidID for non-positive IDs and ErrNotFound
	// when the ID is absent.
	GetByID(ctx context.Context, entity string, id int) (Record, error)

	// Create assigns an ID strictly greater than every previously assigned
	// ID in the collection and appends the record.
	Create(ctx context.Context, entity string, fields map[string]any) (Record, error)

	// Update merges fields into the existing record, preserving ID and
	// creation time. Returns ErrNotFound when the ID is absent.
	Update(ctx context.Context, entity string, id int, fields map[string]any) (Record, error)

	// Delete removes the record and returns the removed snapshot. Returns
	// ErrNotFound when the ID is absent; the collection is unchanged then.
	Delete(ctx context.Context, entity string, id int) (Record, error)
}

// ValidateID checks the positive-integer ID rule shared by GetByID, Update
// and Delete.
func ValidateID(id int) error {
	if id <= 0 {
		return ErrInvalidID
	}
	return nil
}

func cloneFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneFields(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
