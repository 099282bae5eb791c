// Package store defines the record store capability consumed by the dataset,
// recorder, and join-code components, plus its concrete adapters. Records are
// schemaless documents partitioned by tenant.
package store

import "context"

// Document is one record returned by a listing. Data never aliases internal
// store state; callers may mutate it freely.
type Document struct {
	ID   string
	Data map[string]any
}

// Store provides read/write access to tenant-scoped record collections.
//
// Implementations must keep the "not configured" condition (ErrNotConfigured)
// distinguishable from transient backend failures (ErrUnavailable); callers
// branch on the difference.
type Store interface {
	// ListUnder returns all documents of a tenant collection in a stable order.
	ListUnder(ctx context.Context, tenant, collection string) ([]Document, error)

	// SetMerge merges fields into a document, creating it when absent.
	SetMerge(ctx context.Context, tenant, collection, id string, fields map[string]any) error

	// AppendChild adds a document to a subcollection of an existing record and
	// returns the generated child id.
	AppendChild(ctx context.Context, tenant, collection, id, subcollection string, fields map[string]any) (string, error)

	// AtomicIncrement adds delta to a numeric field as a single store-side
	// operation. Safe under concurrent increments to the same document.
	AtomicIncrement(ctx context.Context, tenant, collection, id, field string, delta int64) error

	// Create adds a document with a generated id and returns it.
	Create(ctx context.Context, tenant, collection string, fields map[string]any) (string, error)

	// CreateIfAbsent adds a document with the given id, failing with
	// ErrAlreadyExists when the id is taken. This is the conditional-create
	// primitive that turns check-then-act reservations into one atomic write.
	CreateIfAbsent(ctx context.Context, tenant, collection, id string, fields map[string]any) error
}

// Unconfigured is a Store with no backend. Every call reports
// ErrNotConfigured, which callers treat as a signal to fall back or skip
// persistence rather than fail.
type Unconfigured struct{}

var _ Store = Unconfigured{}

func (Unconfigured) ListUnder(context.Context, string, string) ([]Document, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) SetMerge(context.Context, string, string, string, map[string]any) error {
	return ErrNotConfigured
}

func (Unconfigured) AppendChild(context.Context, string, string, string, string, map[string]any) (string, error) {
	return "", ErrNotConfigured
}

func (Unconfigured) AtomicIncrement(context.Context, string, string, string, string, int64) error {
	return ErrNotConfigured
}

func (Unconfigured) Create(context.Context, string, string, map[string]any) (string, error) {
	return "", ErrNotConfigured
}

func (Unconfigured) CreateIfAbsent(context.Context, string, string, string, map[string]any) error {
	return ErrNotConfigured
}
