package store

import (
	"context"
	"encoding/base64"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// tenantsCollection is the root collection holding one document per tenant;
// all record collections hang off it.
const tenantsCollection = "tenants"

// FirestoreOption applies a configuration option to the Firestore adapter.
type FirestoreOption func(*firestoreConfig)

type firestoreConfig struct {
	projectID         string
	credentialsFile   string
	credentialsBase64 string
}

// WithProjectID sets the Google Cloud project backing the store.
func WithProjectID(id string) FirestoreOption {
	return func(c *firestoreConfig) {
		c.projectID = id
	}
}

// WithCredentialsFile points the client at a service account JSON file.
func WithCredentialsFile(path string) FirestoreOption {
	return func(c *firestoreConfig) {
		c.credentialsFile = path
	}
}

// WithCredentialsBase64 supplies base64-encoded service account JSON, for
// environments where credentials travel through an env var instead of a file.
func WithCredentialsBase64(raw string) FirestoreOption {
	return func(c *firestoreConfig) {
		c.credentialsBase64 = raw
	}
}

// Firestore implements Store on Cloud Firestore. Tenant collections live at
// tenants/{tenant}/{collection}; child records at
// tenants/{tenant}/{collection}/{id}/{subcollection}.
type Firestore struct {
	client *firestore.Client
}

var _ Store = (*Firestore)(nil)

// NewFirestore builds a Firestore-backed store. A missing project id is a
// configuration error, not a transient one. Credential precedence: inline
// base64 JSON, then a credentials file, then application default credentials
// (the SDK also honors FIRESTORE_EMULATOR_HOST on its own).
func NewFirestore(ctx context.Context, opts ...FirestoreOption) (*Firestore, error) {
	var cfg firestoreConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.projectID == "" {
		return nil, fmt.Errorf("%w: missing project id", ErrNotConfigured)
	}

	var clientOpts []option.ClientOption
	switch {
	case cfg.credentialsBase64 != "":
		decoded, err := base64.StdEncoding.DecodeString(cfg.credentialsBase64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid base64 credentials: %v", ErrNotConfigured, err)
		}
		clientOpts = append(clientOpts, option.WithCredentialsJSON(decoded))
	case cfg.credentialsFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.credentialsFile))
	}

	client, err := firestore.NewClient(ctx, cfg.projectID, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	return &Firestore{client: client}, nil
}

// Close releases the underlying client.
func (f *Firestore) Close() error {
	return f.client.Close()
}

func (f *Firestore) collection(tenant, collection string) *firestore.CollectionRef {
	return f.client.Collection(tenantsCollection).Doc(tenant).Collection(collection)
}

func (f *Firestore) ListUnder(ctx context.Context, tenant, collection string) ([]Document, error) {
	iter := f.collection(tenant, collection).Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, mapFirestoreError(err)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func (f *Firestore) SetMerge(ctx context.Context, tenant, collection, id string, fields map[string]any) error {
	_, err := f.collection(tenant, collection).Doc(id).Set(ctx, fields, firestore.MergeAll)
	return mapFirestoreError(err)
}

func (f *Firestore) AppendChild(ctx context.Context, tenant, collection, id, subcollection string, fields map[string]any) (string, error) {
	ref := f.collection(tenant, collection).Doc(id).Collection(subcollection).NewDoc()
	if _, err := ref.Create(ctx, fields); err != nil {
		return "", mapFirestoreError(err)
	}
	return ref.ID, nil
}

func (f *Firestore) AtomicIncrement(ctx context.Context, tenant, collection, id, field string, delta int64) error {
	// Set-with-merge keeps the increment valid even when the counter field is
	// not present on the document yet.
	_, err := f.collection(tenant, collection).Doc(id).Set(ctx, map[string]any{
		field: firestore.Increment(delta),
	}, firestore.MergeAll)
	return mapFirestoreError(err)
}

func (f *Firestore) Create(ctx context.Context, tenant, collection string, fields map[string]any) (string, error) {
	ref := f.collection(tenant, collection).NewDoc()
	if _, err := ref.Create(ctx, fields); err != nil {
		return "", mapFirestoreError(err)
	}
	return ref.ID, nil
}

func (f *Firestore) CreateIfAbsent(ctx context.Context, tenant, collection, id string, fields map[string]any) error {
	_, err := f.collection(tenant, collection).Doc(id).Create(ctx, fields)
	return mapFirestoreError(err)
}

// mapFirestoreError translates gRPC status codes into the package's sentinel
// kinds so callers can branch without importing grpc.
func mapFirestoreError(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %v", ErrAlreadyExists, err)
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted, codes.Internal:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
