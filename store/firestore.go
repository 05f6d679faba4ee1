package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// FirestoreStore backs the DocumentStore contract with Cloud Firestore, the
// store the practice's hosted deployment uses. Credentials are resolved from
// the ambient environment (GOOGLE_APPLICATION_CREDENTIALS or metadata server).
type FirestoreStore struct {
	client *firestore.Client
}

var _ DocumentStore = (*FirestoreStore)(nil)

// NewFirestoreStore connects to the given project.
func NewFirestoreStore(ctx context.Context, projectID string) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore connect: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

// Close releases the underlying gRPC connection.
func (f *FirestoreStore) Close() error {
	return f.client.Close()
}

func (f *FirestoreStore) List(ctx context.Context, collectionPath string) ([]Document, error) {
	var docs []Document

	iter := f.client.Collection(collectionPath).Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore list %s: %w", collectionPath, err)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return docs, nil
}

func (f *FirestoreStore) Get(ctx context.Context, docPath string) (Document, error) {
	snap, err := f.client.Doc(docPath).Get(ctx)
	if err != nil {
		if snap != nil && !snap.Exists() {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("firestore get %s: %w", docPath, err)
	}
	return Document{ID: snap.Ref.ID, Fields: snap.Data()}, nil
}

func (f *FirestoreStore) Add(ctx context.Context, collectionPath string, fields map[string]any) (string, error) {
	ref, _, err := f.client.Collection(collectionPath).Add(ctx, fields)
	if err != nil {
		return "", fmt.Errorf("firestore add to %s: %w", collectionPath, err)
	}
	return ref.ID, nil
}

func (f *FirestoreStore) Set(ctx context.Context, docPath string, fields map[string]any) error {
	if _, err := f.client.Doc(docPath).Set(ctx, fields); err != nil {
		return fmt.Errorf("firestore set %s: %w", docPath, err)
	}
	return nil
}

func (f *FirestoreStore) Delete(ctx context.Context, docPath string) error {
	if _, err := f.client.Doc(docPath).Delete(ctx); err != nil {
		return fmt.Errorf("firestore delete %s: %w", docPath, err)
	}
	return nil
}
