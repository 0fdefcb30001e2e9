package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// FirestoreReader reads collections from the platform's Firestore project.
type FirestoreReader struct {
	client *firestore.Client
}

// DialFirestore opens a client for project. credentialsFile may be empty to
// use application default credentials.
func DialFirestore(ctx context.Context, project, credentialsFile string) (*FirestoreReader, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, project, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &FirestoreReader{client: client}, nil
}

// FetchAll implements Reader.
func (r *FirestoreReader) FetchAll(ctx context.Context, collection string) ([]Record, error) {
	docs, err := r.client.Collection(collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(docs))
	for _, doc := range docs {
		out = append(out, Record{ID: doc.Ref.ID, Fields: doc.Data()})
	}
	return out, nil
}

// Close releases the client.
func (r *FirestoreReader) Close() error {
	return r.client.Close()
}
