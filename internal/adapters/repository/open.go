package repository

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Source kinds accepted by Open.
const (
	SourceFirestore = "firestore"
	SourceMongo     = "mongo"
	SourceFile      = "file"
)

// SourceConfig selects and configures the document store.
type SourceConfig struct {
	Kind                     string
	FirestoreProject         string
	FirestoreCredentialsFile string
	MongoURI                 string
	MongoDatabase            string
	SnapshotDir              string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// Open connects the configured Reader. The returned closer releases it.
func Open(ctx context.Context, cfg SourceConfig) (Reader, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case SourceFirestore:
		r, err := DialFirestore(ctx, cfg.FirestoreProject, cfg.FirestoreCredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		return r, r, nil
	case SourceMongo:
		r, err := DialMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		return r, closerFunc(func() error { return r.Close(context.Background()) }), nil
	case SourceFile:
		return FileReader{Dir: cfg.SnapshotDir}, nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Kind)
	}
}
