// Package repository reads platform collections from a document store and
// ingests them into a typed snapshot.
package repository

import "context"

// Record is one raw document from a collection.
type Record struct {
	ID     string
	Fields map[string]any
}

// Reader provides read access to the document store.
type Reader interface {
	// FetchAll returns every record in collection. Record order is the
	// store's natural order and carries no meaning.
	FetchAll(ctx context.Context, collection string) ([]Record, error)
}

// Collections names the collections the loader reads.
type Collections struct {
	Members    string `koanf:"members"`
	Events     string `koanf:"events"`
	Artifacts  string `koanf:"artifacts"`
	Interviews string `koanf:"interviews"`
	Jobs       string `koanf:"jobs"`
}

// DefaultCollections returns the production collection names.
func DefaultCollections() Collections {
	return Collections{
		Members:    "users",
		Events:     "creditTransactions",
		Artifacts:  "cvReviews",
		Interviews: "interviews",
		Jobs:       "jobs",
	}
}

func (c Collections) withDefaults() Collections {
	d := DefaultCollections()
	if c.Members == "" {
		c.Members = d.Members
	}
	if c.Events == "" {
		c.Events = d.Events
	}
	if c.Artifacts == "" {
		c.Artifacts = d.Artifacts
	}
	if c.Interviews == "" {
		c.Interviews = d.Interviews
	}
	if c.Jobs == "" {
		c.Jobs = d.Jobs
	}
	return c
}
