package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileReader reads offline snapshots stored as <dir>/<collection>.json,
// each file holding a JSON array of objects. The record id is taken from
// "id" or "_id".
type FileReader struct {
	Dir string
}

// FetchAll implements Reader.
func (r FileReader) FetchAll(ctx context.Context, collection string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(r.Dir, collection+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var docs []map[string]any
	if err := dec.Decode(&docs); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSnapshotFile, path, err)
	}

	out := make([]Record, 0, len(docs))
	for _, doc := range docs {
		rec := Record{Fields: doc}
		for _, k := range []string{"id", "_id"} {
			if id, ok := doc[k].(string); ok && id != "" {
				rec.ID = id
				delete(doc, k)
				break
			}
		}
		out = append(out, rec)
	}
	return out, nil
}
