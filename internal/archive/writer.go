package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strconv"

	"github.com/sformel/mob-sample-data/internal/blob"
)

// Artifact records one written output table.
type Artifact struct {
	Key  string `json:"key"`
	Size int64  `json:"size_bytes"`
	ETag string `json:"etag,omitempty"`
	Rows int    `json:"rows"`
}

// WriteOptions configures a write pass.
type WriteOptions struct {
	// Replace deletes an existing blob under each key before writing, matching
	// the overwrite semantics of a repeated batch run. Without it the
	// create-only Put contract fails the run when an artifact already exists.
	Replace bool
}

// SinkWriteError reports an output table that could not be stored.
type SinkWriteError struct {
	Key string
	Err error
}

func (e *SinkWriteError) Error() string {
	return fmt.Sprintf("write artifact %s: %v", e.Key, e.Err)
}

func (e *SinkWriteError) Unwrap() error { return e.Err }

// Write renders every table and stores it under prefix in the blob store.
// The first failure aborts the pass and is returned as a *SinkWriteError; no
// partial-output recovery is attempted.
func Write(ctx context.Context, store blob.Store, prefix string, tables []Table, opts WriteOptions) ([]Artifact, error) {
	artifacts := make([]Artifact, 0, len(tables))
	for _, t := range tables {
		key := t.Name
		if prefix != "" {
			key = path.Join(prefix, t.Name)
		}
		payload, err := t.Render()
		if err != nil {
			return nil, &SinkWriteError{Key: key, Err: err}
		}
		if opts.Replace {
			if _, err := store.Delete(ctx, key); err != nil {
				return nil, &SinkWriteError{Key: key, Err: err}
			}
		}
		info, err := store.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{
			ContentType: "text/csv",
			Metadata:    map[string]string{"rows": strconv.Itoa(len(t.Rows))},
		})
		if err != nil {
			return nil, &SinkWriteError{Key: key, Err: err}
		}
		artifacts = append(artifacts, Artifact{Key: info.Key, Size: info.Size, ETag: info.ETag, Rows: len(t.Rows)})
	}
	return artifacts, nil
}
