package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

var (
	ErrNotFound  = errors.New("archive: record not found")
	ErrInvalidID = errors.New("archive: invalid record id")
)

// Store keeps planning records as JSON objects in a blob bucket, one object
// per run under <prefix>/<id>.json.
type Store struct {
	bucket *blob.Bucket
	prefix string
}

// Open opens the bucket at bucketURL (mem://, file:///path, ...).
func Open(ctx context.Context, bucketURL, prefix string) (*Store, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("archive: open %s: %w", bucketURL, err)
	}
	return New(bucket, prefix), nil
}

// New wraps an already opened bucket. The store takes ownership of it.
func New(bucket *blob.Bucket, prefix string) *Store {
	return &Store{bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Save writes rec, replacing any record with the same ID.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	if err := validID(rec.ID); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("archive: encode %s: %w", rec.ID, err)
	}
	opts := &blob.WriterOptions{ContentType: "application/json"}
	if err := s.bucket.WriteAll(ctx, s.keyFor(rec.ID), data, opts); err != nil {
		return fmt.Errorf("archive: write %s: %w", rec.ID, err)
	}
	return nil
}

// Get reads the record with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	return s.read(ctx, s.keyFor(id))
}

// List returns every record under the prefix, newest first.
func (s *Store) List(ctx context.Context) ([]*Record, error) {
	iter := s.bucket.List(&blob.ListOptions{Prefix: s.listPrefix()})

	var records []*Record
	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("archive: list: %w", err)
		}
		if obj.IsDir || !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		rec, err := s.read(ctx, obj.Key)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// Delete removes a record. Deleting a missing record is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	err := s.bucket.Delete(ctx, s.keyFor(id))
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return fmt.Errorf("archive: delete %s: %w", id, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.bucket.Close()
}

func (s *Store) read(ctx context.Context, key string) (*Record, error) {
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("archive: read %s: %w", key, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("archive: decode %s: %w", key, err)
	}
	return &rec, nil
}

func (s *Store) keyFor(id string) string {
	return s.listPrefix() + id + ".json"
}

func (s *Store) listPrefix() string {
	if s.prefix == "" {
		return ""
	}
	return s.prefix + "/"
}

func validID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
