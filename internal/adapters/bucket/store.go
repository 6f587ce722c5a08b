// Package bucket stores downloaded payloads in a gocloud blob bucket.
package bucket

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"

	"github.com/savage13/fern/pkg/log"
)

// maxSuffix bounds the search for a free key.
const maxSuffix = 10000

// Store implements ports.PayloadStore on a blob bucket.
type Store struct {
	bucket *blob.Bucket
	logger log.Logger
}

// NewStore wraps an open bucket. The caller keeps ownership of bucket.
func NewStore(bucket *blob.Bucket, logger log.Logger) *Store {
	return &Store{bucket: bucket, logger: log.OrNoop(logger)}
}

// Open opens the bucket at location. A location with a URL scheme
// (file://, mem://) is opened with blob.OpenBucket; anything else is a local
// directory, created if missing.
func Open(ctx context.Context, location string) (*blob.Bucket, error) {
	if strings.Contains(location, "://") {
		b, err := blob.OpenBucket(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("open bucket %s: %w", location, err)
		}
		return b, nil
	}
	if location == "" {
		location = "."
	}
	dir, err := filepath.Abs(location)
	if err != nil {
		return nil, err
	}
	b, err := fileblob.OpenBucket(dir, &fileblob.Options{CreateDir: true})
	if err != nil {
		return nil, fmt.Errorf("open directory %s: %w", dir, err)
	}
	return b, nil
}

// Put writes data under name. When name is taken, the first free key of
// name.0, name.1, ... is used instead. The key written is returned.
func (s *Store) Put(ctx context.Context, name string, data []byte) (string, error) {
	key, err := s.freeKey(ctx, name)
	if err != nil {
		return "", err
	}
	if err := s.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: "application/vnd.fdsn.mseed"}); err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	s.logger.Info("saved payload",
		log.String("key", key),
		log.String("size", humanize.IBytes(uint64(len(data)))),
	)
	return key, nil
}

func (s *Store) freeKey(ctx context.Context, name string) (string, error) {
	key := name
	for i := 0; i < maxSuffix; i++ {
		ok, err := s.bucket.Exists(ctx, key)
		if err != nil {
			return "", fmt.Errorf("check %s: %w", key, err)
		}
		if !ok {
			return key, nil
		}
		key = name + "." + strconv.Itoa(i)
	}
	return "", fmt.Errorf("no free key for %s", name)
}
