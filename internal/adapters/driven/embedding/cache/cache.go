// Package cache provides a persistent embedding cache backed by bbolt and a
// decorator that puts it in front of any embedding service.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/custodia-labs/noteqa/internal/core/ports/driven"
	"github.com/custodia-labs/noteqa/internal/logger"
)

// Ensure the types implement their interfaces.
var (
	_ driven.EmbeddingCache   = (*BoltCache)(nil)
	_ driven.EmbeddingService = (*CachedEmbedder)(nil)
)

var bucketVectors = []byte("vectors")

// BoltCache stores embeddings keyed by a hash of model and text.
type BoltCache struct {
	db   *bbolt.DB
	path string
}

// NewBoltCache opens or creates the cache file at path.
func NewBoltCache(path string) (*BoltCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open embedding cache: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketVectors)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise embedding cache: %w", err)
	}

	return &BoltCache{db: db, path: path}, nil
}

// Path returns the cache file location.
func (c *BoltCache) Path() string {
	return c.path
}

// Get returns a cached vector and whether it was found.
func (c *BoltCache) Get(model, text string) ([]float32, bool, error) {
	var vector []float32
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketVectors).Get(key(model, text))
		if data == nil {
			return nil
		}
		vector = decode(data)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return vector, vector != nil, nil
}

// Put stores a vector.
func (c *BoltCache) Put(model, text string, vector []float32) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketVectors).Put(key(model, text), encode(vector))
	})
}

// Close releases the database file lock.
func (c *BoltCache) Close() error {
	return c.db.Close()
}

// CachedEmbedder consults the cache before calling the wrapped service.
// Cache failures are logged and fall through to the service.
type CachedEmbedder struct {
	inner driven.EmbeddingService
	cache driven.EmbeddingCache
}

// NewCachedEmbedder wraps inner with cache.
func NewCachedEmbedder(inner driven.EmbeddingService, cache driven.EmbeddingCache) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, cache: cache}
}

// Embed returns the cached vector for text or computes and stores it.
func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	model := e.inner.ModelName()

	vector, ok, err := e.cache.Get(model, text)
	if err != nil {
		logger.Warn("Embedding cache read failed: %v", err)
	} else if ok {
		return vector, nil
	}

	vector, err = e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := e.cache.Put(model, text, vector); err != nil {
		logger.Warn("Embedding cache write failed: %v", err)
	}
	return vector, nil
}

// ModelName returns the wrapped service's model.
func (e *CachedEmbedder) ModelName() string {
	return e.inner.ModelName()
}

// Ping forwards to the wrapped service when it supports connectivity checks.
func (e *CachedEmbedder) Ping(ctx context.Context) error {
	if p, ok := e.inner.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close closes both the cache and the wrapped service.
func (e *CachedEmbedder) Close() error {
	cacheErr := e.cache.Close()
	if err := e.inner.Close(); err != nil {
		return err
	}
	return cacheErr
}

func key(model, text string) []byte {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return sum[:]
}

func encode(vector []float32) []byte {
	buf := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// decode copies out of the bbolt page, which is only valid inside the transaction.
func decode(data []byte) []float32 {
	vector := make([]float32, len(data)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vector
}
