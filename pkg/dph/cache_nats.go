package dph

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fivetwenty-io/dph-client/internal/constants"
	"github.com/nats-io/nats.go"
)

// NATSKVConfig configures a NATS JetStream key-value cache.
type NATSKVConfig struct {
	// URL of the NATS server. Ignored when Conn is set.
	URL string
	// Conn is an existing connection to reuse. The cache does not close it.
	Conn *nats.Conn
	// Bucket name. Created when missing.
	Bucket string
	// TTL applied by the bucket when it is created.
	TTL time.Duration
}

// NATSKVCache stores entries in a JetStream key-value bucket, so several
// processes can share cached reads.
type NATSKVCache struct {
	conn   *nats.Conn
	owned  bool
	bucket nats.KeyValue
}

// NewNATSKVCache connects to NATS and opens or creates the configured bucket.
func NewNATSKVCache(config *NATSKVConfig) (*NATSKVCache, error) {
	if config == nil {
		return nil, ErrNATSConfigRequired
	}

	conn := config.Conn
	owned := false

	if conn == nil {
		url := config.URL
		if url == "" {
			url = nats.DefaultURL
		}

		var err error

		conn, err = nats.Connect(url, nats.Name("dph-client cache"))
		if err != nil {
			return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
		}

		owned = true
	}

	bucket, err := openBucket(conn, config)
	if err != nil {
		if owned {
			conn.Close()
		}

		return nil, err
	}

	return &NATSKVCache{conn: conn, owned: owned, bucket: bucket}, nil
}

func openBucket(conn *nats.Conn, config *NATSKVConfig) (nats.KeyValue, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("getting JetStream context: %w", err)
	}

	name := config.Bucket
	if name == "" {
		name = constants.DefaultNATSBucket
	}

	bucket, err := js.KeyValue(name)
	if errors.Is(err, nats.ErrBucketNotFound) {
		bucket, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket:      name,
			Description: "Data Product Hub response cache",
			TTL:         config.TTL,
		})
	}

	if err != nil {
		return nil, fmt.Errorf("opening key-value bucket %s: %w", name, err)
	}

	return bucket, nil
}

// natsKey maps an arbitrary cache key onto the restricted KV key alphabet.
func natsKey(key string) string {
	sum := sha256.Sum256([]byte(key))

	return "k." + hex.EncodeToString(sum[:])
}

// Get returns the entry for key.
func (c *NATSKVCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	kvEntry, err := c.bucket.Get(natsKey(key))
	if errors.Is(err, nats.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	if err != nil {
		return nil, fmt.Errorf("reading %s from NATS: %w", key, err)
	}

	var entry CacheEntry

	err = json.Unmarshal(kvEntry.Value(), &entry)
	if err != nil {
		return nil, fmt.Errorf("decoding cache entry %s: %w", key, err)
	}

	if entry.Expired() {
		_ = c.bucket.Delete(natsKey(key))

		return nil, fmt.Errorf("%w: %s", ErrCacheExpired, key)
	}

	return &entry, nil
}

// Set stores entry under key.
func (c *NATSKVCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry %s: %w", key, err)
	}

	_, err = c.bucket.Put(natsKey(key), data)
	if err != nil {
		return fmt.Errorf("writing %s to NATS: %w", key, err)
	}

	return nil
}

// Delete removes key.
func (c *NATSKVCache) Delete(ctx context.Context, key string) error {
	err := c.bucket.Delete(natsKey(key))
	if err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
		return fmt.Errorf("deleting %s from NATS: %w", key, err)
	}

	return nil
}

// Clear removes every key of the bucket.
func (c *NATSKVCache) Clear(ctx context.Context) error {
	keys, err := c.bucket.Keys()
	if errors.Is(err, nats.ErrNoKeysFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("listing NATS keys: %w", err)
	}

	for _, key := range keys {
		err := c.bucket.Delete(key)
		if err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
			return fmt.Errorf("deleting %s from NATS: %w", key, err)
		}
	}

	return nil
}

// Has reports whether a live entry exists for key.
func (c *NATSKVCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

// Close releases the connection when the cache opened it.
func (c *NATSKVCache) Close() {
	if c.owned {
		c.conn.Close()
	}
}
