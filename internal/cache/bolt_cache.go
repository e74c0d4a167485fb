package cache

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic key derivation
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	responseBucket   = "responses"
	entryHeaderBytes = 12 // 8-byte expiry + 4-byte status code
)

// boltCache implements a ResponseCache backed by BoltDB.
type boltCache struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	maxEntryTTL     time.Duration
	cleanupInterval time.Duration
}

// openBolt initializes a BoltDB-backed ResponseCache.
func openBolt(path string, opts Options) (ResponseCache, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(responseBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	c := &boltCache{
		db:              db,
		maxEntryTTL:     opts.MaxEntryTTL,
		cleanupInterval: opts.CleanupInterval,
	}
	c.lastCleanup.Store(time.Now().Unix())
	return c, nil
}

// Close closes the BoltDB cache.
func (c *boltCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Get returns the cached entry for url if present and not expired. An
// expired entry is deleted and reported as a miss.
func (c *boltCache) Get(url string) (Entry, bool, error) {
	if c == nil || c.db == nil {
		return Entry{}, false, nil
	}

	if err := c.maybeCleanupExpired(time.Now()); err != nil {
		return Entry{}, false, err
	}

	var (
		entry Entry
		found bool
	)
	err := c.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(responseBucket))
		if bucket == nil {
			return fmt.Errorf("response bucket missing")
		}

		key := cacheKey(url)
		value := bucket.Get(key)
		if value == nil {
			return nil
		}

		decoded, expiry, ok := decodeEntry(value)
		if !ok || !expiry.After(time.Now()) {
			return bucket.Delete(key)
		}

		entry = decoded
		found = true
		return nil
	})
	return entry, found, err
}

// Put stores entry for url with the given freshness lifetime, clamped to
// the configured maximum.
func (c *boltCache) Put(url string, entry Entry, ttl time.Duration) error {
	if c == nil || c.db == nil {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	if ttl > c.maxEntryTTL {
		ttl = c.maxEntryTTL
	}

	now := time.Now()
	if err := c.maybeCleanupExpired(now); err != nil {
		return err
	}

	return c.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(responseBucket))
		if bucket == nil {
			return fmt.Errorf("response bucket missing")
		}
		return bucket.Put(cacheKey(url), encodeEntry(entry, now.Add(ttl)))
	})
}

// maybeCleanupExpired removes expired entries on a fixed cadence to avoid
// unbounded growth.
func (c *boltCache) maybeCleanupExpired(now time.Time) error {
	if c == nil || c.db == nil {
		return nil
	}

	last := time.Unix(c.lastCleanup.Load(), 0)
	if now.Sub(last) < c.cleanupInterval {
		return nil
	}

	c.cleanupMu.Lock()
	defer c.cleanupMu.Unlock()

	last = time.Unix(c.lastCleanup.Load(), 0)
	if now.Sub(last) < c.cleanupInterval {
		return nil
	}

	err := c.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(responseBucket))
		if bucket == nil {
			return fmt.Errorf("response bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			_, expiry, ok := decodeEntry(v)
			if !ok || !expiry.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		c.lastCleanup.Store(now.Unix())
	}
	return err
}

// cacheKey derives a fixed-size bucket key from the request URL.
func cacheKey(url string) []byte {
	sum := sha1.Sum([]byte(url))
	return sum[:]
}

// encodeEntry serializes an entry as expiry, status code, then body.
func encodeEntry(entry Entry, expiry time.Time) []byte {
	buf := make([]byte, entryHeaderBytes+len(entry.Body))
	binary.BigEndian.PutUint64(buf[:8], uint64(expiry.Unix()))
	binary.BigEndian.PutUint32(buf[8:12], uint32(entry.StatusCode))
	copy(buf[entryHeaderBytes:], entry.Body)
	return buf
}

// decodeEntry deserializes a stored value; ok is false for malformed values.
func decodeEntry(value []byte) (Entry, time.Time, bool) {
	if len(value) < entryHeaderBytes {
		return Entry{}, time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:8]))
	if unix <= 0 {
		return Entry{}, time.Time{}, false
	}

	entry := Entry{
		StatusCode: int(binary.BigEndian.Uint32(value[8:12])),
		Body:       append([]byte(nil), value[entryHeaderBytes:]...),
	}
	return entry, time.Unix(unix, 0), true
}
