package cache

import (
	"testing"
	"time"
)

func TestBoltCacheStoresAndExpiresEntries(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		MaxEntryTTL:     time.Minute,
		CleanupInterval: time.Minute,
	}

	cacheRaw, err := openBolt(dir+"/responses.db", opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	c := cacheRaw.(*boltCache)
	defer c.Close()

	if _, found, err := c.Get("https://example.com/a"); err != nil || found {
		t.Fatalf("expected miss on empty cache, found=%v err=%v", found, err)
	}

	entry := Entry{StatusCode: 200, Body: []byte(`{"name":"cached"}`)}
	if err := c.Put("https://example.com/a", entry, time.Second); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, found, err := c.Get("https://example.com/a")
	if err != nil || !found {
		t.Fatalf("expected hit, found=%v err=%v", found, err)
	}
	if got.StatusCode != 200 || string(got.Body) != `{"name":"cached"}` {
		t.Fatalf("unexpected entry %+v", got)
	}

	// Wait past the one-second TTL; the entry must behave as a miss.
	time.Sleep(1100 * time.Millisecond)

	if _, found, err = c.Get("https://example.com/a"); err != nil {
		t.Fatalf("Get after expiry: %v", err)
	} else if found {
		t.Fatalf("expected entry to expire")
	}
}

func TestBoltCacheCleanupSweepsExpiredEntries(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		MaxEntryTTL:     time.Minute,
		CleanupInterval: time.Second,
	}

	cacheRaw, err := openBolt(dir+"/responses.db", opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	c := cacheRaw.(*boltCache)
	defer c.Close()

	if err := c.Put("https://example.com/old", Entry{StatusCode: 200, Body: []byte(`{}`)}, time.Second); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Fast-forward cleanup cadence and trigger the sweep via another key.
	c.lastCleanup.Store(time.Now().Add(-2 * time.Second).Unix())
	time.Sleep(1100 * time.Millisecond)

	if _, found, err := c.Get("https://example.com/other"); err != nil || found {
		t.Fatalf("unexpected result for other key, found=%v err=%v", found, err)
	}
	if _, found, err := c.Get("https://example.com/old"); err != nil || found {
		t.Fatalf("expected swept entry to stay gone, found=%v err=%v", found, err)
	}
}

func TestBoltCacheClampsTTLToMaximum(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		MaxEntryTTL:     time.Second,
		CleanupInterval: time.Minute,
	}

	cacheRaw, err := openBolt(dir+"/responses.db", opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	c := cacheRaw.(*boltCache)
	defer c.Close()

	if err := c.Put("https://example.com/a", Entry{StatusCode: 200, Body: []byte(`{}`)}, time.Hour); err != nil {
		t.Fatalf("Put: %v", err)
	}

	time.Sleep(1100 * time.Millisecond)

	if _, found, err := c.Get("https://example.com/a"); err != nil {
		t.Fatalf("Get: %v", err)
	} else if found {
		t.Fatalf("expected clamped entry to expire after MaxEntryTTL")
	}
}

func TestNewCacheSupportsNoop(t *testing.T) {
	c, err := NewCache("none", "", Options{})
	if err != nil {
		t.Fatalf("NewCache none: %v", err)
	}
	if err := c.Put("https://example.com", Entry{StatusCode: 200}, time.Minute); err != nil {
		t.Fatalf("noop cache Put: %v", err)
	}
	if _, found, err := c.Get("https://example.com"); err != nil || found {
		t.Fatalf("noop cache must always miss, found=%v err=%v", found, err)
	}
}

func TestNewCacheRejectsUnknownType(t *testing.T) {
	if _, err := NewCache("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported cache type")
	}
}
