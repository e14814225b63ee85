package cache

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pierrec/lz4/v4"
)

// snapshotEntry is the on-wire form of one cache entry.
type snapshotEntry[K comparable, V any] struct {
	Key       K
	Value     V
	ExpiresAt int64 // unix nanos; 0 = no expiry
}

// Snapshot writes all live entries to w as gob records inside an lz4 frame,
// most recently used first. Expired entries are skipped. A snapshot lets a
// cancelled batch retry warm in a new process.
func (c *Cache[K, V]) Snapshot(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	zw := lz4.NewWriter(w)
	enc := gob.NewEncoder(zw)

	for ent := c.evictList.Front(); ent != nil; ent = ent.Next() {
		e := ent.Value.(*entry[K, V])
		if c.expired(e) {
			continue
		}
		var expires int64
		if !e.expiresAt.IsZero() {
			expires = e.expiresAt.UnixNano()
		}
		rec := snapshotEntry[K, V]{Key: e.key, Value: e.value, ExpiresAt: expires}
		if err := enc.Encode(&rec); err != nil {
			return fmt.Errorf("cache snapshot: encode entry: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("cache snapshot: close frame: %w", err)
	}
	return nil
}

// LoadSnapshot restores entries written by Snapshot. Entries past their TTL
// at load time are dropped; live entries land in snapshot order, so the most
// recently used entries of the source cache stay the most recently used here.
func (c *Cache[K, V]) LoadSnapshot(r io.Reader) error {
	zr := lz4.NewReader(r)
	dec := gob.NewDecoder(zr)

	var recs []snapshotEntry[K, V]
	for {
		var rec snapshotEntry[K, V]
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("cache snapshot: decode entry: %w", err)
		}
		recs = append(recs, rec)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Insert oldest first so PushFront restores the original recency order.
	for i := len(recs) - 1; i >= 0; i-- {
		rec := recs[i]
		if rec.ExpiresAt != 0 && c.now().UnixNano() > rec.ExpiresAt {
			continue
		}
		if ent, ok := c.items[rec.Key]; ok {
			c.removeElement(ent)
		}
		e := &entry[K, V]{key: rec.Key, value: rec.Value}
		if rec.ExpiresAt != 0 {
			e.expiresAt = time.Unix(0, rec.ExpiresAt)
		}
		c.items[rec.Key] = c.evictList.PushFront(e)
	}

	for c.maxEntries > 0 && c.evictList.Len() > c.maxEntries {
		oldest := c.evictList.Back()
		if oldest == nil {
			break
		}
		c.removeElement(oldest)
	}
	return nil
}
