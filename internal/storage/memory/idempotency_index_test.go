package memory_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/orders-api/internal/domain"
	"github.com/vladislavdragonenkov/orders-api/internal/storage/memory"
)

func TestIdempotencyIndex_PutGet(t *testing.T) {
	idx := memory.NewIdempotencyIndex()
	ttl := time.Now().UTC().Add(time.Hour)

	if err := idx.Put("key-a", "order-1", ttl); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	orderID, err := idx.Get("key-a")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if orderID != "order-1" {
		t.Fatalf("expected order-1, got %s", orderID)
	}

	if _, err := idx.Get("missing"); err != domain.ErrIdempotencyKeyNotFound {
		t.Fatalf("expected ErrIdempotencyKeyNotFound, got %v", err)
	}
}

func TestIdempotencyIndex_PutOverwrites(t *testing.T) {
	idx := memory.NewIdempotencyIndex()
	ttl := time.Now().UTC().Add(time.Hour)

	idx.Put("key-a", "order-1", ttl)
	idx.Put("key-a", "order-2", ttl)

	orderID, err := idx.Get("key-a")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if orderID != "order-2" {
		t.Fatalf("expected overwritten mapping order-2, got %s", orderID)
	}
	if idx.Len() != 1 {
		t.Fatalf("expected a single entry, got %d", idx.Len())
	}
}

func TestIdempotencyIndex_EmptyKey(t *testing.T) {
	idx := memory.NewIdempotencyIndex()

	if err := idx.Put("", "order-1", time.Time{}); err != domain.ErrIdempotencyKeyRequired {
		t.Fatalf("expected ErrIdempotencyKeyRequired, got %v", err)
	}
	if _, err := idx.Get("   "); err != domain.ErrIdempotencyKeyRequired {
		t.Fatalf("expected ErrIdempotencyKeyRequired, got %v", err)
	}
}

func TestIdempotencyIndex_DeleteByOrder(t *testing.T) {
	idx := memory.NewIdempotencyIndex()
	ttl := time.Now().UTC().Add(time.Hour)

	idx.Put("key-a", "order-1", ttl)
	idx.Put("key-b", "order-2", ttl)

	removed, err := idx.DeleteByOrder("order-1")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !removed {
		t.Fatal("expected entry to be removed")
	}
	if _, err := idx.Get("key-a"); err != domain.ErrIdempotencyKeyNotFound {
		t.Fatalf("expected key-a gone, got %v", err)
	}
	if _, err := idx.Get("key-b"); err != nil {
		t.Fatalf("key-b must survive: %v", err)
	}

	removed, err = idx.DeleteByOrder("order-1")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if removed {
		t.Fatal("expected no entry on second delete")
	}
}

func TestIdempotencyIndex_DeleteExpired(t *testing.T) {
	idx := memory.NewIdempotencyIndex()
	now := time.Now().UTC()

	idx.Put("expired-1", "order-1", now.Add(-time.Minute))
	idx.Put("expired-2", "order-2", now.Add(-time.Hour))
	idx.Put("alive", "order-3", now.Add(time.Hour))

	removed, err := idx.DeleteExpired(now, 0)
	if err != nil {
		t.Fatalf("delete expired failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if idx.Len() != 1 {
		t.Fatalf("expected 1 entry left, got %d", idx.Len())
	}
	if _, err := idx.Get("alive"); err != nil {
		t.Fatalf("alive entry must survive: %v", err)
	}
}

func TestIdempotencyIndex_GetTreatsExpiredAsMissing(t *testing.T) {
	idx := memory.NewIdempotencyIndex()

	idx.Put("stale", "order-1", time.Now().UTC().Add(-time.Second))
	if _, err := idx.Get("stale"); err != domain.ErrIdempotencyKeyNotFound {
		t.Fatalf("expected expired entry to read as missing, got %v", err)
	}
}

func TestIdempotencyIndex_DeleteExpiredBatchLimit(t *testing.T) {
	idx := memory.NewIdempotencyIndex()
	now := time.Now().UTC()

	idx.Put("a", "1", now.Add(-time.Minute))
	idx.Put("b", "2", now.Add(-time.Minute))
	idx.Put("c", "3", now.Add(-time.Minute))

	removed, err := idx.DeleteExpired(now, 2)
	if err != nil {
		t.Fatalf("delete expired failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected batch of 2, got %d", removed)
	}
	if idx.Len() != 1 {
		t.Fatalf("expected 1 entry left, got %d", idx.Len())
	}
}
