package events

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) *ProcessedStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewProcessedStore(client, nil)
}

func TestMarkProcessed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.MarkProcessed(ctx, "wamid.1")
	if err != nil {
		t.Fatal(err)
	}
	if !first {
		t.Error("first delivery should report first=true")
	}

	first, err = store.MarkProcessed(ctx, "wamid.1")
	if err != nil {
		t.Fatal(err)
	}
	if first {
		t.Error("redelivery should report first=false")
	}

	seen, err := store.Seen(ctx, "wamid.1")
	if err != nil {
		t.Fatal(err)
	}
	if !seen {
		t.Error("recorded id should be seen")
	}
	seen, err = store.Seen(ctx, "wamid.other")
	if err != nil {
		t.Fatal(err)
	}
	if seen {
		t.Error("unknown id should not be seen")
	}
}

func TestNilStorePassesEverything(t *testing.T) {
	var store *ProcessedStore
	first, err := store.MarkProcessed(context.Background(), "wamid.1")
	if err != nil || !first {
		t.Errorf("nil store should treat every message as first, got %v %v", first, err)
	}
}
