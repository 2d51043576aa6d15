package activity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/skku-swe/someplace/internal/db"
	"github.com/skku-swe/someplace/internal/events"
)

func openTestRepo(t *testing.T) *Repo {
	t.Helper()
	gdb, err := db.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	repo, err := NewRepo(gdb)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func TestInsert_IgnoresRedelivery(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	e := events.New(events.TypeSearch, "u1", "S01", map[string]string{"query": "용산"})
	if err := repo.Insert(ctx, e); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.Insert(ctx, e); err != nil {
		t.Fatalf("second insert: %v", err)
	}

	logs, err := repo.ListRecent(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 row, got %d", len(logs))
	}
	if logs[0].Attrs != `{"query":"용산"}` {
		t.Fatalf("unexpected attrs: %s", logs[0].Attrs)
	}
}

func TestListRecent_NewestFirstPerUser(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	base := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)
	for i, typ := range []events.Type{events.TypeSearch, events.TypeRouteComputed, events.TypeSessionDeleted} {
		e := events.New(typ, "u1", "", nil)
		e.At = base.Add(time.Duration(i) * time.Minute)
		if err := repo.Publish(ctx, e); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}
	if err := repo.Publish(ctx, events.New(events.TypeSearch, "u2", "", nil)); err != nil {
		t.Fatalf("publish: %v", err)
	}

	logs, err := repo.ListRecent(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(logs))
	}
	if logs[0].Type != string(events.TypeSessionDeleted) || logs[1].Type != string(events.TypeRouteComputed) {
		t.Fatalf("unexpected order: %s, %s", logs[0].Type, logs[1].Type)
	}
}
