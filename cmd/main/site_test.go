package main

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
)

// setupTestDB opens an in-memory database for a single test's scope and
// applies the site schema.
func setupTestDB(tb testing.TB) *sql.DB {
	tb.Helper()

	db, err := initDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", tb.Name()))
	if err != nil {
		tb.Fatalf("failed to open in-memory db: %v", err)
	}
	tb.Cleanup(func() { _ = db.Close() })

	if err = setupSiteSchema(db); err != nil {
		tb.Fatalf("failed to setup site schema: %v", err)
	}
	return db
}

func TestOwnerName(t *testing.T) {
	db := setupTestDB(t)
	sd := NewSiteData(db, discardLogger())
	ctx := context.Background()

	name, err := sd.OwnerName(ctx)
	if err != nil {
		t.Fatalf("OwnerName failed: %v", err)
	}
	if name != "User Name" {
		t.Errorf("default owner name = %q, want \"User Name\"", name)
	}

	if err = sd.SetOwnerName(ctx, "Alex"); err != nil {
		t.Fatalf("SetOwnerName failed: %v", err)
	}
	name, err = sd.OwnerName(ctx)
	if err != nil {
		t.Fatalf("OwnerName after update failed: %v", err)
	}
	if name != "Alex" {
		t.Errorf("owner name = %q, want \"Alex\"", name)
	}
}

func TestCountView(t *testing.T) {
	db := setupTestDB(t)
	sd := NewSiteData(db, discardLogger())
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		views, err := sd.CountView(ctx, "/about")
		if err != nil {
			t.Fatalf("CountView failed: %v", err)
		}
		if views != want {
			t.Errorf("CountView returned %d, want %d", views, want)
		}
	}

	// Counters are independent per path.
	views, err := sd.CountView(ctx, "/docs")
	if err != nil {
		t.Fatalf("CountView failed: %v", err)
	}
	if views != 1 {
		t.Errorf("fresh path counter = %d, want 1", views)
	}
}

func TestTopPages(t *testing.T) {
	db := setupTestDB(t)
	sd := NewSiteData(db, discardLogger())
	ctx := context.Background()

	paths := map[string]int{"/a": 3, "/b": 1, "/c": 2}
	for path, n := range paths {
		for i := 0; i < n; i++ {
			if _, err := sd.CountView(ctx, path); err != nil {
				t.Fatalf("CountView failed: %v", err)
			}
		}
	}

	top, err := sd.TopPages(ctx, 2)
	if err != nil {
		t.Fatalf("TopPages failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("TopPages returned %d entries, want 2", len(top))
	}
	if top[0].Path != "/a" || top[0].Views != 3 {
		t.Errorf("busiest page = %+v, want /a with 3 views", top[0])
	}
	if top[1].Path != "/c" || top[1].Views != 2 {
		t.Errorf("second page = %+v, want /c with 2 views", top[1])
	}
}
