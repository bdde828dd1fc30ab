package repository

import (
	"context"
	"fmt"
	"testing"

	"rentassist/internal/model"
)

func TestMemoryActivityLogCapacity(t *testing.T) {
	ctx := context.Background()
	log := NewMemoryActivityLog(3)
	for i := 0; i < 5; i++ {
		_ = log.Record(ctx, model.Activity{UserID: "u1", Message: fmt.Sprintf("m%d", i)})
	}

	recent, _ := log.Recent(ctx, 10)
	if len(recent) != 3 {
		t.Fatalf("len = %d, want 3", len(recent))
	}
	if recent[0].Message != "m4" || recent[2].Message != "m2" {
		t.Errorf("order = %s..%s, want newest first", recent[0].Message, recent[2].Message)
	}
	if recent[0].ID == "" || recent[0].CreatedAt.IsZero() {
		t.Error("Record should stamp id and time")
	}

	removed, _ := log.Prune(ctx, 1)
	if removed != 2 {
		t.Errorf("Prune removed %d, want 2", removed)
	}
	if got, _ := log.Recent(ctx, 0); len(got) != 0 {
		t.Error("limit 0 should return nothing")
	}
}

func TestMemoryActivityLogForListing(t *testing.T) {
	ctx := context.Background()
	log := NewMemoryActivityLog(10)
	for i, key := range []string{"a1", "a2", "a1", ""} {
		_ = log.Record(ctx, model.Activity{UserID: "u1", ListingKey: key, Message: fmt.Sprintf("m%d", i)})
	}

	got, _ := log.ForListing(ctx, "a1", 10)
	if len(got) != 2 || got[0].Message != "m2" || got[1].Message != "m0" {
		t.Errorf("ForListing() = %+v", got)
	}
	if got, _ := log.ForListing(ctx, "a1", 1); len(got) != 1 {
		t.Errorf("limit 1 returned %d entries", len(got))
	}
	if got, _ := log.ForListing(ctx, "", 10); len(got) != 0 {
		t.Errorf("empty key returned %d entries", len(got))
	}
}
