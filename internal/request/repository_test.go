package request

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/evcraddock/visitor-pass/internal/db"
)

func TestInsertAndGet(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	id, err := repo.Insert(ctx, "alice", janeDoe())
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty ID")
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != id {
		t.Errorf("id = %q, want %q", got.ID, id)
	}
	if got.RequestedBy != "alice" {
		t.Errorf("requested_by = %q, want alice", got.RequestedBy)
	}
	if got.VisitorName != "Jane Doe" || got.Contact != "555-1234" || got.VisitDate != "2024-06-01" || got.Purpose != "Meeting" {
		t.Errorf("fields not stored as submitted: %+v", got)
	}
	if got.Status != StatusPending {
		t.Errorf("status = %q, want Pending", got.Status)
	}
	if got.AdminComment != "" {
		t.Errorf("admin_comment = %q, want empty", got.AdminComment)
	}
	if got.Timestamp != "2024-05-30 10:00" {
		t.Errorf("timestamp = %q, want IST creation time", got.Timestamp)
	}
}

func TestInsertAssignsDistinctIDs(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		id, err := repo.Insert(ctx, "alice", janeDoe())
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestGetNotFound(t *testing.T) {
	repo := testRepo(t)

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListByUserIsExactSubsetWithoutIDs(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	owners := []string{"alice", "bob", "alice", "carol", "alice"}
	for i, owner := range owners {
		d := janeDoe()
		d.Purpose = owner + "-" + string(rune('a'+i))
		if _, err := repo.Insert(ctx, owner, d); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	var want []string
	for _, r := range all {
		if r.RequestedBy == "alice" {
			want = append(want, r.Purpose)
		}
	}

	mine, err := repo.ListByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(mine) != len(want) {
		t.Fatalf("got %d requests, want %d", len(mine), len(want))
	}
	for i, r := range mine {
		if r.ID != "" {
			t.Errorf("request %d has id %q, want it cleared", i, r.ID)
		}
		if r.RequestedBy != "alice" {
			t.Errorf("request %d requested_by = %q", i, r.RequestedBy)
		}
		if r.Purpose != want[i] {
			t.Errorf("request %d purpose = %q, want %q", i, r.Purpose, want[i])
		}
	}
}

func TestListAllIncludesIDsInInsertionOrder(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	var ids []string
	for _, owner := range []string{"alice", "bob", "carol"} {
		id, err := repo.Insert(ctx, owner, janeDoe())
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		ids = append(ids, id)
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d, want 3", len(all))
	}
	for i, r := range all {
		if r.ID != ids[i] {
			t.Errorf("request %d id = %q, want %q", i, r.ID, ids[i])
		}
	}
}

func TestListEmpty(t *testing.T) {
	repo := testRepo(t)

	reqs, err := repo.ListByUser(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reqs) != 0 {
		t.Errorf("got %d requests, want 0", len(reqs))
	}
}

func TestUpdateStatusIsUnconditional(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	id, err := repo.Insert(ctx, "alice", janeDoe())
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := repo.UpdateStatus(ctx, id, StatusApproved, "Approved"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	// The gateway itself does not guard resolved requests.
	if err := repo.UpdateStatus(ctx, id, StatusRejected, "Rejected"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusRejected || got.AdminComment != "Rejected" {
		t.Errorf("got %s/%q, want Rejected/Rejected", got.Status, got.AdminComment)
	}
}

func TestUpdateStatusUnknownIDIsNoop(t *testing.T) {
	repo := testRepo(t)

	if err := repo.UpdateStatus(context.Background(), "missing", StatusApproved, "Approved"); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
}

func TestResolveStatusOnlyFromExpectedStatus(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	id, err := repo.Insert(ctx, "alice", janeDoe())
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := repo.ResolveStatus(ctx, id, StatusPending, StatusApproved, "Approved"); err != nil {
		t.Fatalf("resolve pending: %v", err)
	}

	err = repo.ResolveStatus(ctx, id, StatusPending, StatusRejected, "Rejected")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second resolve: err = %v, want ErrInvalidTransition", err)
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusApproved || got.AdminComment != "Approved" {
		t.Errorf("got %s/%q, want Approved/Approved", got.Status, got.AdminComment)
	}
}

func TestResolveStatusUnknownID(t *testing.T) {
	repo := testRepo(t)

	err := repo.ResolveStatus(context.Background(), "missing", StatusPending, StatusApproved, "Approved")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func janeDoe() Draft {
	return Draft{
		VisitorName: "Jane Doe",
		Contact:     "555-1234",
		VisitDate:   "2024-06-01",
		Purpose:     "Meeting",
	}
}

func testRepo(t *testing.T) *Repository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	d, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})

	repo := NewRepository(d)
	repo.now = func() time.Time { return time.Date(2024, 5, 30, 4, 30, 0, 0, time.UTC) }
	return repo
}
