package directory

import (
	"context"
	"testing"
)

func TestApproveRecordsModerator(t *testing.T) {
	repo := newFakeRepo()
	svc, metrics := newTestService(repo, newFakeImageStore())
	ctx := context.Background()

	created, _ := svc.RegisterMember(ctx, Attributes{Name: "Ada"})

	approved, err := svc.Approve(ctx, created.ID, "admin-1")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != StatusApproved {
		t.Fatalf("expected APPROVED, got %s", approved.Status)
	}
	if approved.ModeratedBy == nil || *approved.ModeratedBy != "admin-1" {
		t.Fatalf("expected moderatedBy admin-1, got %v", approved.ModeratedBy)
	}
	if approved.ModeratedAt == nil || !approved.ModeratedAt.Equal(fixedNow) {
		t.Fatalf("expected moderatedAt %v, got %v", fixedNow, approved.ModeratedAt)
	}
	if repo.members[created.ID].Status != StatusApproved {
		t.Fatalf("expected stored status APPROVED")
	}
	if len(metrics.moderated) != 1 || metrics.moderated[0] != StatusApproved {
		t.Fatalf("expected one approval metric, got %v", metrics.moderated)
	}
}

func TestApproveIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc, metrics := newTestService(repo, newFakeImageStore())
	ctx := context.Background()

	created, _ := svc.RegisterMember(ctx, Attributes{Name: "Ada"})

	first, err := svc.Approve(ctx, created.ID, "admin-1")
	if err != nil {
		t.Fatalf("first approve: %v", err)
	}
	second, err := svc.Approve(ctx, created.ID, "admin-2")
	if err != nil {
		t.Fatalf("second approve: %v", err)
	}

	if repo.statusWrites != 1 {
		t.Fatalf("expected a single status write, got %d", repo.statusWrites)
	}
	if second.Status != StatusApproved || *second.ModeratedBy != *first.ModeratedBy {
		t.Fatalf("expected unchanged record, got %+v", second)
	}
	if len(metrics.moderated) != 1 {
		t.Fatalf("expected one moderation metric, got %d", len(metrics.moderated))
	}
}

func TestRejectAfterApprove(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, newFakeImageStore())
	ctx := context.Background()

	created, _ := svc.RegisterMember(ctx, Attributes{Name: "Ada"})
	_, _ = svc.Approve(ctx, created.ID, "admin-1")

	rejected, err := svc.Reject(ctx, created.ID, "admin-2")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != StatusRejected {
		t.Fatalf("expected REJECTED, got %s", rejected.Status)
	}
	if *rejected.ModeratedBy != "admin-2" {
		t.Fatalf("expected latest moderator, got %s", *rejected.ModeratedBy)
	}
	if repo.statusWrites != 2 {
		t.Fatalf("expected 2 status writes, got %d", repo.statusWrites)
	}
}
