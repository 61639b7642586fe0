package directory

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRegisterMemberStartsPending(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, newFakeImageStore())

	member, err := svc.RegisterMember(context.Background(), Attributes{Name: "  Ada Obi ", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if member.Status != StatusPending {
		t.Fatalf("expected PENDING, got %s", member.Status)
	}
	if member.Name != "Ada Obi" {
		t.Fatalf("expected trimmed name, got %q", member.Name)
	}
	if len(repo.members) != 1 {
		t.Fatalf("expected 1 stored member, got %d", len(repo.members))
	}
}

func TestRegisterMemberValidation(t *testing.T) {
	svc, _ := newTestService(newFakeRepo(), newFakeImageStore())

	cases := []struct {
		name  string
		attrs Attributes
		field string
	}{
		{name: "missing name", attrs: Attributes{Name: "   "}, field: "name"},
		{name: "bad email", attrs: Attributes{Name: "Ada", Email: "not-an-email"}, field: "email"},
		{name: "display name email", attrs: Attributes{Name: "Ada", Email: "Ada <ada@example.com>"}, field: "email"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RegisterMember(context.Background(), tc.attrs)
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if validation.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, validation.Field)
			}
		})
	}
}

func TestRegisterMemberWrapsStorageFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = errStorage
	svc, _ := newTestService(repo, newFakeImageStore())

	_, err := svc.RegisterMember(context.Background(), Attributes{Name: "Ada"})
	var storage *StorageError
	if !errors.As(err, &storage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if !errors.Is(err, errStorage) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestUpdateMemberAppliesPartialPatch(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, newFakeImageStore())
	ctx := context.Background()

	dob := time.Date(1990, 5, 4, 0, 0, 0, 0, time.UTC)
	created, err := svc.RegisterMember(ctx, Attributes{Name: "Ada", State: "Lagos", Phone: "0801", DateOfBirth: &dob})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	updated, err := svc.UpdateMember(ctx, created.ID, MemberPatch{
		State:       strPtr(" Abuja "),
		DateOfBirth: DateChange{Set: true},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.State != "Abuja" {
		t.Fatalf("expected state Abuja, got %q", updated.State)
	}
	if updated.Phone != "0801" || updated.Name != "Ada" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if updated.DateOfBirth != nil {
		t.Fatalf("expected cleared date of birth")
	}
	if !updated.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("expected updatedAt %v, got %v", fixedNow, updated.UpdatedAt)
	}
}

func TestUpdateMemberRejectsEmptyName(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, newFakeImageStore())
	created, _ := svc.RegisterMember(context.Background(), Attributes{Name: "Ada"})

	_, err := svc.UpdateMember(context.Background(), created.ID, MemberPatch{Name: strPtr("  ")})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUnknownMemberIsNotFound(t *testing.T) {
	svc, _ := newTestService(newFakeRepo(), newFakeImageStore())
	ctx := context.Background()

	calls := map[string]func() error{
		"get": func() error {
			_, err := svc.GetMember(ctx, 99)
			return err
		},
		"update": func() error {
			_, err := svc.UpdateMember(ctx, 99, MemberPatch{Name: strPtr("x")})
			return err
		},
		"delete": func() error {
			return svc.DeleteMember(ctx, 99)
		},
		"approve": func() error {
			_, err := svc.Approve(ctx, 99, "admin")
			return err
		},
		"reject": func() error {
			_, err := svc.Reject(ctx, 99, "admin")
			return err
		},
		"photo": func() error {
			_, err := svc.AttachPhoto(ctx, 99, "a.png", []byte("png"))
			return err
		},
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			if err := call(); !errors.Is(err, ErrMemberNotFound) {
				t.Fatalf("expected ErrMemberNotFound, got %v", err)
			}
		})
	}
}

func TestDeleteMemberRemovesOwnedImage(t *testing.T) {
	repo := newFakeRepo()
	images := newFakeImageStore()
	svc, _ := newTestService(repo, images)
	ctx := context.Background()

	created, _ := svc.RegisterMember(ctx, Attributes{Name: "Ada"})
	if _, err := svc.AttachPhoto(ctx, created.ID, "face.png", []byte("png")); err != nil {
		t.Fatalf("attach photo: %v", err)
	}

	if err := svc.DeleteMember(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.members) != 0 {
		t.Fatalf("expected member removed")
	}
	if len(images.files) != 0 {
		t.Fatalf("expected image removed, still have %v", images.files)
	}
}

func TestDeleteMemberKeepsExternalImage(t *testing.T) {
	repo := newFakeRepo()
	images := newFakeImageStore()
	svc, _ := newTestService(repo, images)
	ctx := context.Background()

	member := Member{Name: "Ada", Status: StatusApproved, ImageURL: strPtr("https://cdn.example.com/ada.jpg")}
	_ = repo.CreateMember(ctx, &member)

	if err := svc.DeleteMember(ctx, member.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(images.deleted) != 0 {
		t.Fatalf("external image must not be deleted, got %v", images.deleted)
	}
}

func TestDeleteMemberSucceedsWhenImageDeleteFails(t *testing.T) {
	repo := newFakeRepo()
	images := newFakeImageStore()
	images.deleteErr = errStorage
	svc, _ := newTestService(repo, images)
	ctx := context.Background()

	member := Member{Name: "Ada", ImageURL: strPtr("/uploads/members/member-1.jpg")}
	_ = repo.CreateMember(ctx, &member)

	if err := svc.DeleteMember(ctx, member.ID); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(repo.members) != 0 {
		t.Fatalf("expected member removed")
	}
}

func TestSearchNormalizesPaging(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, newFakeImageStore())
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		_, _ = svc.RegisterMember(ctx, Attributes{Name: "Member"})
	}

	result, err := svc.Search(ctx, Query{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Page != 1 || result.PageSize != DefaultPageSize {
		t.Fatalf("expected defaults, got page=%d size=%d", result.Page, result.PageSize)
	}
	if result.Total != 15 || len(result.Members) != 15 {
		t.Fatalf("expected 15 members, got total=%d len=%d", result.Total, len(result.Members))
	}
	if result.Members[0].ID != 15 {
		t.Fatalf("expected newest first, got id %d", result.Members[0].ID)
	}

	result, err = svc.Search(ctx, Query{Page: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("search page 2: %v", err)
	}
	if result.Total != 15 || len(result.Members) != 5 {
		t.Fatalf("expected 5 of 15, got total=%d len=%d", result.Total, len(result.Members))
	}

	result, err = svc.Search(ctx, Query{Page: 9})
	if err != nil {
		t.Fatalf("search past end: %v", err)
	}
	if result.Members == nil || len(result.Members) != 0 {
		t.Fatalf("expected empty non-nil page, got %v", result.Members)
	}
}

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, DefaultPageSize},
		{-3, -1, 1, DefaultPageSize},
		{4, 20, 4, 20},
		{1, MaxPageSize + 1, 1, MaxPageSize},
	}
	for _, tc := range cases {
		page, size := NormalizePage(tc.page, tc.size)
		if page != tc.wantPage || size != tc.wantSize {
			t.Fatalf("NormalizePage(%d, %d) = %d, %d; want %d, %d", tc.page, tc.size, page, size, tc.wantPage, tc.wantSize)
		}
	}
}

func TestApprovedRosterOnlyListsApproved(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, newFakeImageStore())
	ctx := context.Background()

	zed, _ := svc.RegisterMember(ctx, Attributes{Name: "Zed"})
	amy, _ := svc.RegisterMember(ctx, Attributes{Name: "Amy"})
	_, _ = svc.RegisterMember(ctx, Attributes{Name: "Pending"})
	rejected, _ := svc.RegisterMember(ctx, Attributes{Name: "Rejected"})
	_, _ = svc.Approve(ctx, zed.ID, "admin")
	_, _ = svc.Approve(ctx, amy.ID, "admin")
	_, _ = svc.Reject(ctx, rejected.ID, "admin")

	result, err := svc.ApprovedRoster(ctx, Query{Status: StatusRejected})
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected 2 approved, got %d", result.Total)
	}
	if result.Members[0].Name != "Amy" || result.Members[1].Name != "Zed" {
		t.Fatalf("expected name order, got %s, %s", result.Members[0].Name, result.Members[1].Name)
	}
}

func TestStatusCountsIncludesEveryStatus(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, newFakeImageStore())
	ctx := context.Background()

	created, _ := svc.RegisterMember(ctx, Attributes{Name: "Ada"})
	_, _ = svc.RegisterMember(ctx, Attributes{Name: "Bo"})
	_, _ = svc.Approve(ctx, created.ID, "admin")

	counts, err := svc.StatusCounts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	want := []StatusCount{
		{Status: StatusPending, Count: 1},
		{Status: StatusApproved, Count: 1},
		{Status: StatusRejected, Count: 0},
	}
	if len(counts) != len(want) {
		t.Fatalf("expected %d counts, got %d", len(want), len(counts))
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Fatalf("count %d: expected %+v, got %+v", i, want[i], counts[i])
		}
	}
}
