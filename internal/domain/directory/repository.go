package directory

import (
	"context"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateMember(ctx context.Context, member *Member) error
	CreateMembers(ctx context.Context, members []Member) error
	GetMemberByID(ctx context.Context, id uint) (*Member, error)
	UpdateMember(ctx context.Context, id uint, patch MemberPatch, updatedAt time.Time) error
	UpdateMemberStatus(ctx context.Context, id uint, status Status, moderatedBy string, at time.Time) error
	UpdateMemberImage(ctx context.Context, id uint, imageURL string, updatedAt time.Time) error
	DeleteMember(ctx context.Context, id uint) (bool, error)

	ListMembers(ctx context.Context, filter ListFilter) ([]Member, int64, error)
	// EachMember walks the whole table in id order, batchSize rows at a time.
	EachMember(ctx context.Context, batchSize int, fn func([]Member) error) error
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	// CountMembersByImage counts members whose ImageURL equals imageURL.
	CountMembersByImage(ctx context.Context, imageURL string) (int64, error)
}
