package directory

import (
	"context"
	"errors"
	"strings"
	"time"

	directorydomain "directory-app-go/internal/domain/directory"
	"gorm.io/gorm"
)

// searchColumns are matched by the free-text query, OR-combined.
var searchColumns = []string{"name", "email", "phone", "organization", "address", "zone", "state", "branch"}

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(directorydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateMember(ctx context.Context, member *directorydomain.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresRepository) CreateMembers(ctx context.Context, members []directorydomain.Member) error {
	if len(members) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&members, 200).Error
}

func (r *PostgresRepository) GetMemberByID(ctx context.Context, id uint) (*directorydomain.Member, error) {
	var member directorydomain.Member
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, directorydomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

// UpdateMember writes only the columns present in the patch.
func (r *PostgresRepository) UpdateMember(ctx context.Context, id uint, patch directorydomain.MemberPatch, updatedAt time.Time) error {
	updates := map[string]interface{}{
		"updated_at": updatedAt,
	}
	setString := func(column string, value *string) {
		if value != nil {
			updates[column] = *value
		}
	}
	setString("name", patch.Name)
	setString("email", patch.Email)
	setString("phone", patch.Phone)
	setString("address", patch.Address)
	setString("organization", patch.Organization)
	setString("position", patch.Position)
	setString("state", patch.State)
	setString("branch", patch.Branch)
	setString("zone", patch.Zone)
	setString("gender", patch.Gender)
	if patch.DateOfBirth.Set {
		updates["date_of_birth"] = patch.DateOfBirth.Value
	}
	if patch.DateOfMarriage.Set {
		updates["date_of_marriage"] = patch.DateOfMarriage.Value
	}

	return r.updateColumns(ctx, id, updates)
}

func (r *PostgresRepository) UpdateMemberStatus(ctx context.Context, id uint, status directorydomain.Status, moderatedBy string, at time.Time) error {
	var actor *string
	if moderatedBy != "" {
		actor = &moderatedBy
	}
	return r.updateColumns(ctx, id, map[string]interface{}{
		"status":       status,
		"moderated_by": actor,
		"moderated_at": at,
		"updated_at":   at,
	})
}

func (r *PostgresRepository) UpdateMemberImage(ctx context.Context, id uint, imageURL string, updatedAt time.Time) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"image_url":  imageURL,
		"updated_at": updatedAt,
	})
}

func (r *PostgresRepository) updateColumns(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&directorydomain.Member{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return directorydomain.ErrMemberNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&directorydomain.Member{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListMembers(ctx context.Context, filter directorydomain.ListFilter) ([]directorydomain.Member, int64, error) {
	query := r.db.WithContext(ctx).Model(&directorydomain.Member{})

	for column, value := range map[string]string{
		"state":    filter.State,
		"branch":   filter.Branch,
		"position": filter.Position,
		"gender":   filter.Gender,
	} {
		if value != "" {
			query = query.Where("LOWER("+column+") = ?", strings.ToLower(value))
		}
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Query != "" {
		pattern := "%" + escapeLike(strings.ToLower(filter.Query)) + "%"
		clauses := make([]string, 0, len(searchColumns))
		args := make([]interface{}, 0, len(searchColumns))
		for _, column := range searchColumns {
			clauses = append(clauses, "LOWER("+column+") LIKE ? ESCAPE '\\'")
			args = append(args, pattern)
		}
		query = query.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.Sort {
	case directorydomain.SortNameAsc:
		query = query.Order("name asc, id asc")
	default:
		query = query.Order("created_at desc, id desc")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var items []directorydomain.Member
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *PostgresRepository) EachMember(ctx context.Context, batchSize int, fn func([]directorydomain.Member) error) error {
	var batch []directorydomain.Member
	// FindInBatches pages by primary key, which gives id order
	result := r.db.WithContext(ctx).
		FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
			return fn(batch)
		})
	return result.Error
}

func (r *PostgresRepository) CountByStatus(ctx context.Context) ([]directorydomain.StatusCount, error) {
	var rows []struct {
		Status directorydomain.Status
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&directorydomain.Member{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make([]directorydomain.StatusCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, directorydomain.StatusCount{Status: row.Status, Count: row.Count})
	}
	return counts, nil
}

func (r *PostgresRepository) CountMembersByImage(ctx context.Context, imageURL string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&directorydomain.Member{}).
		Where("image_url = ?", imageURL).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
