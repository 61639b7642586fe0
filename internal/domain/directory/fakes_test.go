package directory

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"sort"
	"strings"
	"time"
)

type fakeRepo struct {
	members      map[uint]*Member
	nextID       uint
	statusWrites int
	createErr    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{members: make(map[uint]*Member), nextID: 1}
}

func (r *fakeRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) CreateMember(ctx context.Context, member *Member) error {
	if r.createErr != nil {
		return r.createErr
	}
	member.ID = r.nextID
	r.nextID++
	if member.CreatedAt.IsZero() {
		member.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(member.ID) * time.Minute)
	}
	stored := *member
	r.members[member.ID] = &stored
	return nil
}

func (r *fakeRepo) CreateMembers(ctx context.Context, members []Member) error {
	for i := range members {
		if err := r.CreateMember(ctx, &members[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeRepo) GetMemberByID(ctx context.Context, id uint) (*Member, error) {
	member, ok := r.members[id]
	if !ok {
		return nil, ErrMemberNotFound
	}
	copied := *member
	return &copied, nil
}

func (r *fakeRepo) UpdateMember(ctx context.Context, id uint, patch MemberPatch, updatedAt time.Time) error {
	member, ok := r.members[id]
	if !ok {
		return ErrMemberNotFound
	}
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&member.Name, patch.Name)
	apply(&member.Email, patch.Email)
	apply(&member.Phone, patch.Phone)
	apply(&member.Address, patch.Address)
	apply(&member.Organization, patch.Organization)
	apply(&member.Position, patch.Position)
	apply(&member.State, patch.State)
	apply(&member.Branch, patch.Branch)
	apply(&member.Zone, patch.Zone)
	apply(&member.Gender, patch.Gender)
	if patch.DateOfBirth.Set {
		member.DateOfBirth = patch.DateOfBirth.Value
	}
	if patch.DateOfMarriage.Set {
		member.DateOfMarriage = patch.DateOfMarriage.Value
	}
	member.UpdatedAt = updatedAt
	return nil
}

func (r *fakeRepo) UpdateMemberStatus(ctx context.Context, id uint, status Status, moderatedBy string, at time.Time) error {
	member, ok := r.members[id]
	if !ok {
		return ErrMemberNotFound
	}
	r.statusWrites++
	member.Status = status
	member.ModeratedAt = &at
	member.UpdatedAt = at
	if moderatedBy != "" {
		member.ModeratedBy = &moderatedBy
	}
	return nil
}

func (r *fakeRepo) UpdateMemberImage(ctx context.Context, id uint, imageURL string, updatedAt time.Time) error {
	member, ok := r.members[id]
	if !ok {
		return ErrMemberNotFound
	}
	member.ImageURL = &imageURL
	member.UpdatedAt = updatedAt
	return nil
}

func (r *fakeRepo) DeleteMember(ctx context.Context, id uint) (bool, error) {
	if _, ok := r.members[id]; !ok {
		return false, nil
	}
	delete(r.members, id)
	return true, nil
}

func (r *fakeRepo) ListMembers(ctx context.Context, filter ListFilter) ([]Member, int64, error) {
	items := make([]Member, 0)
	query := strings.ToLower(filter.Query)
	for _, member := range r.members {
		if filter.Status != "" && member.Status != filter.Status {
			continue
		}
		if filter.State != "" && !strings.EqualFold(member.State, filter.State) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(member.Name), query) {
			continue
		}
		items = append(items, *member)
	}

	sort.Slice(items, func(i, j int) bool {
		if filter.Sort == SortNameAsc {
			return items[i].Name < items[j].Name
		}
		return items[i].ID > items[j].ID
	})

	total := int64(len(items))
	if filter.Offset >= len(items) {
		return []Member{}, total, nil
	}
	items = items[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(items) {
		items = items[:filter.Limit]
	}
	return items, total, nil
}

func (r *fakeRepo) EachMember(ctx context.Context, batchSize int, fn func([]Member) error) error {
	ids := make([]uint, 0, len(r.members))
	for id := range r.members {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := make([]Member, 0, end-start)
		for _, id := range ids[start:end] {
			batch = append(batch, *r.members[id])
		}
		if err := fn(batch); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeRepo) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	counts := make(map[Status]int64)
	for _, member := range r.members {
		counts[member.Status]++
	}
	result := make([]StatusCount, 0, len(counts))
	for status, count := range counts {
		result = append(result, StatusCount{Status: status, Count: count})
	}
	return result, nil
}

func (r *fakeRepo) CountMembersByImage(ctx context.Context, imageURL string) (int64, error) {
	var count int64
	for _, member := range r.members {
		if member.ImageURL != nil && *member.ImageURL == imageURL {
			count++
		}
	}
	return count, nil
}

type fakeImageStore struct {
	files     map[string][]byte
	deleted   []string
	saveErr   error
	deleteErr error
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{files: make(map[string][]byte)}
}

func (s *fakeImageStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	path := "/uploads/members/" + filename
	s.files[path] = append([]byte(nil), data...)
	return path, nil
}

func (s *fakeImageStore) Delete(ctx context.Context, publicPath string) error {
	s.deleted = append(s.deleted, publicPath)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.files, publicPath)
	return nil
}

func (s *fakeImageStore) Exists(ctx context.Context, publicPath string) (bool, error) {
	_, ok := s.files[publicPath]
	return ok, nil
}

func (s *fakeImageStore) Owns(publicPath string) bool {
	return strings.HasPrefix(publicPath, "/uploads/members/")
}

// csvCodec stands in for the workbook codec; rows survive a write/read cycle unchanged.
type csvCodec struct {
	readErr error
}

func (c csvCodec) ReadRows(r io.Reader) ([][]string, error) {
	if c.readErr != nil {
		return nil, c.readErr
	}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

func (csvCodec) WriteRows(w io.Writer, sheet string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}

func (csvCodec) ContentType() string {
	return "text/csv"
}

type recordingMetrics struct {
	moderated []Status
	imported  int
	skipped   int
	photos    int
	exported  int
}

func (m *recordingMetrics) MemberModerated(status Status) {
	m.moderated = append(m.moderated, status)
}

func (m *recordingMetrics) RowsImported(imported, skipped, warnings int) {
	m.imported += imported
	m.skipped += skipped
}

func (m *recordingMetrics) PhotoAttached() {
	m.photos++
}

func (m *recordingMetrics) MembersExported(rows int) {
	m.exported += rows
}

var errStorage = errors.New("storage unavailable")

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepo, images *fakeImageStore) (*Service, *recordingMetrics) {
	metrics := &recordingMetrics{}
	svc := NewService(repo, images, csvCodec{}, Options{
		Metrics: metrics,
		Now:     func() time.Time { return fixedNow },
	})
	return svc, metrics
}

func sheet(rows ...[]string) io.Reader {
	var b strings.Builder
	writer := csv.NewWriter(&b)
	_ = writer.WriteAll(rows)
	return strings.NewReader(b.String())
}

func strPtr(value string) *string {
	return &value
}
