package directory

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"directory-app-go/pkg/logger"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

type Options struct {
	// ImportStatus is the status given to bulk-imported rows when the caller does not pick one.
	ImportStatus Status
	Metrics      Metrics
	Logger       logger.Logger
	Now          func() time.Time
}

type Service struct {
	repo         Repository
	images       ImageStore
	sheets       SpreadsheetCodec
	metrics      Metrics
	log          logger.Logger
	now          func() time.Time
	importStatus Status
}

func NewService(repo Repository, images ImageStore, sheets SpreadsheetCodec, opts Options) *Service {
	s := &Service{
		repo:         repo,
		images:       images,
		sheets:       sheets,
		metrics:      opts.Metrics,
		log:          opts.Logger,
		now:          opts.Now,
		importStatus: opts.ImportStatus,
	}
	if s.metrics == nil {
		s.metrics = noopMetrics{}
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if _, ok := ParseStatus(string(s.importStatus)); !ok {
		s.importStatus = StatusPending
	}
	return s
}

// RegisterMember is the public self-registration path; the record always starts PENDING.
func (s *Service) RegisterMember(ctx context.Context, attrs Attributes) (*Member, error) {
	attrs = normalizeAttributes(attrs)
	if err := validateAttributes(attrs); err != nil {
		return nil, err
	}

	member := newMember(attrs, StatusPending)
	if err := s.repo.CreateMember(ctx, &member); err != nil {
		return nil, storageErr("create member", err)
	}

	s.log.Info("directory: member registered", "member_id", member.ID)
	return &member, nil
}

func (s *Service) GetMember(ctx context.Context, id uint) (*Member, error) {
	member, err := s.repo.GetMemberByID(ctx, id)
	if err != nil {
		return nil, storageErr("get member", err)
	}
	return member, nil
}

func (s *Service) UpdateMember(ctx context.Context, id uint, patch MemberPatch) (*Member, error) {
	patch = normalizePatch(patch)
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return s.GetMember(ctx, id)
	}

	if err := s.repo.UpdateMember(ctx, id, patch, s.now()); err != nil {
		return nil, storageErr("update member", err)
	}

	return s.GetMember(ctx, id)
}

// DeleteMember removes the row first and the managed image second, so a failure in between
// can leave an orphaned file but never a record pointing at a missing one.
func (s *Service) DeleteMember(ctx context.Context, id uint) error {
	member, err := s.repo.GetMemberByID(ctx, id)
	if err != nil {
		return storageErr("get member", err)
	}

	deleted, err := s.repo.DeleteMember(ctx, id)
	if err != nil {
		return storageErr("delete member", err)
	}
	if !deleted {
		return ErrMemberNotFound
	}

	if member.ImageURL != nil {
		s.releaseImage(ctx, id, *member.ImageURL)
	}

	s.log.Info("directory: member deleted", "member_id", id)
	return nil
}

func (s *Service) Search(ctx context.Context, query Query) (*SearchResult, error) {
	return s.search(ctx, query, SortNewestFirst)
}

// ApprovedRoster lists only approved members ordered by name, whatever status the caller asked for.
func (s *Service) ApprovedRoster(ctx context.Context, query Query) (*SearchResult, error) {
	query.Status = StatusApproved
	return s.search(ctx, query, SortNameAsc)
}

func (s *Service) search(ctx context.Context, query Query, sort SortOrder) (*SearchResult, error) {
	page, pageSize := NormalizePage(query.Page, query.PageSize)

	filter := ListFilter{
		State:    strings.TrimSpace(query.State),
		Branch:   strings.TrimSpace(query.Branch),
		Position: strings.TrimSpace(query.Position),
		Gender:   strings.TrimSpace(query.Gender),
		Status:   query.Status,
		Query:    strings.TrimSpace(query.Text),
		Sort:     sort,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	}

	members, total, err := s.repo.ListMembers(ctx, filter)
	if err != nil {
		return nil, storageErr("list members", err)
	}
	if members == nil {
		members = []Member{}
	}

	return &SearchResult{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Members:  members,
	}, nil
}

func (s *Service) StatusCounts(ctx context.Context) ([]StatusCount, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, storageErr("count members", err)
	}

	byStatus := make(map[Status]int64, len(counts))
	for _, count := range counts {
		byStatus[count.Status] = count.Count
	}

	result := make([]StatusCount, 0, 3)
	for _, status := range []Status{StatusPending, StatusApproved, StatusRejected} {
		result = append(result, StatusCount{Status: status, Count: byStatus[status]})
	}
	return result, nil
}

// NormalizePage falls back to page 1 and DefaultPageSize for missing or non-positive values.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func newMember(attrs Attributes, status Status) Member {
	return Member{
		Name:           attrs.Name,
		Email:          attrs.Email,
		Phone:          attrs.Phone,
		Address:        attrs.Address,
		Organization:   attrs.Organization,
		Position:       attrs.Position,
		State:          attrs.State,
		Branch:         attrs.Branch,
		Zone:           attrs.Zone,
		Gender:         attrs.Gender,
		DateOfBirth:    attrs.DateOfBirth,
		DateOfMarriage: attrs.DateOfMarriage,
		Status:         status,
	}
}

func normalizeAttributes(attrs Attributes) Attributes {
	attrs.Name = strings.TrimSpace(attrs.Name)
	attrs.Email = strings.TrimSpace(attrs.Email)
	attrs.Phone = strings.TrimSpace(attrs.Phone)
	attrs.Address = strings.TrimSpace(attrs.Address)
	attrs.Organization = strings.TrimSpace(attrs.Organization)
	attrs.Position = strings.TrimSpace(attrs.Position)
	attrs.State = strings.TrimSpace(attrs.State)
	attrs.Branch = strings.TrimSpace(attrs.Branch)
	attrs.Zone = strings.TrimSpace(attrs.Zone)
	attrs.Gender = strings.TrimSpace(attrs.Gender)
	return attrs
}

func validateAttributes(attrs Attributes) error {
	if attrs.Name == "" {
		return invalid("name", "name is required")
	}
	if attrs.Email != "" && !validEmail(attrs.Email) {
		return invalid("email", "invalid email")
	}
	return nil
}

func normalizePatch(patch MemberPatch) MemberPatch {
	for _, field := range []**string{
		&patch.Name, &patch.Email, &patch.Phone, &patch.Address, &patch.Organization,
		&patch.Position, &patch.State, &patch.Branch, &patch.Zone, &patch.Gender,
	} {
		if *field != nil {
			trimmed := strings.TrimSpace(**field)
			*field = &trimmed
		}
	}
	return patch
}

func validatePatch(patch MemberPatch) error {
	if patch.Name != nil && *patch.Name == "" {
		return invalid("name", "name cannot be empty")
	}
	if patch.Email != nil && *patch.Email != "" && !validEmail(*patch.Email) {
		return invalid("email", "invalid email")
	}
	return nil
}

func validEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	return err == nil && addr.Address == value
}
