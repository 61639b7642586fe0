package directory

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// ParseStatus accepts any casing and surrounding whitespace.
func ParseStatus(value string) (Status, bool) {
	switch Status(strings.ToUpper(strings.TrimSpace(value))) {
	case StatusPending:
		return StatusPending, true
	case StatusApproved:
		return StatusApproved, true
	case StatusRejected:
		return StatusRejected, true
	}
	return "", false
}

type Member struct {
	ID             uint       `gorm:"primaryKey;autoIncrement"`
	Name           string     `gorm:"not null;index"`
	Email          string     `gorm:"not null;default:''"`
	Phone          string     `gorm:"not null;default:''"`
	Address        string     `gorm:"not null;default:''"`
	Organization   string     `gorm:"not null;default:''"`
	Position       string     `gorm:"not null;default:''"`
	State          string     `gorm:"not null;default:''"`
	Branch         string     `gorm:"not null;default:''"`
	Zone           string     `gorm:"not null;default:''"`
	Gender         string     `gorm:"not null;default:''"`
	DateOfBirth    *time.Time `gorm:"type:date"`
	DateOfMarriage *time.Time `gorm:"type:date"`
	ImageURL       *string    `gorm:"column:image_url;index"`
	Status         Status     `gorm:"type:varchar(16);not null;default:PENDING;index"`
	ModeratedBy    *string
	ModeratedAt    *time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (Member) TableName() string {
	return "directory_members"
}

// Attributes are the user-editable fields of a member record.
type Attributes struct {
	Name           string
	Email          string
	Phone          string
	Address        string
	Organization   string
	Position       string
	State          string
	Branch         string
	Zone           string
	Gender         string
	DateOfBirth    *time.Time
	DateOfMarriage *time.Time
}

// DateChange distinguishes "leave as is" (Set=false) from "clear" (Set=true, Value=nil).
type DateChange struct {
	Set   bool
	Value *time.Time
}

// MemberPatch carries only the fields a caller wants to change. Status and ImageURL are
// deliberately absent: moderation and photo attachment own those columns.
type MemberPatch struct {
	Name           *string
	Email          *string
	Phone          *string
	Address        *string
	Organization   *string
	Position       *string
	State          *string
	Branch         *string
	Zone           *string
	Gender         *string
	DateOfBirth    DateChange
	DateOfMarriage DateChange
}

func (p MemberPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Address == nil &&
		p.Organization == nil && p.Position == nil && p.State == nil && p.Branch == nil &&
		p.Zone == nil && p.Gender == nil && !p.DateOfBirth.Set && !p.DateOfMarriage.Set
}

type SortOrder int

const (
	SortNewestFirst SortOrder = iota
	SortNameAsc
)

// ListFilter is the store-level query: equality filters are AND-combined, Query is matched
// as a case-insensitive substring against the text columns and OR-combined across them.
type ListFilter struct {
	State    string
	Branch   string
	Position string
	Gender   string
	Status   Status
	Query    string
	Sort     SortOrder
	Limit    int
	Offset   int
}

// Query is the page-number shaped request coming from callers.
type Query struct {
	State    string
	Branch   string
	Position string
	Gender   string
	Status   Status
	Text     string
	Page     int
	PageSize int
}

type SearchResult struct {
	Total    int64
	Page     int
	PageSize int
	Members  []Member
}

type StatusCount struct {
	Status Status
	Count  int64
}

type ImportWarning struct {
	Row     int
	Column  string
	Message string
}

type ImportResult struct {
	BatchID  string
	Imported int
	Skipped  int
	Warnings []ImportWarning
}

type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
