package directory

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// ImportMembers creates one member per data row of the first sheet. File-level problems fail the
// whole request; row-level problems never do. Cells that cannot be parsed are stored empty and
// reported as warnings, rows without a name are skipped and reported, blank rows are ignored.
// All accepted rows are inserted in a single transaction.
func (s *Service) ImportMembers(ctx context.Context, file io.Reader, status Status) (*ImportResult, error) {
	if status == "" {
		status = s.importStatus
	}
	if _, ok := ParseStatus(string(status)); !ok {
		return nil, invalid("status", "unknown status")
	}

	rows, err := s.sheets.ReadRows(file)
	if err != nil {
		return nil, invalid("file", fmt.Sprintf("unreadable spreadsheet: %v", err))
	}
	if len(rows) == 0 {
		return nil, invalid("file", "spreadsheet is empty")
	}

	columns := mapHeader(rows[0])
	if _, ok := columns[fieldName]; !ok {
		return nil, invalid("file", "spreadsheet has no name column")
	}

	result := &ImportResult{
		BatchID:  uuid.NewString(),
		Warnings: []ImportWarning{},
	}

	members := make([]Member, 0, len(rows)-1)
	for idx, row := range rows[1:] {
		// header is row 1 in the sheet
		line := idx + 2
		if blankRow(row) {
			continue
		}

		attrs, warnings, ok := parseImportRow(line, row, columns)
		result.Warnings = append(result.Warnings, warnings...)
		if !ok {
			result.Skipped++
			continue
		}

		member := newMember(attrs, status)
		imageURL, warning, err := s.importImageURL(ctx, line, cell(row, columns, fieldImageURL))
		if err != nil {
			return nil, storageErr("check member image", err)
		}
		if warning != nil {
			result.Warnings = append(result.Warnings, *warning)
		}
		member.ImageURL = imageURL
		members = append(members, member)
	}

	if len(members) > 0 {
		err := s.repo.Transaction(ctx, func(tx Repository) error {
			return tx.CreateMembers(ctx, members)
		})
		if err != nil {
			return nil, storageErr("import members", err)
		}
	}
	result.Imported = len(members)

	s.metrics.RowsImported(result.Imported, result.Skipped, len(result.Warnings))
	s.log.Info("directory: import finished",
		"batch_id", result.BatchID,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"warnings", len(result.Warnings),
		"status", status,
	)
	return result, nil
}

// importImageURL keeps external URLs as given. A managed path is kept only if its file exists.
func (s *Service) importImageURL(ctx context.Context, line int, value string) (*string, *ImportWarning, error) {
	if value == "" {
		return nil, nil, nil
	}
	if !s.images.Owns(value) {
		return &value, nil, nil
	}

	exists, err := s.images.Exists(ctx, value)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		return nil, &ImportWarning{
			Row:     line,
			Column:  fieldImageURL,
			Message: fmt.Sprintf("image %q not found, ignored", value),
		}, nil
	}
	return &value, nil, nil
}

func parseImportRow(line int, row []string, columns map[string]int) (Attributes, []ImportWarning, bool) {
	var warnings []ImportWarning
	warn := func(column, message string) {
		warnings = append(warnings, ImportWarning{Row: line, Column: column, Message: message})
	}

	attrs := normalizeAttributes(Attributes{
		Name:         cell(row, columns, fieldName),
		Email:        cell(row, columns, fieldEmail),
		Phone:        normalizePhone(cell(row, columns, fieldPhone)),
		Address:      cell(row, columns, fieldAddress),
		Organization: cell(row, columns, fieldOrganization),
		Position:     cell(row, columns, fieldPosition),
		State:        cell(row, columns, fieldState),
		Branch:       cell(row, columns, fieldBranch),
		Zone:         cell(row, columns, fieldZone),
		Gender:       cell(row, columns, fieldGender),
	})

	if attrs.Name == "" {
		warn(fieldName, "name is empty, row skipped")
		return Attributes{}, warnings, false
	}

	if attrs.Email != "" && !validEmail(attrs.Email) {
		warn(fieldEmail, fmt.Sprintf("invalid email %q ignored", attrs.Email))
		attrs.Email = ""
	}

	for _, field := range []string{fieldDateOfBirth, fieldDateOfMarriage} {
		raw := cell(row, columns, field)
		parsed, ok := parseSheetDate(raw)
		if !ok {
			warn(field, fmt.Sprintf("invalid date %q ignored", raw))
		}
		if field == fieldDateOfBirth {
			attrs.DateOfBirth = parsed
		} else {
			attrs.DateOfMarriage = parsed
		}
	}

	return attrs, warnings, true
}

func cell(row []string, columns map[string]int, field string) string {
	idx, ok := columns[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
