package directory

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Sheet field keys. They double as the export header so that an export can be imported back.
// fieldID is export-only: imported rows always get a new id, so the id column is not mapped.
const (
	fieldID             = "id"
	fieldName           = "name"
	fieldEmail          = "email"
	fieldPhone          = "phone"
	fieldAddress        = "address"
	fieldOrganization   = "organization"
	fieldPosition       = "position"
	fieldState          = "state"
	fieldBranch         = "branch"
	fieldZone           = "zone"
	fieldGender         = "gender"
	fieldDateOfBirth    = "dateOfBirth"
	fieldDateOfMarriage = "dateOfMarriage"
	fieldImageURL       = "imageUrl"
)

const sheetDateLayout = "2006-01-02"

// ExportColumns is the export header, in order.
var ExportColumns = []string{
	fieldID, fieldName, fieldEmail, fieldPhone, fieldOrganization, fieldPosition, fieldState,
	fieldBranch, fieldGender, fieldDateOfBirth, fieldDateOfMarriage, fieldImageURL, fieldAddress, fieldZone,
}

// headerAliases maps a folded header (lowercase, letters and digits only) to a field key.
// It covers both the legacy roster sheet (Name, Designation, Address, Mob) and the
// directory sheet produced by export.
var headerAliases = map[string]string{
	"name":           fieldName,
	"fullname":       fieldName,
	"email":          fieldEmail,
	"emailaddress":   fieldEmail,
	"mob":            fieldPhone,
	"mobile":         fieldPhone,
	"mobileno":       fieldPhone,
	"phone":          fieldPhone,
	"phoneno":        fieldPhone,
	"phonenumber":    fieldPhone,
	"address":        fieldAddress,
	"organization":   fieldOrganization,
	"organisation":   fieldOrganization,
	"designation":    fieldPosition,
	"position":       fieldPosition,
	"state":          fieldState,
	"branch":         fieldBranch,
	"zone":           fieldZone,
	"gender":         fieldGender,
	"sex":            fieldGender,
	"dateofbirth":    fieldDateOfBirth,
	"dob":            fieldDateOfBirth,
	"birthday":       fieldDateOfBirth,
	"dateofmarriage": fieldDateOfMarriage,
	"dom":            fieldDateOfMarriage,
	"weddingdate":    fieldDateOfMarriage,
	"imageurl":       fieldImageURL,
	"image":          fieldImageURL,
	"photo":          fieldImageURL,
	"photourl":       fieldImageURL,
}

func foldHeader(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(value) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// mapHeader returns field key -> column index. The first occurrence of a field wins.
func mapHeader(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for idx, cell := range header {
		field, ok := headerAliases[foldHeader(cell)]
		if !ok {
			continue
		}
		if _, seen := columns[field]; seen {
			continue
		}
		columns[field] = idx
	}
	return columns
}

var sheetDateLayouts = []string{
	sheetDateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// excelEpoch is day zero of the 1900 date system as spreadsheet applications count it.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Serial numbers are only read as dates from 10000 (1927-05-18) up. Shorter numbers such as a
// bare year "1990" are rejected.
const (
	minSheetSerial = 10000
	maxSheetSerial = 2958466
)

// parseSheetDate accepts ISO and day-first text dates as well as raw spreadsheet serial numbers
// from minSheetSerial up.
// Empty input yields (nil, true).
func parseSheetDate(value string) (*time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, true
	}

	for _, layout := range sheetDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			day := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			return &day, true
		}
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial >= minSheetSerial && serial < maxSheetSerial {
		day := excelEpoch.AddDate(0, 0, int(serial))
		return &day, true
	}

	return nil, false
}

func formatSheetDate(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.UTC().Format(sheetDateLayout)
}

// normalizePhone undoes numeric coercion by spreadsheet tools ("8.012345678E9", "8012345678.0")
// so the number survives as the text it was typed as.
func normalizePhone(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	if strings.ContainsAny(value, "eE") {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return strconv.FormatFloat(parsed, 'f', -1, 64)
		}
		return value
	}

	if trimmed, ok := strings.CutSuffix(value, ".0"); ok && isDigits(trimmed) {
		return trimmed
	}
	return value
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
