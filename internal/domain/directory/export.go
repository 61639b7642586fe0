package directory

import (
	"bytes"
	"context"
	"strconv"
)

const (
	ExportFilename  = "directory-members.xlsx"
	exportSheetName = "Members"
	exportBatchSize = 500
)

// ExportMembers writes every member, in id order, to a single workbook held in memory.
// Memory grows with the table: the rows and the encoded workbook are both buffered before
// the response is written.
func (s *Service) ExportMembers(ctx context.Context) (*ExportFile, error) {
	rows := [][]string{append([]string(nil), ExportColumns...)}

	err := s.repo.EachMember(ctx, exportBatchSize, func(batch []Member) error {
		for _, member := range batch {
			rows = append(rows, exportRow(member))
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("read members", err)
	}

	var buf bytes.Buffer
	if err := s.sheets.WriteRows(&buf, exportSheetName, rows); err != nil {
		return nil, storageErr("encode spreadsheet", err)
	}

	exported := len(rows) - 1
	s.metrics.MembersExported(exported)
	s.log.Info("directory: members exported", "rows", exported, "bytes", buf.Len())

	return &ExportFile{
		Filename:    ExportFilename,
		ContentType: s.sheets.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

func exportRow(member Member) []string {
	imageURL := ""
	if member.ImageURL != nil {
		imageURL = *member.ImageURL
	}

	return []string{
		strconv.FormatUint(uint64(member.ID), 10),
		member.Name,
		member.Email,
		member.Phone,
		member.Organization,
		member.Position,
		member.State,
		member.Branch,
		member.Gender,
		formatSheetDate(member.DateOfBirth),
		formatSheetDate(member.DateOfMarriage),
		imageURL,
		member.Address,
		member.Zone,
	}
}
