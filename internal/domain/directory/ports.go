package directory

import (
	"context"
	"io"
)

// ImageStore is the managed image directory. Paths are the public paths members reference.
type ImageStore interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
	Delete(ctx context.Context, publicPath string) error
	// Owns reports whether publicPath points into the managed directory.
	Owns(publicPath string) bool
	// Exists reports whether a managed image file is present.
	Exists(ctx context.Context, publicPath string) (bool, error)
}

// SpreadsheetCodec reads the first sheet of a workbook as raw rows and writes rows back.
type SpreadsheetCodec interface {
	ReadRows(r io.Reader) ([][]string, error)
	WriteRows(w io.Writer, sheet string, rows [][]string) error
	ContentType() string
}

type Metrics interface {
	MemberModerated(status Status)
	RowsImported(imported, skipped, warnings int)
	PhotoAttached()
	MembersExported(rows int)
}

type noopMetrics struct{}

func (noopMetrics) MemberModerated(Status) {}
func (noopMetrics) RowsImported(int, int, int) {}
func (noopMetrics) PhotoAttached() {}
func (noopMetrics) MembersExported(int) {}
