package spreadsheet

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var ErrNoSheets = errors.New("workbook has no sheets")

// XLSXCodec reads and writes Office Open XML workbooks.
type XLSXCodec struct{}

func NewXLSXCodec() *XLSXCodec {
	return &XLSXCodec{}
}

func (XLSXCodec) ContentType() string {
	return ContentTypeXLSX
}

// ReadRows returns the first sheet's rows. Cell values are raw: numbers come back as typed
// ("8012345678", "32874") rather than through the cell's display format.
func (XLSXCodec) ReadRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// WriteRows writes rows as text cells into a new workbook with a single sheet named sheet.
func (XLSXCodec) WriteRows(w io.Writer, sheet string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	stream, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}

	for idx, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, idx+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for i, value := range row {
			values[i] = value
		}
		if err := stream.SetRow(cell, values); err != nil {
			return fmt.Errorf("write row %d: %w", idx+1, err)
		}
	}

	if err := stream.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	return f.Write(w)
}
