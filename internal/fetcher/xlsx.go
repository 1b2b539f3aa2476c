package fetcher

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// XLSXOptions selects a worksheet.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
	HasHeader  bool
}

// XLSXCursor reads worksheet rows one at a time. Rows are padded to the
// widest row in the sheet, since trailing empty cells are not stored.
type XLSXCursor struct {
	rows   []*xlsx.Row
	next   int
	width  int
	header []string
}

// Workbook is a loaded XLSX file. Cursors over several of its sheets share
// the one in-memory copy.
type Workbook struct {
	f *xlsx.File
}

// OpenWorkbook loads the whole workbook into memory.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx: open %s", path)
	}
	return &Workbook{f: f}, nil
}

// Sheet positions a cursor on one sheet of the workbook.
func (w *Workbook) Sheet(opts XLSXOptions) (*XLSXCursor, error) {
	return newXLSXCursor(w.f, opts)
}

// OpenXLSX loads a workbook and positions a cursor on one of its sheets.
func OpenXLSX(path string, opts XLSXOptions) (*XLSXCursor, error) {
	wb, err := OpenWorkbook(path)
	if err != nil {
		return nil, err
	}
	return wb.Sheet(opts)
}

func newXLSXCursor(f *xlsx.File, opts XLSXOptions) (*XLSXCursor, error) {
	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	c := &XLSXCursor{rows: sheet.Rows}
	for _, row := range sheet.Rows {
		if len(row.Cells) > c.width {
			c.width = len(row.Cells)
		}
	}

	if opts.HasHeader {
		if len(c.rows) == 0 {
			return nil, eris.Errorf("xlsx: sheet %q has no header row", sheet.Name)
		}
		c.header = c.rowStrings(c.rows[0])
		c.next = 1
	}
	return c, nil
}

// Header returns the header row, or nil when the cursor has none.
func (c *XLSXCursor) Header() []string {
	return c.header
}

// Read returns the next row or io.EOF.
func (c *XLSXCursor) Read() ([]string, error) {
	if c.next >= len(c.rows) {
		return nil, io.EOF
	}
	row := c.rows[c.next]
	c.next++
	return c.rowStrings(row), nil
}

// Close is a no-op; the workbook is held in memory.
func (c *XLSXCursor) Close() error {
	return nil
}

func (c *XLSXCursor) rowStrings(row *xlsx.Row) []string {
	cells := make([]string, c.width)
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex < 0 || opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}
	return f.Sheets[opts.SheetIndex], nil
}
