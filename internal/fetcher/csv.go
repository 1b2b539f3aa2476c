package fetcher

import (
	"encoding/csv"
	"errors"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVOptions configures a CSVCursor.
type CSVOptions struct {
	Delimiter  rune // default ','
	HasHeader  bool // if true, the first row is held back and returned by Header
	LazyQuotes bool
}

// CSVCursor reads CSV rows one at a time. A leading UTF-8 byte order mark is
// dropped.
type CSVCursor struct {
	r      *csv.Reader
	closer io.Closer
	header []string
}

// NewCSVCursor wraps r. The header row, if any, is read immediately.
func NewCSVCursor(r io.Reader, opts CSVOptions) (*CSVCursor, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1 // row width is checked by the consumer

	c := &CSVCursor{r: reader}
	if opts.HasHeader {
		header, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil, eris.New("csv: missing header row")
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read header")
		}
		c.header = header
	}
	return c, nil
}

// OpenCSV opens a CSV file. Close releases the file.
func OpenCSV(path string, opts CSVOptions) (*CSVCursor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: open %s", path)
	}
	c, err := NewCSVCursor(f, opts)
	if err != nil {
		_ = f.Close()
		return nil, eris.Wrapf(err, "csv: %s", path)
	}
	c.closer = f
	return c, nil
}

// Header returns the header row, or nil when the cursor has none.
func (c *CSVCursor) Header() []string {
	return c.header
}

// Read returns the next row or io.EOF.
func (c *CSVCursor) Read() ([]string, error) {
	row, err := c.r.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, eris.Wrap(err, "csv: read row")
	}
	return row, nil
}

// Close closes the underlying file, if the cursor owns one.
func (c *CSVCursor) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}
