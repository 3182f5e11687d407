package dbconn

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/relauto/engine/core"
)

// FileReader implements Reader over a delimited text file, narrowed from
// io/csv.CSVReader's functional-option shape (WithDelimiter/WithHeader) down
// to the line-at-a-time bulk-ingest contract a Connector.Read call drives.
type FileReader struct {
	f         *os.File
	csv       *csv.Reader
	colnames  []string
	sep       rune
	quotechar rune
	next      []string
	eof       bool
}

// FileReaderOption configures a FileReader.
type FileReaderOption func(*FileReader)

// WithFileDelimiter sets the field separator (default comma).
func WithFileDelimiter(sep rune) FileReaderOption {
	return func(r *FileReader) { r.sep = sep }
}

// WithFileQuotechar records the quote character reported by Quotechar();
// encoding/csv itself only supports the double-quote convention, so this is
// metadata for callers that need to echo the source format, not a behavior
// switch on the underlying parser.
func WithFileQuotechar(q rune) FileReaderOption {
	return func(r *FileReader) { r.quotechar = q }
}

// NewFileReader opens path and reads its header row as Colnames().
func NewFileReader(path string, opts ...FileReaderOption) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dbconn: open %q: %w", path, core.ErrIO)
	}
	r := &FileReader{f: f, sep: ',', quotechar: '"'}
	for _, opt := range opts {
		opt(r)
	}
	r.csv = csv.NewReader(f)
	r.csv.Comma = r.sep

	header, err := r.csv.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("dbconn: read header of %q: %w", path, err)
	}
	r.colnames = header
	r.advance()
	return r, nil
}

func (r *FileReader) advance() {
	row, err := r.csv.Read()
	if err == io.EOF {
		r.eof = true
		r.next = nil
		return
	}
	if err != nil {
		r.eof = true
		r.next = nil
		return
	}
	r.next = row
}

// EOF reports whether NextLine has no further rows to return.
func (r *FileReader) EOF() bool { return r.eof }

// NextLine returns the next row and advances the cursor.
func (r *FileReader) NextLine() ([]string, error) {
	if r.eof {
		return nil, io.EOF
	}
	line := r.next
	r.advance()
	return line, nil
}

func (r *FileReader) Colnames() []string { return r.colnames }
func (r *FileReader) Sep() rune          { return r.sep }
func (r *FileReader) Quotechar() rune    { return r.quotechar }

// Close releases the underlying file handle.
func (r *FileReader) Close() error { return r.f.Close() }
