// Package archive turns downloaded ZIP bytes into quote records. Entries
// are read in fixed-size chunks, reassembled into lines, and each
// terminated line is parsed against the column layout of its schema
// version. Residual text without a trailing newline is discarded.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dvalero/meffhist/internal/domain"
)

const chunkSize = 4096

// Field counts and positions per schema version. The old layout is the
// ';'-separated session file shipped in the yearly and semester archives;
// the new layout arrived with the monthly archives.
const (
	oldFieldCount = 11
	newFieldCount = 17
)

type layout struct {
	date, category, contract    int
	open, high, low, closing    int
	settlement, volume, openInt int
	dateFormat                  string
}

var (
	oldLayout = layout{
		date: 0, category: 1, contract: 2,
		open: 3, high: 4, low: 5, closing: 6,
		settlement: 7, volume: 8, openInt: 9,
		dateFormat: "02/01/2006",
	}
	newLayout = layout{
		date: 0, category: 1, contract: 2,
		open: 5, high: 6, low: 7, closing: 8,
		settlement: 11, volume: 13, openInt: 14,
		dateFormat: "20060102",
	}
)

// Decoder implements domain.ArchiveDecoder.
type Decoder struct{}

func (Decoder) Decode(data []byte, schema domain.SchemaVersion) (domain.RecordIterator, error) {
	return NewReader(data, schema)
}

// Reader iterates the records of one archive. It is a single forward
// pass; decoding the same archive again requires a new Reader.
type Reader struct {
	schema domain.SchemaVersion
	files  []*zip.File
	entry  int
	rc     io.ReadCloser
	buf    []byte
	chunk  [chunkSize]byte
}

func NewReader(data []byte, schema domain.SchemaVersion) (*Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return &Reader{schema: schema, files: zr.File}, nil
}

// Next returns the next record, or io.EOF when every entry is exhausted.
// Empty lines yield no record and no error.
func (r *Reader) Next() (domain.Quote, error) {
	for {
		line, err := r.nextLine()
		if err != nil {
			return domain.Quote{}, err
		}
		if len(line) == 0 {
			continue
		}
		return parseLine(string(line), r.schema)
	}
}

func (r *Reader) nextLine() ([]byte, error) {
	for {
		if i := bytes.IndexByte(r.buf, '\n'); i >= 0 {
			line := bytes.TrimSuffix(r.buf[:i], []byte{'\r'})
			r.buf = r.buf[i+1:]
			return line, nil
		}
		if err := r.fill(); err != nil {
			// Unterminated trailing text is dropped.
			r.buf = nil
			return nil, err
		}
	}
}

func (r *Reader) fill() error {
	for {
		if r.rc == nil {
			if r.entry >= len(r.files) {
				return io.EOF
			}
			rc, err := r.files[r.entry].Open()
			if err != nil {
				return fmt.Errorf("open entry %s: %w", r.files[r.entry].Name, err)
			}
			r.rc = rc
			r.entry++
		}

		n, err := r.rc.Read(r.chunk[:])
		if n > 0 {
			r.buf = append(r.buf, r.chunk[:n]...)
			return nil
		}
		if err == nil {
			continue
		}
		r.rc.Close()
		r.rc = nil
		if err != io.EOF {
			return err
		}
	}
}

func parseLine(line string, schema domain.SchemaVersion) (domain.Quote, error) {
	fields := strings.Split(line, ";")

	l := oldLayout
	want := oldFieldCount
	if schema == domain.SchemaNew {
		l = newLayout
		want = newFieldCount
	}
	if len(fields) != want {
		return domain.Quote{}, &domain.MalformedRecordError{Line: line, Fields: len(fields), Want: want}
	}

	date, err := time.Parse(l.dateFormat, strings.TrimSpace(fields[l.date]))
	if err != nil {
		return domain.Quote{}, fmt.Errorf("parse session date %q: %w", fields[l.date], err)
	}

	q := domain.Quote{
		ContractCode: strings.TrimSpace(fields[l.contract]),
		SessionDate:  date,
		CategoryCode: strings.TrimSpace(fields[l.category]),
		FieldCount:   len(fields),
	}

	for _, f := range []struct {
		idx int
		dst *float64
	}{
		{l.open, &q.Open},
		{l.high, &q.High},
		{l.low, &q.Low},
		{l.closing, &q.Close},
		{l.settlement, &q.Settlement},
		{l.volume, &q.Volume},
		{l.openInt, &q.OpenInterest},
	} {
		v, err := parseNumber(fields[f.idx])
		if err != nil {
			return domain.Quote{}, fmt.Errorf("parse field %d %q: %w", f.idx, fields[f.idx], err)
		}
		*f.dst = v
	}

	return q, nil
}

// parseNumber handles the exchange's decimal comma; empty columns mean zero.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}
