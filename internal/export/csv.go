// Package export writes records to the output table and mirrors the table
// into other formats.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/joseph-ayodele/vending-reports/constants"
	"github.com/joseph-ayodele/vending-reports/internal/common"
	"github.com/joseph-ayodele/vending-reports/internal/entity"
)

// Fixed leading and trailing columns around the field triples.
const (
	ColumnID           = "id"
	ColumnDate         = "date"
	ColumnReportNumber = "Numéro de relevé"
	ColumnFreeCode     = "Code gratuit %d"
	ColumnKey1         = "key 1"
)

// Header returns the 47 output columns in order.
func Header() []string {
	cols := []string{ColumnID, ColumnDate, ColumnReportNumber}
	for _, f := range constants.AllFields() {
		for _, suffix := range constants.SlotSuffixes {
			cols = append(cols, string(f)+suffix)
		}
	}
	for i := 1; i <= constants.FreeCodeCount; i++ {
		cols = append(cols, fmt.Sprintf(ColumnFreeCode, i))
	}
	return append(cols, ColumnKey1)
}

// Row renders a record in Header order.
func Row(rec entity.Record) []string {
	md := rec.Metadata
	row := make([]string, 0, len(Header()))
	row = append(row, md.ID, md.Date, md.ReportNumber)
	for _, f := range constants.AllFields() {
		t := rec.Fields[f]
		row = append(row, t[:]...)
	}
	row = append(row, md.FreeCodes[:]...)
	return append(row, md.Key1)
}

// CSVSink appends rows to the output table. The header is written only
// when the sink creates the file; an existing file must carry the same
// header. A sink has a single writer.
type CSVSink struct {
	path   string
	logger *slog.Logger

	mu   sync.Mutex
	file *os.File
	w    *csv.Writer
	rows int
}

func NewCSVSink(path string, logger *slog.Logger) *CSVSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVSink{path: path, logger: logger}
}

// Path returns the table location.
func (s *CSVSink) Path() string { return s.path }

// Rows returns the number of rows appended through this sink.
func (s *CSVSink) Rows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows
}

// Open creates the table with its header or checks the header of an
// existing one, then positions for appending.
func (s *CSVSink) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file != nil {
		return nil
	}

	created := false
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		created = true
	} else if err != nil {
		return common.NewAppError(common.CodeOutput, "stat output table", err)
	} else if err := checkHeader(s.path); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return common.NewAppError(common.CodeOutput, "open output table", err)
	}
	s.file = f
	s.w = csv.NewWriter(f)
	if created {
		if err := s.write(Header()); err != nil {
			return err
		}
		s.logger.Info("export.csv.created", "path", s.path)
	}
	return nil
}

// Append writes one record and flushes it to disk.
func (s *CSVSink) Append(rec entity.Record) error {
	if err := s.Open(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(Row(rec)); err != nil {
		return err
	}
	s.rows++
	return nil
}

func (s *CSVSink) write(row []string) error {
	if err := s.w.Write(row); err != nil {
		return common.NewAppError(common.CodeOutput, "write row", err)
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return common.NewAppError(common.CodeOutput, "flush row", err)
	}
	return nil
}

// Close releases the file.
func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file, s.w = nil, nil
	return err
}

func checkHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return common.NewAppError(common.CodeOutput, "open output table", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	got, err := r.Read()
	if errors.Is(err, io.EOF) {
		return common.NewAppError(common.CodeOutput, path+" exists but is empty", common.ErrSchemaMismatch)
	}
	if err != nil {
		return common.NewAppError(common.CodeOutput, "read output header", err)
	}
	want := Header()
	if len(got) != len(want) {
		return common.NewAppError(common.CodeOutput,
			fmt.Sprintf("%s has %d columns, want %d", path, len(got), len(want)), common.ErrSchemaMismatch)
	}
	for i := range want {
		if got[i] != want[i] {
			return common.NewAppError(common.CodeOutput,
				fmt.Sprintf("%s column %d is %q, want %q", path, i+1, got[i], want[i]), common.ErrSchemaMismatch)
		}
	}
	return nil
}

// ReadCSV loads an output table: its header and data rows.
func ReadCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[0], all[1:], nil
}
