package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bseworker/internal/bse"
	apperrors "bseworker/pkg/errors"
)

var csvHeader = []string{
	"Stock Code",
	"Stock Name",
	"Headline",
	"Main Category",
	"Subcategory",
	"PDF Link",
	"Date",
	"News ID",
}

// CSVSink writes rows to a per-day CSV file. Each row is flushed as it is
// written so a crash mid-run leaves the completed rows on disk.
type CSVSink struct {
	file   *os.File
	writer *csv.Writer
	path   string
}

// NewCSVSink creates the day's output file in dir and writes the header.
// The filename carries the date so consecutive runs for the same day
// overwrite rather than accumulate.
func NewCSVSink(dir string, day time.Time) (*CSVSink, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.NewSink("csv", "failed to create output directory", err)
		}
	}

	path := filepath.Join(dir, fmt.Sprintf("bse_announcements_%s.csv", day.Format("20060102")))
	file, err := os.Create(path)
	if err != nil {
		return nil, apperrors.NewSink("csv", "failed to create output file", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		file.Close()
		return nil, apperrors.NewSink("csv", "failed to write header", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return nil, apperrors.NewSink("csv", "failed to flush header", err)
	}

	return &CSVSink{file: file, writer: writer, path: path}, nil
}

// Path returns the output file path
func (s *CSVSink) Path() string {
	return s.path
}

// WriteRow appends one row and flushes it to disk
func (s *CSVSink) WriteRow(row bse.Row) error {
	record := []string{
		row.ScripCode,
		row.StockName,
		row.Headline,
		row.Category,
		row.Subcategory,
		row.PDFLink,
		row.Date,
		row.NewsID,
	}

	if err := s.writer.Write(record); err != nil {
		return apperrors.NewSink("csv", "failed to write row", err)
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return apperrors.NewSink("csv", "failed to flush row", err)
	}
	return nil
}

// Close flushes pending rows and closes the file
func (s *CSVSink) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return apperrors.NewSink("csv", "failed to flush output", err)
	}
	if err := s.file.Close(); err != nil {
		return apperrors.NewSink("csv", "failed to close output file", err)
	}
	return nil
}
