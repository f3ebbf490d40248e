package graph

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/Gobusters/ectologger"
)

// RowSink receives the emitted row stream. Implementations are forward-only;
// a failed write poisons the run and the caller aborts.
type RowSink interface {
	WriteRow(ctx context.Context, row Row) error
	Close(ctx context.Context) error
}

// TSVSink streams rows to a tab-separated file for bulk import. The header
// row is written on construction.
type TSVSink struct {
	file   *os.File
	writer *csv.Writer
	logger ectologger.Logger
	rows   int64
}

// NewTSVSink creates the output file, truncating any previous run's output,
// and writes the header row.
func NewTSVSink(path string, logger ectologger.Logger) (*TSVSink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}

	writer := csv.NewWriter(file)
	writer.Comma = '\t'

	if err := writer.Write(Header); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	return &TSVSink{
		file:   file,
		writer: writer,
		logger: logger,
	}, nil
}

// WriteRow appends one row to the stream.
func (s *TSVSink) WriteRow(_ context.Context, row Row) error {
	if err := s.writer.Write(row.Fields()); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	s.rows++
	return nil
}

// Close flushes buffered rows and closes the file.
func (s *TSVSink) Close(ctx context.Context) error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return fmt.Errorf("failed to flush output file: %w", err)
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"rows": s.rows,
		"file": s.file.Name(),
	}).Info("Closed TSV output")
	return nil
}
