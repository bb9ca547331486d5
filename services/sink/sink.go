package sink

import "bseworker/internal/bse"

// RowSink persists resolved announcement rows
type RowSink interface {
	// WriteRow appends one row
	WriteRow(row bse.Row) error
	// Close finishes the output and releases resources
	Close() error
}
