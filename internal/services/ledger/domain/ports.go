package domain

import "context"

// WriterPort persists ledger records
type WriterPort interface {
	WriteBatch(ctx context.Context, xs []Record) error
}

// ReaderPort reads recent ledger records, newest first
type ReaderPort interface {
	Recent(ctx context.Context, limit int) ([]Record, error)
}

// Storage is implemented by each sink
type Storage interface {
	WriterPort
	ReaderPort
	EnsureSchema(ctx context.Context) error
}
