package expense

import "context"

// Reader is the read-only snapshot view of the ledger.
type Reader interface {
	// ListAll returns every stored expense ordered by date and id.
	ListAll(ctx context.Context) ([]Expense, error)
}

type Repository interface {
	Reader
	Store(ctx context.Context, expense Expense) (int, error)
	Delete(ctx context.Context, id int) (bool, error)
	// ReplaceAll atomically swaps the whole ledger for expenses and returns how many were stored.
	ReplaceAll(ctx context.Context, expenses []Expense) (int, error)
}
