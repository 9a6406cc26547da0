package expense

import (
	"context"
	"slices"
	"sync"
)

// MemoryRepository is the volatile store behind the "memory" driver. Tests use it as a stub.
type MemoryRepository struct {
	mu       sync.RWMutex
	nextId   int
	expenses []Expense
}

func NewMemoryRepository(expenses ...Expense) *MemoryRepository {
	r := &MemoryRepository{nextId: 1}
	for _, e := range expenses {
		r.insert(e)
	}
	return r
}

func (r *MemoryRepository) ListAll(_ context.Context) ([]Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := slices.Clone(r.expenses)
	slices.SortStableFunc(result, func(a, b Expense) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return a.Id - b.Id
	})
	return result, nil
}

func (r *MemoryRepository) Store(_ context.Context, expense Expense) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(expense), nil
}

func (r *MemoryRepository) Delete(_ context.Context, id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := slices.IndexFunc(r.expenses, func(e Expense) bool { return e.Id == id })
	if idx < 0 {
		return false, nil
	}
	r.expenses = slices.Delete(r.expenses, idx, idx+1)
	return true, nil
}

func (r *MemoryRepository) ReplaceAll(_ context.Context, expenses []Expense) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.expenses = nil
	for _, e := range expenses {
		r.insert(e)
	}
	return len(expenses), nil
}

func (r *MemoryRepository) insert(e Expense) int {
	e.Id = r.nextId
	r.nextId++
	r.expenses = append(r.expenses, e)
	return e.Id
}
