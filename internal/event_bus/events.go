package event_bus

import "time"

const (
	ExpenseCreated   EventType = "expense.created"
	ExpenseDeleted   EventType = "expense.deleted"
	ExpensesReplaced EventType = "expense.ledger.replaced"
)

type ExpenseChanged struct {
	Id       int
	Date     time.Time
	Category string
	Amount   float64
}

// LedgerReplaced is published when the whole ledger is swapped: cleared (Count == 0) or regenerated.
type LedgerReplaced struct {
	Count  int
	Source string
}
