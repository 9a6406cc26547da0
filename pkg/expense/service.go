package expense

import (
	"context"
	"fmt"

	"github.com/klokku/spendcast/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetAll(ctx context.Context) ([]Expense, error)
	Create(ctx context.Context, expense Expense) (Expense, error)
	Delete(ctx context.Context, id int) error
	// Clear removes every expense. confirm must be true.
	Clear(ctx context.Context, confirm bool) error
	// Replace swaps the whole ledger for expenses; source names who produced them.
	Replace(ctx context.Context, expenses []Expense, source string) (int, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Expense, error) {
	return s.repo.ListAll(ctx)
}

func (s *ServiceImpl) Create(ctx context.Context, expense Expense) (Expense, error) {
	expense.Amount = expense.Amount.Round(2)
	if err := expense.Validate(); err != nil {
		return Expense{}, err
	}

	id, err := s.repo.Store(ctx, expense)
	if err != nil {
		return Expense{}, fmt.Errorf("failed to store expense: %w", err)
	}
	expense.Id = id
	log.Debugf("Stored expense %d (%s, %s)", id, expense.Category, expense.Amount)

	s.publish(ctx, event_bus.ExpenseCreated, event_bus.ExpenseChanged{
		Id:       expense.Id,
		Date:     expense.Date,
		Category: string(expense.Category),
		Amount:   expense.Amount.InexactFloat64(),
	})
	return expense, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense %d: %w", id, err)
	}
	if !ok {
		return ErrExpenseNotFound
	}
	s.publish(ctx, event_bus.ExpenseDeleted, event_bus.ExpenseChanged{Id: id})
	return nil
}

func (s *ServiceImpl) Clear(ctx context.Context, confirm bool) error {
	if !confirm {
		return ErrConfirmationMissing
	}
	_, err := s.Replace(ctx, nil, "clear")
	return err
}

func (s *ServiceImpl) Replace(ctx context.Context, expenses []Expense, source string) (int, error) {
	for i, e := range expenses {
		if err := e.Validate(); err != nil {
			return 0, fmt.Errorf("expense %d of %d: %w", i+1, len(expenses), err)
		}
	}
	count, err := s.repo.ReplaceAll(ctx, expenses)
	if err != nil {
		return 0, fmt.Errorf("failed to replace expenses: %w", err)
	}
	log.Infof("Ledger replaced with %d expenses (%s)", count, source)

	s.publish(ctx, event_bus.ExpensesReplaced, event_bus.LedgerReplaced{Count: count, Source: source})
	return count, nil
}

// publish never fails the caller: the ledger has already changed.
func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Errorf("failed to publish %s: %v", eventType, err)
	}
}
