package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/klokku/spendcast/pkg/expense"
	"github.com/klokku/spendcast/pkg/stats"
)

var ErrNoData = errors.New("no data to export")

type Service interface {
	Workbook(ctx context.Context) (Workbook, error)
}

type ServiceImpl struct {
	reader expense.Reader
}

func NewService(reader expense.Reader) *ServiceImpl {
	return &ServiceImpl{reader: reader}
}

// Workbook reports the whole ledger. The summary sheets only count expenses with a date and a positive amount.
func (s *ServiceImpl) Workbook(ctx context.Context) (Workbook, error) {
	expenses, err := s.reader.ListAll(ctx)
	if err != nil {
		return Workbook{}, fmt.Errorf("failed to read expenses: %w", err)
	}
	if len(expenses) == 0 {
		return Workbook{}, ErrNoData
	}

	valid := make([]expense.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Countable() {
			valid = append(valid, e)
		}
	}
	return BuildWorkbook(expenses, stats.Summarize(valid)), nil
}
