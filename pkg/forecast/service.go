package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/klokku/spendcast/internal/utils"
	"github.com/klokku/spendcast/pkg/expense"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Forecast(ctx context.Context) (Outcome, error)
}

// Observer is told about every finished forecast run.
type Observer interface {
	ObserveForecast(outcome string, rejectedRecords int, elapsed time.Duration)
}

type ServiceImpl struct {
	reader   expense.Reader
	cfg      Config
	observer Observer
	clock    utils.Clock
}

func NewService(reader expense.Reader, cfg Config, observer Observer, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{reader: reader, cfg: cfg, observer: observer, clock: clock}
}

func (s *ServiceImpl) Forecast(ctx context.Context) (Outcome, error) {
	started := s.clock.Now()

	records, err := s.reader.ListAll(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to read expenses: %w", err)
	}

	outcome := Run(records, s.cfg)

	for _, r := range outcome.Rejected {
		log.Warnf("Skipping expense %d (%s): %s", r.Expense.Id, r.Expense.Date.Format(expense.DateLayout), r.Reason)
	}
	log.Debugf("Forecast over %d records finished as %s", len(records), outcome.Label())

	if s.observer != nil {
		s.observer.ObserveForecast(outcome.Label(), len(outcome.Rejected), s.clock.Now().Sub(started))
	}
	return outcome, nil
}
