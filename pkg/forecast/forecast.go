package forecast

import (
	"time"

	"github.com/klokku/spendcast/internal/config"
	"github.com/klokku/spendcast/pkg/expense"
)

const (
	ModelHoltWinters = "holt_winters_additive"
	ModelNaive       = "naive_fallback"
)

// Config is the forecasting policy. It is passed by value through the whole pipeline.
type Config struct {
	MinWeeks        int
	SparseThreshold float64
	HorizonWeeks    int
	SeasonLength    int
	WeekStart       time.Weekday
	FillWindowDays  int
	MaxIterations   int
}

func DefaultConfig() Config {
	return Config{
		MinWeeks:        8,
		SparseThreshold: 0.5,
		HorizonWeeks:    4,
		SeasonLength:    4,
		WeekStart:       time.Monday,
		FillWindowDays:  7,
		MaxIterations:   2000,
	}
}

func ConfigFrom(cfg config.Forecast) (Config, error) {
	weekStart, err := cfg.FirstDayOfWeek()
	if err != nil {
		return Config{}, err
	}
	return Config{
		MinWeeks:        cfg.MinWeeks,
		SparseThreshold: cfg.SparseThreshold,
		HorizonWeeks:    cfg.HorizonWeeks,
		SeasonLength:    cfg.SeasonLength,
		WeekStart:       weekStart,
		FillWindowDays:  cfg.FillWindowDays,
		MaxIterations:   cfg.MaxIterations,
	}, nil
}

func (c Config) gate() GateConfig {
	return GateConfig{MinWeeks: c.MinWeeks, SparseThreshold: c.SparseThreshold}
}

func (c Config) fit() FitConfig {
	return FitConfig{SeasonLength: c.SeasonLength, MaxIterations: c.MaxIterations}
}

// WeekTotal is one calendar week of spending. Raw is what was actually recorded, Total the gap-filled value.
type WeekTotal struct {
	WeekStart time.Time
	Raw       float64
	Total     float64
}

// WeeklySeries is contiguous and ordered by WeekStart, one entry per week.
type WeeklySeries []WeekTotal

func (s WeeklySeries) Totals() []float64 {
	totals := make([]float64, len(s))
	for i, w := range s {
		totals[i] = w.Total
	}
	return totals
}

type RejectReason string

const (
	ReasonInvalidDate       RejectReason = "invalid_date"
	ReasonNonPositiveAmount RejectReason = "non_positive_amount"
	ReasonInvalidCategory   RejectReason = "invalid_category"
)

// RejectedRecord is an expense the pipeline skipped.
type RejectedRecord struct {
	Expense expense.Expense
	Reason  RejectReason
}

type SmoothingParams struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

type ProjectedWeek struct {
	WeekStart time.Time
	Predicted float64
}

type ForecastResult struct {
	History      WeeklySeries
	Fitted       []float64
	Projection   []ProjectedWeek
	HorizonWeeks int
	ModelName    string
	Params       SmoothingParams
}

// Outcome is what one pipeline run hands back. Payload is nil unless the verdict is forecastable.
type Outcome struct {
	Verdict  Verdict
	Payload  *Payload
	Rejected []RejectedRecord
}

// Label names the outcome for logs and metrics: the model used, or the rejection reason.
func (o Outcome) Label() string {
	if o.Payload != nil {
		return o.Payload.Model
	}
	return string(o.Verdict.Reason)
}

// Run is the whole pipeline: aggregate, gate, fit, build the payload. It never fails; unusable input
// ends up in the verdict or in the rejected records.
func Run(records []expense.Expense, cfg Config) Outcome {
	accepted, rejected := partition(records)
	series := aggregate(accepted, cfg.WeekStart, cfg.FillWindowDays)

	verdict := Gate(series, cfg.gate())
	if !verdict.Forecastable {
		return Outcome{Verdict: verdict, Rejected: rejected}
	}

	model := Fit(series, cfg.fit())
	result := ForecastResult{
		History:      series,
		Fitted:       model.Fitted,
		Projection:   project(series, model, cfg.HorizonWeeks),
		HorizonWeeks: cfg.HorizonWeeks,
		ModelName:    model.Name,
		Params:       model.Params,
	}

	payload := BuildPayload(result, accepted)
	payload.RejectedRecords = len(rejected)
	return Outcome{Verdict: verdict, Payload: &payload, Rejected: rejected}
}

func project(series WeeklySeries, model FittedModel, horizon int) []ProjectedWeek {
	last := series[len(series)-1].WeekStart
	values := model.Forecast(horizon)
	projection := make([]ProjectedWeek, len(values))
	for i, v := range values {
		projection[i] = ProjectedWeek{
			WeekStart: last.AddDate(0, 0, 7*(i+1)),
			Predicted: v,
		}
	}
	return projection
}
