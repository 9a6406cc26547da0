package forecast

type GateConfig struct {
	MinWeeks int
	// SparseThreshold is inclusive: a zero-week fraction equal to it is rejected.
	SparseThreshold float64
}

type RejectionReason string

const (
	InsufficientHistory RejectionReason = "insufficient_history"
	TooSparse           RejectionReason = "too_sparse"
)

type Verdict struct {
	Forecastable bool            `json:"forecastable"`
	Reason       RejectionReason `json:"reason,omitempty"`
	Weeks        int             `json:"weeks"`
	// RequiredWeeks is the MinWeeks the verdict was made against.
	RequiredWeeks int `json:"required_weeks"`
	// ZeroFraction is the share of weeks with no recorded spending before any gap fill.
	ZeroFraction float64 `json:"zero_fraction"`
}

func Gate(series WeeklySeries, cfg GateConfig) Verdict {
	verdict := Verdict{
		Weeks:         len(series),
		RequiredWeeks: cfg.MinWeeks,
		ZeroFraction:  zeroFraction(series),
	}
	switch {
	case len(series) < cfg.MinWeeks:
		verdict.Reason = InsufficientHistory
	case verdict.ZeroFraction >= cfg.SparseThreshold:
		verdict.Reason = TooSparse
	default:
		verdict.Forecastable = true
	}
	return verdict
}

func zeroFraction(series WeeklySeries) float64 {
	if len(series) == 0 {
		return 0
	}
	var zeros int
	for _, w := range series {
		if w.Raw == 0 {
			zeros++
		}
	}
	return float64(zeros) / float64(len(series))
}
