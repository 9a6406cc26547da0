package forecast

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/optimize"
)

type FitConfig struct {
	SeasonLength  int
	MaxIterations int
}

// FittedModel is the result of Fit. Fitted holds the in-sample one-step predictions, floored at 0.
type FittedModel struct {
	Name   string
	Params SmoothingParams
	Fitted []float64

	level  float64
	trend  float64
	season []float64
	n      int
	last   float64
	// predictions before the zero floor
	raw []float64
}

// Forecast projects h weeks past the end of the fitted series. Values are never negative.
func (m FittedModel) Forecast(h int) []float64 {
	out := make([]float64, h)
	for i := range out {
		var v float64
		if m.Name == ModelNaive {
			v = m.last
		} else {
			step := float64(i + 1)
			v = m.level + step*m.trend + m.season[(m.n+i)%len(m.season)]
		}
		out[i] = math.Max(0, v)
	}
	return out
}

// Fit estimates an additive Holt-Winters model on the filled weekly totals. Smoothing weights are chosen by
// minimising the in-sample squared one-step error with Nelder-Mead. Whenever that cannot produce a usable
// model the naive last-value model is returned instead, so Fit itself never fails.
func Fit(series WeeklySeries, cfg FitConfig) FittedModel {
	if len(series) == 0 {
		panic("forecast: Fit called with an empty series")
	}
	y := series.Totals()
	m := cfg.SeasonLength

	if len(y) < 2*m {
		log.Debugf("series of %d weeks is shorter than two seasons, using naive model", len(y))
		return naive(y)
	}
	if isConstant(y) {
		log.Debug("constant series, using naive model")
		return naive(y)
	}

	params, err := optimiseParams(y, m, cfg.MaxIterations)
	if err != nil {
		log.Warnf("holt-winters fit failed, using naive model: %v", err)
		return naive(y)
	}

	model := smooth(y, m, params)
	model.Name = ModelHoltWinters
	model.Params = params
	if !model.finite() {
		log.Warn("holt-winters produced non-finite values, using naive model")
		return naive(y)
	}
	return model
}

var acceptedStatuses = map[optimize.Status]bool{
	optimize.Success:             true,
	optimize.FunctionConvergence: true,
	optimize.MethodConverge:      true,
	optimize.FunctionThreshold:   true,
	optimize.GradientThreshold:   true,
}

// startingPoint is fixed so that identical input always yields identical weights.
var startingPoint = SmoothingParams{Alpha: 0.3, Beta: 0.1, Gamma: 0.1}

func optimiseParams(y []float64, m int, maxIterations int) (SmoothingParams, error) {
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			sse := smooth(y, m, fromUnconstrained(x)).sse(y)
			if math.IsNaN(sse) || math.IsInf(sse, 0) {
				return math.MaxFloat64
			}
			return sse
		},
	}
	settings := &optimize.Settings{
		MajorIterations: maxIterations,
		FuncEvaluations: 10 * maxIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Relative:   1e-10,
			Iterations: 50,
		},
	}

	result, err := optimize.Minimize(problem, toUnconstrained(startingPoint), settings, &optimize.NelderMead{SimplexSize: 0.5})
	if err != nil {
		return SmoothingParams{}, err
	}
	if !acceptedStatuses[result.Status] {
		return SmoothingParams{}, fmt.Errorf("optimiser stopped with status %s", result.Status)
	}
	if math.IsNaN(result.F) || result.F == math.MaxFloat64 {
		return SmoothingParams{}, fmt.Errorf("optimiser found no finite solution")
	}
	return fromUnconstrained(result.X), nil
}

// smooth runs the additive recursion over y. The model returned carries the final state.
func smooth(y []float64, m int, p SmoothingParams) FittedModel {
	level := mean(y[:m])
	trend := (mean(y[m:2*m]) - level) / float64(m)
	season := make([]float64, m)
	for i := range m {
		season[i] = y[i] - level
	}

	raw := make([]float64, len(y))
	fitted := make([]float64, len(y))
	for t, obs := range y {
		s := season[t%m]
		raw[t] = level + trend + s
		fitted[t] = math.Max(0, raw[t])

		prevLevel := level
		level = p.Alpha*(obs-s) + (1-p.Alpha)*(level+trend)
		trend = p.Beta*(level-prevLevel) + (1-p.Beta)*trend
		season[t%m] = p.Gamma*(obs-level) + (1-p.Gamma)*s
	}

	return FittedModel{
		Fitted: fitted,
		level:  level,
		trend:  trend,
		season: season,
		n:      len(y),
		last:   y[len(y)-1],
		raw:    raw,
	}
}

// sse is computed on the unfloored predictions so the objective stays smooth around zero.
func (m FittedModel) sse(y []float64) float64 {
	var sum float64
	for t, obs := range y {
		d := obs - m.raw[t]
		sum += d * d
	}
	return sum
}

func (m FittedModel) finite() bool {
	values := append([]float64{m.level, m.trend}, m.season...)
	values = append(values, m.Fitted...)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func naive(y []float64) FittedModel {
	fitted := make([]float64, len(y))
	fitted[0] = y[0]
	for t := 1; t < len(y); t++ {
		fitted[t] = y[t-1]
	}
	return FittedModel{
		Name:   ModelNaive,
		Fitted: fitted,
		n:      len(y),
		last:   y[len(y)-1],
	}
}

func toUnconstrained(p SmoothingParams) []float64 {
	return []float64{logit(p.Alpha), logit(p.Beta), logit(p.Gamma)}
}

func fromUnconstrained(x []float64) SmoothingParams {
	return SmoothingParams{Alpha: logistic(x[0]), Beta: logistic(x[1]), Gamma: logistic(x[2])}
}

const weightBound = 1e-6

// logistic maps the real line onto (0, 1), kept away from the ends so every weight stays a true mix.
func logistic(x float64) float64 {
	v := 1 / (1 + math.Exp(-x))
	return math.Min(math.Max(v, weightBound), 1-weightBound)
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func isConstant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
