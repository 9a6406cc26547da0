package mockdata

import (
	"math/rand/v2"
	"time"

	"github.com/klokku/spendcast/internal/utils"
	"github.com/klokku/spendcast/pkg/expense"
	"github.com/shopspring/decimal"
)

const (
	dailyGrowth      = 0.0005
	weekendMultiplier = 2.0
	minBaseAmount    = 10.0
	maxBaseAmount    = 100.0
)

var descriptions = map[expense.Category][]string{
	expense.Food:          {"Grocery Store", "Restaurant", "Cafe", "Fast Food"},
	expense.Transport:     {"Uber", "Metro", "Bus", "Taxi"},
	expense.Entertainment: {"Netflix", "Cinema", "Concert", "Museum"},
	expense.Health:        {"Pharmacy", "Gym", "Doctor", "Supplements"},
	expense.Bills:         {"Electricity", "Water", "Internet", "Phone"},
	expense.Shopping:      {"Amazon", "Clothing", "Electronics", "Books"},
}

// categories excludes Other, which has no descriptions.
var categories = []expense.Category{
	expense.Food, expense.Transport, expense.Entertainment, expense.Health, expense.Bills, expense.Shopping,
}

type Options struct {
	Records int
	Days    int
	// Seed of 0 picks a random seed.
	Seed uint64
}

type Generator struct {
	clock utils.Clock
}

func NewGenerator(clock utils.Clock) *Generator {
	return &Generator{clock: clock}
}

// Generate creates a ledger over the last opts.Days days that grows by 0.05% a day, with Food and
// Entertainment costing twice as much on weekends.
func (g *Generator) Generate(opts Options) []expense.Expense {
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	baseDate := utils.Today(g.clock).AddDate(0, 0, -opts.Days)
	expenses := make([]expense.Expense, 0, opts.Records)
	for range opts.Records {
		daysOffset := rng.IntN(opts.Days + 1)
		date := baseDate.AddDate(0, 0, daysOffset)
		category := categories[rng.IntN(len(categories))]

		amount := minBaseAmount + rng.Float64()*(maxBaseAmount-minBaseAmount)
		amount *= 1 + float64(daysOffset)*dailyGrowth
		if isWeekend(date) && (category == expense.Food || category == expense.Entertainment) {
			amount *= weekendMultiplier
		}

		options := descriptions[category]
		expenses = append(expenses, expense.Expense{
			Date:        date,
			Category:    category,
			Amount:      decimal.NewFromFloat(amount).Round(2),
			Description: options[rng.IntN(len(options))],
		})
	}
	return expenses
}

func isWeekend(date time.Time) bool {
	return date.Weekday() == time.Saturday || date.Weekday() == time.Sunday
}
