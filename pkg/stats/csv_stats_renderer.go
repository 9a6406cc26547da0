package stats

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/klokku/spendcast/pkg/expense"
	log "github.com/sirupsen/logrus"
)

type StatsRenderer interface {
	RenderStats(stats StatsSummary) (string, error)
}

type CsvStatsRendererImpl struct {
}

func NewCsvStatsRenderer() *CsvStatsRendererImpl {
	return &CsvStatsRendererImpl{}
}

// RenderStats writes one row per day with a column per category, followed by total and count rows.
func (t *CsvStatsRendererImpl) RenderStats(stats StatsSummary) (string, error) {
	categoryNames := make([]string, 0, len(stats.Categories)+2)
	categoryNames = append(categoryNames, "")
	for _, categoryStats := range stats.Categories {
		categoryNames = append(categoryNames, string(categoryStats.Category))
	}

	statsByDay := make([][]string, 0, len(stats.Days))
	for _, dailyStats := range stats.Days {
		statsByDay = append(statsByDay, getStatsForDay(dailyStats, stats.Categories))
	}

	totals := make([]string, 0, len(stats.Categories)+2)
	totals = append(totals, "Total")
	counts := make([]string, 0, len(stats.Categories)+2)
	counts = append(counts, "Count")
	for _, categoryStats := range stats.Categories {
		totals = append(totals, categoryStats.Total.StringFixed(2))
		counts = append(counts, strconv.Itoa(categoryStats.Count))
	}
	totals = append(totals, stats.Total.StringFixed(2))
	counts = append(counts, strconv.Itoa(stats.Count))

	categoryNames = append(categoryNames, "SUM")
	data := make([][]string, 0, 1+len(statsByDay)+2)
	data = append(data, categoryNames)
	data = append(data, statsByDay...)
	data = append(data, totals, counts)

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func getStatsForDay(dailyStats DailyStats, categories []CategoryStats) []string {
	dayStats := make([]string, 0, len(categories)+2)
	dayStats = append(dayStats, dailyStats.Date.Format(expense.DateLayout))
	for _, categoryStats := range categories {
		dayStats = append(dayStats, dailyStats.ByCategory[categoryStats.Category].StringFixed(2))
	}
	dayStats = append(dayStats, dailyStats.Total.StringFixed(2))
	return dayStats
}
