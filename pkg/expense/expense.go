package expense

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the only accepted wire format for expense dates.
const DateLayout = "2006-01-02"

const maxDescriptionLength = 200

type Category string

const (
	Food          Category = "Food"
	Transport     Category = "Transport"
	Entertainment Category = "Entertainment"
	Health        Category = "Health"
	Bills         Category = "Bills"
	Shopping      Category = "Shopping"
	Other         Category = "Other"
)

// Categories lists the valid categories in display order.
var Categories = []Category{Food, Transport, Entertainment, Health, Bills, Shopping, Other}

var (
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrInvalidDate         = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrDescriptionTooLong  = fmt.Errorf("description too long (max %d characters)", maxDescriptionLength)
	ErrConfirmationMissing = errors.New("confirmation required")
)

type Expense struct {
	Id          int
	Date        time.Time
	Category    Category
	Amount      decimal.Decimal
	Description string
}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// Known reports whether c is one of Categories.
func (c Category) Known() bool {
	_, err := ParseCategory(string(c))
	return err == nil
}

// Countable reports whether a stored expense can take part in totals. Rows written around Create may
// carry a zero date, a non-positive amount or an unknown category.
func (e Expense) Countable() bool {
	return !e.Date.IsZero() && e.Amount.IsPositive() && e.Category.Known()
}

func ParseDate(s string) (time.Time, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

func CategoryNames() []string {
	names := make([]string, 0, len(Categories))
	for _, c := range Categories {
		names = append(names, string(c))
	}
	return names
}

func (e Expense) Validate() error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if _, err := ParseCategory(string(e.Category)); err != nil {
		return err
	}
	if len(e.Description) > maxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}
