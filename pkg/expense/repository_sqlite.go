package expense

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// SQLiteRepository keeps dates and amounts as text. Rows that no longer parse are still returned,
// with a zero Date or Amount, so that readers can report them instead of failing.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]Expense, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, date, category, amount, description FROM expense ORDER BY date, id`)
	if err != nil {
		err := fmt.Errorf("could not query expenses: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		var (
			e           Expense
			date        string
			category    string
			amount      string
			description sql.NullString
		)
		if err := rows.Scan(&e.Id, &date, &category, &amount, &description); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		e.Category = Category(category)
		e.Description = description.String
		if e.Date, err = ParseDate(date); err != nil {
			log.Warnf("expense %d has an unreadable date %q", e.Id, date)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			log.Warnf("expense %d has an unreadable amount %q", e.Id, amount)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return expenses, nil
}

func (r *SQLiteRepository) Store(ctx context.Context, expense Expense) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO expense (date, category, amount, description) VALUES (?, ?, ?, ?)`,
		expense.Date.Format(DateLayout),
		string(expense.Category),
		expense.Amount.String(),
		expense.Description,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expense WHERE id = ?`, id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, expenses []Expense) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expense`); err != nil {
		err := fmt.Errorf("could not clear expenses: %w", err)
		log.Error(err)
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO expense (date, category, amount, description) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, e := range expenses {
		_, err := stmt.ExecContext(ctx, e.Date.Format(DateLayout), string(e.Category), e.Amount.String(), e.Description)
		if err != nil {
			err := fmt.Errorf("could not insert expense: %w", err)
			log.Error(err)
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("could not commit transaction: %w", err)
	}
	return len(expenses), nil
}
