package expense

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]Expense, error) {
	query := `SELECT id, date, category, amount::text, description FROM expense ORDER BY date, id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query expenses: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		var (
			e        Expense
			category string
			amount   string
		)
		if err := rows.Scan(&e.Id, &e.Date, &category, &amount, &e.Description); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		e.Category = Category(category)
		e.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			log.Warnf("expense %d has an unreadable amount %q: %v", e.Id, amount, err)
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

func (r *PostgresRepository) Store(ctx context.Context, expense Expense) (int, error) {
	query := `INSERT INTO expense (date, category, amount, description) VALUES ($1, $2, $3, $4) RETURNING id`

	var id int
	err := r.db.QueryRow(ctx, query,
		expense.Date,
		string(expense.Category),
		toNumeric(expense.Amount),
		expense.Description,
	).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.Exec(ctx, "DELETE FROM expense WHERE id = $1", id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r *PostgresRepository) ReplaceAll(ctx context.Context, expenses []Expense) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM expense"); err != nil {
		err := fmt.Errorf("could not clear expenses: %w", err)
		log.Error(err)
		return 0, err
	}

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{"expense"},
		[]string{"date", "category", "amount", "description"},
		pgx.CopyFromSlice(len(expenses), func(i int) ([]any, error) {
			e := expenses[i]
			return []any{e.Date, string(e.Category), toNumeric(e.Amount), e.Description}, nil
		}),
	)
	if err != nil {
		err := fmt.Errorf("could not copy expenses: %w", err)
		log.Error(err)
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("could not commit transaction: %w", err)
	}
	return int(copied), nil
}

func toNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

