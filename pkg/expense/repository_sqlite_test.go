package expense

import (
	"testing"
	"time"

	"github.com/klokku/spendcast/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLiteRepository(t *testing.T) *SQLiteRepository {
	return NewSQLiteRepository(test_utils.SetupTestDB(t))
}

func TestSQLiteRepository_StoreAndList(t *testing.T) {
	// given
	repo := setupSQLiteRepository(t)
	second := newExpense("2024-03-05", Transport, "3.20")
	second.Description = "Metro"
	_, err := repo.Store(ctx, second)
	require.NoError(t, err)
	_, err = repo.Store(ctx, newExpense("2024-03-01", Food, "12.50"))
	require.NoError(t, err)

	// when
	expenses, err := repo.ListAll(ctx)

	// then
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), expenses[0].Date)
	assert.Equal(t, "12.5", expenses[0].Amount.String())
	assert.Equal(t, Transport, expenses[1].Category)
	assert.Equal(t, "Metro", expenses[1].Description)
}

func TestSQLiteRepository_Delete(t *testing.T) {
	// given
	repo := setupSQLiteRepository(t)
	id, err := repo.Store(ctx, newExpense("2024-03-01", Food, "12.50"))
	require.NoError(t, err)

	// when
	deleted, err := repo.Delete(ctx, id)
	require.NoError(t, err)
	deletedAgain, err := repo.Delete(ctx, id)

	// then
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.False(t, deletedAgain)
}

func TestSQLiteRepository_ReplaceAll(t *testing.T) {
	// given
	repo := setupSQLiteRepository(t)
	_, err := repo.Store(ctx, newExpense("2024-01-01", Other, "99"))
	require.NoError(t, err)

	// when
	count, err := repo.ReplaceAll(ctx, []Expense{
		newExpense("2024-03-01", Food, "1"),
		newExpense("2024-03-02", Food, "2"),
		newExpense("2024-03-03", Food, "3"),
	})

	// then
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	expenses, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, expenses, 3)
	for _, e := range expenses {
		assert.Equal(t, Food, e.Category)
	}
}

func TestSQLiteRepository_ListAll_ToleratesMalformedRows(t *testing.T) {
	// given
	db := test_utils.SetupTestDB(t)
	repo := NewSQLiteRepository(db)
	_, err := db.Exec(`INSERT INTO expense (date, category, amount, description) VALUES ('31/12/2023', 'Food', '5', ''), ('2024-01-02', 'Food', 'abc', '')`)
	require.NoError(t, err)

	// when
	expenses, err := repo.ListAll(ctx)

	// then
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	var zeroDates, zeroAmounts int
	for _, e := range expenses {
		if e.Date.IsZero() {
			zeroDates++
		}
		if e.Amount.IsZero() {
			zeroAmounts++
		}
	}
	assert.Equal(t, 1, zeroDates)
	assert.Equal(t, 1, zeroAmounts)
}
