package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luzi-app/luzi/internal/common"
	"github.com/luzi-app/luzi/internal/model"
	"github.com/luzi-app/luzi/internal/service"
)

// Compile-time check that SQLiteStorage satisfies the service contract.
var _ service.Storage = (*SQLiteStorage)(nil)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	db, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func testDraft(amount float64, description, categoryID string, date time.Time) *model.ExpenseDraft {
	return &model.ExpenseDraft{
		Amount:      amount,
		Description: description,
		CategoryID:  categoryID,
		Date:        date,
	}
}

func TestMigrate_SeedsDefaults(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()

	categories, err := db.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 7)
	assert.Equal(t, "Comida", categories[0].Name)
	assert.Equal(t, model.CatchAllCategoryID, categories[6].ID)
	assert.Equal(t, "Otros", categories[6].Name)

	settings, err := db.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), *settings)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestStorage(t)
	require.NoError(t, db.Migrate(context.Background()))

	categories, err := db.GetCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 7)
}

func TestExpenses_CRUD(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()
	now := time.Now()

	saved, err := db.AddExpense(ctx, testDraft(2500, "Sushi", "1", now))
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	fetched, err := db.GetExpenseByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, fetched.Amount)
	assert.Equal(t, "Sushi", fetched.Description)
	assert.Equal(t, "1", fetched.CategoryID)

	updated, err := db.UpdateExpense(ctx, saved.ID, testDraft(2800, "Sushi y bebida", "1", now))
	require.NoError(t, err)
	assert.Equal(t, 2800.0, updated.Amount)

	deleted, err := db.DeleteExpense(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = db.GetExpenseByID(ctx, saved.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	deleted, err = db.DeleteExpense(ctx, saved.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestExpenses_RejectsInvalidDraft(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()

	_, err := db.AddExpense(ctx, testDraft(0, "Sushi", "1", time.Now()))
	assert.ErrorIs(t, err, ErrInvalidExpense)

	_, err = db.AddExpense(ctx, nil)
	assert.ErrorIs(t, err, ErrNilParameter)
}

func TestExpenses_ListOrderAndFilter(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()
	today := time.Now()
	yesterday := today.AddDate(0, 0, -1)
	lastWeek := today.AddDate(0, 0, -7)

	_, err := db.AddExpense(ctx, testDraft(100, "Nafta", "2", lastWeek))
	require.NoError(t, err)
	_, err = db.AddExpense(ctx, testDraft(200, "Cine", "4", yesterday))
	require.NoError(t, err)
	_, err = db.AddExpense(ctx, testDraft(300, "Sushi", "1", today))
	require.NoError(t, err)

	all, err := db.GetExpenses(ctx, service.ExpenseFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Sushi", all[0].Description)
	assert.Equal(t, "Nafta", all[2].Description)

	onlyFood, err := db.GetExpenses(ctx, service.ExpenseFilter{CategoryID: "1"})
	require.NoError(t, err)
	require.Len(t, onlyFood, 1)
	assert.Equal(t, "Sushi", onlyFood[0].Description)

	start := today.AddDate(0, 0, -2)
	recent, err := db.GetExpenses(ctx, service.ExpenseFilter{StartDate: &start})
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	limited, err := db.GetExpenses(ctx, service.ExpenseFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "Sushi", limited[0].Description)
}

func TestCategories_CRUD(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()

	created, err := db.CreateCategory(ctx, model.CategoryInput{Name: "Mascotas", Color: "#AABBCC", Icon: "paw"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	fetched, err := db.GetCategoryByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mascotas", fetched.Name)

	updated, err := db.UpdateCategory(ctx, created.ID, model.CategoryInput{Name: "Mascotas y vet", Color: "#AABBCC", Icon: "paw"})
	require.NoError(t, err)
	assert.Equal(t, "Mascotas y vet", updated.Name)

	deleted, err := db.DeleteCategory(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = db.GetCategoryByID(ctx, created.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCategories_DeleteRefusedWhileInUse(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()

	_, err := db.AddExpense(ctx, testDraft(500, "Farmacia", "5", time.Now()))
	require.NoError(t, err)

	deleted, err := db.DeleteCategory(ctx, "5")
	assert.ErrorIs(t, err, common.ErrCategoryInUse)
	assert.False(t, deleted)

	cat, err := db.GetCategoryByID(ctx, "5")
	require.NoError(t, err)
	assert.Equal(t, "Salud", cat.Name)
}

func TestSynonymOverlay_RoundTrip(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()

	empty, err := db.GetSynonymOverlay(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	overlay := map[string][]string{
		"1": {"empanada", "milanesa"},
		"2": {"bondi"},
	}
	require.NoError(t, db.SaveSynonymOverlay(ctx, overlay))

	loaded, err := db.GetSynonymOverlay(ctx)
	require.NoError(t, err)
	assert.Equal(t, overlay, loaded)

	// Saving a smaller overlay replaces the previous one entirely.
	require.NoError(t, db.SaveSynonymOverlay(ctx, map[string][]string{"2": {"bondi"}}))

	loaded, err = db.GetSynonymOverlay(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"2": {"bondi"}}, loaded)
}

func TestSettings_Update(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()

	updated := model.Settings{
		MonthlyLimit:        120000,
		EnableNotifications: false,
		EnableVoice:         true,
	}
	require.NoError(t, db.UpdateSettings(ctx, updated))

	settings, err := db.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated, *settings)
}

func TestAggregations(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()
	now := time.Now()

	_, err := db.AddExpense(ctx, testDraft(1000, "Sushi", "1", now))
	require.NoError(t, err)
	_, err = db.AddExpense(ctx, testDraft(500, "Helado", "1", now))
	require.NoError(t, err)
	_, err = db.AddExpense(ctx, testDraft(700, "Nafta", "2", now))
	require.NoError(t, err)
	// Outside the current month.
	_, err = db.AddExpense(ctx, testDraft(9999, "Viejo", "1", now.AddDate(0, -2, 0)))
	require.NoError(t, err)

	start, end := service.MonthRange(now)
	totals, err := db.GetCategoryTotals(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, model.CategoryTotal{CategoryID: "1", Total: 1500}, totals[0])
	assert.Equal(t, model.CategoryTotal{CategoryID: "2", Total: 700}, totals[1])

	monthly, err := db.GetMonthlyTotal(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2200.0, monthly)

	empty, err := db.GetMonthlyTotal(ctx, now.AddDate(0, -6, 0))
	require.NoError(t, err)
	assert.Zero(t, empty)
}
