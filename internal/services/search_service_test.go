package services

import (
	"testing"

	"spesecasa/internal/models"
	"spesecasa/internal/testutil"
)

func TestSearch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	family := testutil.CreateTestFamily(t, db)
	other := testutil.CreateTestFamily(t, db)
	user := testutil.CreateTestUser(t, db, family.ID)
	svc := NewSearchService(db)

	m := testutil.CreateTestMovement(t, db, family.ID, user.ID, models.MovementTypeExpense, "42.5", "Groceries", testutil.Date(2024, 1, 1))
	m.Description = "Weekly SHOPPING"
	db.Save(m)
	testutil.CreateTestMovement(t, db, family.ID, user.ID, models.MovementTypeExpense, "10", "Fuel", testutil.Date(2024, 1, 2))
	testutil.CreateTestMovement(t, db, other.ID, user.ID, models.MovementTypeExpense, "10", "Groceries", testutil.Date(2024, 1, 2))
	testutil.CreateTestCategory(t, db, family.ID, "Groceries")
	rule := testutil.CreateTestRule(t, db, family.ID, user.ID)
	db.Model(rule).Update("name", "Grocery box")
	inactive := testutil.CreateTestRule(t, db, family.ID, user.ID)
	db.Model(inactive).Updates(map[string]interface{}{"name": "Grocery old", "is_active": false})

	t.Run("groups_matches", func(t *testing.T) {
		res, err := svc.Search(family.ID, "GROC")
		testutil.AssertNoError(t, err)

		if len(res.Results.Movements) != 1 || len(res.Results.Categories) != 1 || len(res.Results.RecurringExpenses) != 1 {
			t.Errorf("unexpected results %+v", res.Results)
		}
		if res.TotalResults != 3 {
			t.Errorf("expected 3 results, got %d", res.TotalResults)
		}
	})

	t.Run("description", func(t *testing.T) {
		res, err := svc.Search(family.ID, "shopping")
		testutil.AssertNoError(t, err)
		if len(res.Results.Movements) != 1 || res.Results.Movements[0].ID != m.ID {
			t.Errorf("expected the groceries movement, got %+v", res.Results.Movements)
		}
	})

	t.Run("amount", func(t *testing.T) {
		res, err := svc.Search(family.ID, "42")
		testutil.AssertNoError(t, err)
		if len(res.Results.Movements) != 1 {
			t.Errorf("expected 1 movement matching the amount, got %d", len(res.Results.Movements))
		}
	})

	t.Run("no_match_has_empty_groups", func(t *testing.T) {
		res, err := svc.Search(family.ID, "zzz")
		testutil.AssertNoError(t, err)
		if res.Results.Movements == nil || res.Results.Categories == nil || res.Results.RecurringExpenses == nil {
			t.Error("expected empty, non-nil groups")
		}
		if res.TotalResults != 0 {
			t.Errorf("expected 0 results, got %d", res.TotalResults)
		}
	})

	t.Run("too_short", func(t *testing.T) {
		_, err := svc.Search(family.ID, " a ")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
