package services

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spesecasa/internal/clock"
	"spesecasa/internal/models"
	"spesecasa/internal/testutil"
)

var fixedToday = clock.Fixed(testutil.Date(2024, time.June, 10))

func ptrTime(t time.Time) *time.Time { return &t }

func rentRule(start, end time.Time) RuleInput {
	return RuleInput{
		Name:        "Rent",
		Amount:      decimal.NewFromInt(100),
		Category:    "Housing",
		Description: "flat",
		DayOfMonth:  15,
		StartDate:   ptrTime(start),
		EndDate:     ptrTime(end),
	}
}

func ruleMovements(t *testing.T, db *gorm.DB, ruleID string) []models.Movement {
	t.Helper()
	var movements []models.Movement
	if err := db.Where("from_recurring_id = ?", ruleID).Order("date ASC").Find(&movements).Error; err != nil {
		t.Fatalf("failed to load movements: %v", err)
	}
	return movements
}

func assertDates(t *testing.T, movements []models.Movement, want ...time.Time) {
	t.Helper()
	if len(movements) != len(want) {
		t.Fatalf("expected %d movements, got %d", len(want), len(movements))
	}
	for i, m := range movements {
		if !m.Date.Equal(want[i]) {
			t.Errorf("movement %d: expected date %s, got %s", i, want[i].Format("2006-01-02"), m.Date.Format("2006-01-02"))
		}
	}
}

type recurringFixture struct {
	db     *gorm.DB
	svc    RecurringServicer
	family *models.Family
	user   *models.User
}

func newRecurringFixture(t *testing.T) *recurringFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	family := testutil.CreateTestFamily(t, db)
	return &recurringFixture{
		db:     db,
		svc:    NewRecurringService(db, fixedToday),
		family: family,
		user:   testutil.CreateTestUser(t, db, family.ID),
	}
}

func TestCreateRule(t *testing.T) {
	t.Run("generates_one_movement_per_month", func(t *testing.T) {
		f := newRecurringFixture(t)

		rule, err := f.svc.CreateRule(f.family.ID, f.user.ID,
			rentRule(testutil.Date(2024, 1, 15), testutil.Date(2024, 3, 15)))
		testutil.AssertNoError(t, err)

		if !rule.IsActive || rule.RecurrenceType != models.RecurrenceMonthly {
			t.Errorf("expected active monthly rule, got active=%v type=%s", rule.IsActive, rule.RecurrenceType)
		}

		movements := ruleMovements(t, f.db, rule.ID)
		assertDates(t, movements, testutil.Date(2024, 1, 15), testutil.Date(2024, 2, 15), testutil.Date(2024, 3, 15))
		for _, m := range movements {
			if m.Type != models.MovementTypeExpense {
				t.Errorf("expected EXPENSE, got %s", m.Type)
			}
			if !m.IsPlanned || m.IsConfirmed {
				t.Errorf("expected planned unconfirmed movement, got planned=%v confirmed=%v", m.IsPlanned, m.IsConfirmed)
			}
			if !m.Amount.Equal(decimal.NewFromInt(100)) {
				t.Errorf("expected amount 100, got %s", m.Amount)
			}
			if m.Category != "Housing" {
				t.Errorf("expected category Housing, got %s", m.Category)
			}
			if m.Description != "[Recurring] Rent - flat" {
				t.Errorf("unexpected description %q", m.Description)
			}
			if m.FamilyID != f.family.ID || m.UserID != f.user.ID {
				t.Error("expected movement to inherit family and user from the rule")
			}
			if m.CreatedByUserID == nil || *m.CreatedByUserID != f.user.ID {
				t.Error("expected created_by_user_id to be the rule's user")
			}
		}
	})

	t.Run("description_without_suffix", func(t *testing.T) {
		f := newRecurringFixture(t)
		in := rentRule(testutil.Date(2024, 1, 15), testutil.Date(2024, 1, 20))
		in.Description = ""

		rule, err := f.svc.CreateRule(f.family.ID, f.user.ID, in)
		testutil.AssertNoError(t, err)

		movements := ruleMovements(t, f.db, rule.ID)
		if len(movements) != 1 || movements[0].Description != "[Recurring] Rent" {
			t.Errorf("unexpected movements %+v", movements)
		}
	})

	t.Run("defaults_to_today_plus_one_year", func(t *testing.T) {
		f := newRecurringFixture(t)

		rule, err := f.svc.CreateRule(f.family.ID, f.user.ID, RuleInput{
			Name: "Gym", Amount: decimal.NewFromInt(30), Category: "Sport", DayOfMonth: 10,
		})
		testutil.AssertNoError(t, err)

		movements := ruleMovements(t, f.db, rule.ID)
		if len(movements) != 13 {
			t.Fatalf("expected 13 movements, got %d", len(movements))
		}
		if !movements[0].Date.Equal(testutil.Date(2024, 6, 10)) {
			t.Errorf("expected first movement today, got %s", movements[0].Date)
		}
		if !movements[12].Date.Equal(testutil.Date(2025, 6, 10)) {
			t.Errorf("expected last movement one year ahead, got %s", movements[12].Date)
		}
	})

	t.Run("day_of_month_defaults_to_first", func(t *testing.T) {
		f := newRecurringFixture(t)
		in := rentRule(testutil.Date(2024, 1, 1), testutil.Date(2024, 2, 1))
		in.DayOfMonth = 0

		rule, err := f.svc.CreateRule(f.family.ID, f.user.ID, in)
		testutil.AssertNoError(t, err)

		if rule.DayOfMonth != 1 {
			t.Errorf("expected day_of_month 1, got %d", rule.DayOfMonth)
		}
		assertDates(t, ruleMovements(t, f.db, rule.ID), testutil.Date(2024, 1, 1), testutil.Date(2024, 2, 1))
	})

	t.Run("applicable_months_filter", func(t *testing.T) {
		f := newRecurringFixture(t)
		in := rentRule(testutil.Date(2024, 1, 1), testutil.Date(2024, 12, 31))
		in.ApplicableMonths = models.MonthSet{1, 7}

		rule, err := f.svc.CreateRule(f.family.ID, f.user.ID, in)
		testutil.AssertNoError(t, err)

		assertDates(t, ruleMovements(t, f.db, rule.ID), testutil.Date(2024, 1, 15), testutil.Date(2024, 7, 15))
	})

	t.Run("day_31_clamps_to_short_months", func(t *testing.T) {
		f := newRecurringFixture(t)
		in := rentRule(testutil.Date(2024, 1, 31), testutil.Date(2024, 4, 30))
		in.DayOfMonth = 31

		rule, err := f.svc.CreateRule(f.family.ID, f.user.ID, in)
		testutil.AssertNoError(t, err)

		assertDates(t, ruleMovements(t, f.db, rule.ID),
			testutil.Date(2024, 1, 31), testutil.Date(2024, 2, 28), testutil.Date(2024, 3, 31), testutil.Date(2024, 4, 30))
	})

	t.Run("end_before_start", func(t *testing.T) {
		f := newRecurringFixture(t)

		_, err := f.svc.CreateRule(f.family.ID, f.user.ID,
			rentRule(testutil.Date(2024, 5, 1), testutil.Date(2024, 4, 1)))
		testutil.AssertAppError(t, err, "INVALID_RANGE")

		var count int64
		f.db.Model(&models.RecurringExpense{}).Count(&count)
		if count != 0 {
			t.Errorf("expected no rule persisted, got %d", count)
		}
	})

	t.Run("invalid_input", func(t *testing.T) {
		f := newRecurringFixture(t)
		base := rentRule(testutil.Date(2024, 1, 1), testutil.Date(2024, 2, 1))

		cases := map[string]func(in *RuleInput){
			"zero_amount":    func(in *RuleInput) { in.Amount = decimal.Zero },
			"negative":       func(in *RuleInput) { in.Amount = decimal.NewFromInt(-5) },
			"day_32":         func(in *RuleInput) { in.DayOfMonth = 32 },
			"month_13":       func(in *RuleInput) { in.ApplicableMonths = models.MonthSet{13} },
			"weekly":         func(in *RuleInput) { in.RecurrenceType = "weekly" },
			"blank_name":     func(in *RuleInput) { in.Name = "  " },
			"blank_category": func(in *RuleInput) { in.Category = "" },
		}
		for name, mutate := range cases {
			in := base
			mutate(&in)
			_, err := f.svc.CreateRule(f.family.ID, f.user.ID, in)
			if err == nil {
				t.Errorf("%s: expected error", name)
				continue
			}
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		}
	})
}

func TestGenerateMovements(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		f := newRecurringFixture(t)
		rule, err := f.svc.CreateRule(f.family.ID, f.user.ID,
			rentRule(testutil.Date(2024, 1, 15), testutil.Date(2024, 6, 15)))
		testutil.AssertNoError(t, err)

		n, err := f.svc.GenerateMovements(f.family.ID, rule.ID)
		testutil.AssertNoError(t, err)
		if n != 0 {
			t.Errorf("expected no new movements, got %d", n)
		}
		if got := len(ruleMovements(t, f.db, rule.ID)); got != 6 {
			t.Errorf("expected 6 movements, got %d", got)
		}
	})

	t.Run("fills_missing_month", func(t *testing.T) {
		f := newRecurringFixture(t)
		rule, err := f.svc.CreateRule(f.family.ID, f.user.ID,
			rentRule(testutil.Date(2024, 1, 15), testutil.Date(2024, 3, 15)))
		testutil.AssertNoError(t, err)

		movements := ruleMovements(t, f.db, rule.ID)
		f.db.Delete(&movements[1])

		n, err := f.svc.GenerateMovements(f.family.ID, rule.ID)
		testutil.AssertNoError(t, err)
		if n != 1 {
			t.Errorf("expected 1 movement regenerated, got %d", n)
		}
	})

	t.Run("unknown_rule", func(t *testing.T) {
		f := newRecurringFixture(t)
		_, err := f.svc.GenerateMovements(f.family.ID, "missing")
		testutil.AssertAppError(t, err, "RULE_NOT_FOUND")
	})
}

func TestUpdateRule(t *testing.T) {
	t.Run("regenerates_unconfirmed_and_keeps_confirmed", func(t *testing.T) {
		f := newRecurringFixture(t)
		rule, err := f.svc.CreateRule(f.family.ID, f.user.ID,
			rentRule(testutil.Date(2024, 1, 15), testutil.Date(2024, 3, 15)))
		testutil.AssertNoError(t, err)

		feb := ruleMovements(t, f.db, rule.ID)[1]
		_, err = f.svc.ConfirmMovement(f.family.ID, feb.ID)
		testutil.AssertNoError(t, err)

		in := rentRule(testutil.Date(2024, 1, 15), testutil.Date(2024, 3, 15))
		in.Amount = decimal.NewFromInt(200)
		in.DayOfMonth = 20
		updated, err := f.svc.UpdateRule(f.family.ID, rule.ID, in)
		testutil.AssertNoError(t, err)
		if !updated.Amount.Equal(decimal.NewFromInt(200)) {
			t.Errorf("expected rule amount 200, got %s", updated.Amount)
		}

		movements := ruleMovements(t, f.db, rule.ID)
		assertDates(t, movements, testutil.Date(2024, 1, 20), testutil.Date(2024, 2, 15), testutil.Date(2024, 3, 20))

		if movements[1].ID != feb.ID || !movements[1].IsConfirmed || !movements[1].Amount.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected confirmed February movement to be untouched, got %+v", movements[1])
		}
		for _, i := range []int{0, 2} {
			if !movements[i].Amount.Equal(decimal.NewFromInt(200)) || movements[i].IsConfirmed {
				t.Errorf("expected regenerated movement with amount 200, got %+v", movements[i])
			}
		}
	})

	t.Run("shrinking_range_drops_months", func(t *testing.T) {
		f := newRecurringFixture(t)
		rule, err := f.svc.CreateRule(f.family.ID, f.user.ID,
			rentRule(testutil.Date(2024, 1, 15), testutil.Date(2024, 6, 15)))
		testutil.AssertNoError(t, err)

		_, err = f.svc.UpdateRule(f.family.ID, rule.ID,
			rentRule(testutil.Date(2024, 1, 15), testutil.Date(2024, 2, 15)))
		testutil.AssertNoError(t, err)

		assertDates(t, ruleMovements(t, f.db, rule.ID), testutil.Date(2024, 1, 15), testutil.Date(2024, 2, 15))
	})

	t.Run("clears_applicable_months", func(t *testing.T) {
		f := newRecurringFixture(t)
		in := rentRule(testutil.Date(2024, 1, 15), testutil.Date(2024, 3, 15))
		in.ApplicableMonths = models.MonthSet{2}
		rule, err := f.svc.CreateRule(f.family.ID, f.user.ID, in)
		testutil.AssertNoError(t, err)

		in.ApplicableMonths = nil
		updated, err := f.svc.UpdateRule(f.family.ID, rule.ID, in)
		testutil.AssertNoError(t, err)
		if updated.ApplicableMonths != nil {
			t.Errorf("expected applicable months cleared, got %v", updated.ApplicableMonths)
		}
		if got := len(ruleMovements(t, f.db, rule.ID)); got != 3 {
			t.Errorf("expected 3 movements, got %d", got)
		}
	})

	t.Run("other_family", func(t *testing.T) {
		f := newRecurringFixture(t)
		rule, err := f.svc.CreateRule(f.family.ID, f.user.ID,
			rentRule(testutil.Date(2024, 1, 15), testutil.Date(2024, 2, 15)))
		testutil.AssertNoError(t, err)

		other := testutil.CreateTestFamily(t, f.db)
		_, err = f.svc.UpdateRule(other.ID, rule.ID, rentRule(testutil.Date(2024, 1, 15), testutil.Date(2024, 2, 15)))
		testutil.AssertAppError(t, err, "RULE_NOT_FOUND")
	})

	t.Run("invalid_range_changes_nothing", func(t *testing.T) {
		f := newRecurringFixture(t)
		rule, err := f.svc.CreateRule(f.family.ID, f.user.ID,
			rentRule(testutil.Date(2024, 1, 15), testutil.Date(2024, 2, 15)))
		testutil.AssertNoError(t, err)

		_, err = f.svc.UpdateRule(f.family.ID, rule.ID, rentRule(testutil.Date(2024, 3, 1), testutil.Date(2024, 2, 1)))
		testutil.AssertAppError(t, err, "INVALID_RANGE")

		if got := len(ruleMovements(t, f.db, rule.ID)); got != 2 {
			t.Errorf("expected movements untouched, got %d", got)
		}
	})
}

func TestDeleteRule(t *testing.T) {
	f := newRecurringFixture(t)
	rule, err := f.svc.CreateRule(f.family.ID, f.user.ID,
		rentRule(testutil.Date(2024, 1, 15), testutil.Date(2024, 3, 15)))
	testutil.AssertNoError(t, err)

	jan := ruleMovements(t, f.db, rule.ID)[0]
	_, err = f.svc.ConfirmMovement(f.family.ID, jan.ID)
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, f.svc.DeleteRule(f.family.ID, rule.ID))

	var stored models.RecurringExpense
	if err := f.db.First(&stored, "id = ?", rule.ID).Error; err != nil {
		t.Fatalf("expected rule row to remain: %v", err)
	}
	if stored.IsActive {
		t.Error("expected rule to be inactive")
	}

	movements := ruleMovements(t, f.db, rule.ID)
	if len(movements) != 1 || movements[0].ID != jan.ID {
		t.Errorf("expected only the confirmed movement to remain, got %d", len(movements))
	}

	t.Run("twice", func(t *testing.T) {
		testutil.AssertAppError(t, f.svc.DeleteRule(f.family.ID, rule.ID), "RULE_NOT_FOUND")
	})

	t.Run("hidden_from_list", func(t *testing.T) {
		rules, err := f.svc.GetRules(f.family.ID, nil)
		testutil.AssertNoError(t, err)
		if len(rules) != 0 {
			t.Errorf("expected no active rules, got %d", len(rules))
		}
	})
}

func TestConfirmMovement(t *testing.T) {
	f := newRecurringFixture(t)
	rule, err := f.svc.CreateRule(f.family.ID, f.user.ID,
		rentRule(testutil.Date(2024, 1, 15), testutil.Date(2024, 1, 15)))
	testutil.AssertNoError(t, err)
	generated := ruleMovements(t, f.db, rule.ID)[0]

	t.Run("marks_actual", func(t *testing.T) {
		m, err := f.svc.ConfirmMovement(f.family.ID, generated.ID)
		testutil.AssertNoError(t, err)
		if !m.IsConfirmed || m.IsPlanned {
			t.Errorf("expected confirmed actual movement, got confirmed=%v planned=%v", m.IsConfirmed, m.IsPlanned)
		}

		var stored models.Movement
		testutil.AssertNoError(t, f.db.First(&stored, "id = ?", generated.ID).Error)
		if !stored.IsConfirmed || stored.IsPlanned {
			t.Error("expected confirmation to be persisted")
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		_, err := f.svc.ConfirmMovement(f.family.ID, generated.ID)
		testutil.AssertNoError(t, err)
	})

	t.Run("manual_movement", func(t *testing.T) {
		manual := testutil.CreateTestMovement(t, f.db, f.family.ID, f.user.ID, models.MovementTypeExpense, "10", "Food",
			testutil.Date(2024, 1, 3))
		_, err := f.svc.ConfirmMovement(f.family.ID, manual.ID)
		testutil.AssertAppError(t, err, "MOVEMENT_NOT_RECURRING")
	})

	t.Run("other_family", func(t *testing.T) {
		other := testutil.CreateTestFamily(t, f.db)
		_, err := f.svc.ConfirmMovement(other.ID, generated.ID)
		testutil.AssertAppError(t, err, "MOVEMENT_NOT_FOUND")
	})

	t.Run("missing", func(t *testing.T) {
		_, err := f.svc.ConfirmMovement(f.family.ID, "nope")
		testutil.AssertAppError(t, err, "MOVEMENT_NOT_FOUND")
	})
}

func TestGetRules(t *testing.T) {
	f := newRecurringFixture(t)
	other := testutil.CreateTestUser(t, f.db, f.family.ID)

	_, err := f.svc.CreateRule(f.family.ID, f.user.ID, rentRule(testutil.Date(2024, 1, 15), testutil.Date(2024, 1, 15)))
	testutil.AssertNoError(t, err)
	in := rentRule(testutil.Date(2024, 1, 15), testutil.Date(2024, 1, 15))
	in.Name = "Internet"
	_, err = f.svc.CreateRule(f.family.ID, other.ID, in)
	testutil.AssertNoError(t, err)

	all, err := f.svc.GetRules(f.family.ID, nil)
	testutil.AssertNoError(t, err)
	if len(all) != 2 {
		t.Errorf("expected 2 family rules, got %d", len(all))
	}

	mine, err := f.svc.GetRules(f.family.ID, &f.user.ID)
	testutil.AssertNoError(t, err)
	if len(mine) != 1 || mine[0].Name != "Rent" {
		t.Errorf("expected only the caller's rule, got %+v", mine)
	}

	foreign, err := f.svc.GetRules(testutil.CreateTestFamily(t, f.db).ID, nil)
	testutil.AssertNoError(t, err)
	if len(foreign) != 0 {
		t.Errorf("expected no rules for another family, got %d", len(foreign))
	}
}

// failMovementInserts makes every subsequent insert into movements fail.
func failMovementInserts(t *testing.T, db *gorm.DB) {
	t.Helper()
	err := db.Callback().Create().Before("gorm:create").Register("test:fail_movement_inserts", func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == "movements" {
			_ = tx.AddError(errors.New("insert rejected"))
		}
	})
	if err != nil {
		t.Fatalf("failed to register callback: %v", err)
	}
}

func TestRuleWritesRollBack(t *testing.T) {
	t.Run("create_leaves_no_rule_or_movements", func(t *testing.T) {
		f := newRecurringFixture(t)
		failMovementInserts(t, f.db)

		rule, err := f.svc.CreateRule(f.family.ID, f.user.ID,
			rentRule(testutil.Date(2024, 1, 15), testutil.Date(2024, 3, 15)))
		testutil.AssertAppError(t, err, "INTERNAL_ERROR")
		if rule != nil {
			t.Errorf("expected no rule on failure, got %+v", rule)
		}

		var rules, movements int64
		testutil.AssertNoError(t, f.db.Model(&models.RecurringExpense{}).Count(&rules).Error)
		testutil.AssertNoError(t, f.db.Model(&models.Movement{}).Count(&movements).Error)
		if rules != 0 || movements != 0 {
			t.Errorf("expected nothing persisted, got %d rules and %d movements", rules, movements)
		}
	})

	t.Run("update_keeps_previous_rule_and_movements", func(t *testing.T) {
		f := newRecurringFixture(t)
		rule, err := f.svc.CreateRule(f.family.ID, f.user.ID,
			rentRule(testutil.Date(2024, 1, 15), testutil.Date(2024, 3, 15)))
		testutil.AssertNoError(t, err)
		before := ruleMovements(t, f.db, rule.ID)

		failMovementInserts(t, f.db)
		in := rentRule(testutil.Date(2024, 1, 15), testutil.Date(2024, 3, 15))
		in.Amount = decimal.NewFromInt(250)
		in.DayOfMonth = 20
		_, err = f.svc.UpdateRule(f.family.ID, rule.ID, in)
		testutil.AssertAppError(t, err, "INTERNAL_ERROR")

		var stored models.RecurringExpense
		testutil.AssertNoError(t, f.db.First(&stored, "id = ?", rule.ID).Error)
		if !stored.Amount.Equal(decimal.NewFromInt(100)) || stored.DayOfMonth != 15 {
			t.Errorf("expected rule fields unchanged, got amount=%s day=%d", stored.Amount, stored.DayOfMonth)
		}

		after := ruleMovements(t, f.db, rule.ID)
		assertDates(t, after, testutil.Date(2024, 1, 15), testutil.Date(2024, 2, 15), testutil.Date(2024, 3, 15))
		for i, m := range after {
			if m.ID != before[i].ID || m.IsConfirmed || !m.Amount.Equal(decimal.NewFromInt(100)) {
				t.Errorf("expected original unconfirmed movement %s, got %+v", before[i].ID, m)
			}
		}
	})
}
