package services

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spesecasa/internal/clock"
	apperrors "spesecasa/internal/errors"
	"spesecasa/internal/models"
)

var hundred = decimal.NewFromInt(100)

// dashboardService computes read-only aggregates over a family's movements
// and budgets.
type dashboardService struct {
	db    *gorm.DB
	clock clock.Clock
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB, clk clock.Clock) DashboardServicer {
	return &dashboardService{db: db, clock: clk}
}

// MonthlySummary sums the month's income and expense, planned or not. The
// balance ignores the month: it is all income minus all expense dated up to
// today.
func (s *dashboardService) MonthlySummary(familyID string, year, month int) (*MonthlySummary, error) {
	if err := checkPeriod(year, month); err != nil {
		return nil, err
	}

	income, err := s.sum(familyID, models.MovementTypeIncome, inMonth(year, month))
	if err != nil {
		return nil, err
	}
	expense, err := s.sum(familyID, models.MovementTypeExpense, inMonth(year, month))
	if err != nil {
		return nil, err
	}

	upToToday := func(db *gorm.DB) *gorm.DB {
		return db.Where("date <= ?", s.clock.Today())
	}
	totalIncome, err := s.sum(familyID, models.MovementTypeIncome, upToToday)
	if err != nil {
		return nil, err
	}
	totalExpense, err := s.sum(familyID, models.MovementTypeExpense, upToToday)
	if err != nil {
		return nil, err
	}

	return &MonthlySummary{
		Income:  income,
		Expense: expense,
		Balance: totalIncome.Sub(totalExpense),
		Period:  Period{Month: month, Year: year},
	}, nil
}

// CategoryBreakdown returns the month's expense per category, largest first.
func (s *dashboardService) CategoryBreakdown(familyID string, year, month int) ([]CategoryAmount, error) {
	if err := checkPeriod(year, month); err != nil {
		return nil, err
	}

	totals, err := s.sumByCategory(familyID, inMonth(year, month))
	if err != nil {
		return nil, err
	}

	breakdown := make([]CategoryAmount, 0, len(totals))
	for category, amount := range totals {
		breakdown = append(breakdown, CategoryAmount{Category: category, Amount: amount})
	}
	slices.SortFunc(breakdown, func(a, b CategoryAmount) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return breakdown, nil
}

// BudgetStatus reports, for every budget that applies to the month, how much
// of its limit is spent by actual and by planned expenses.
func (s *dashboardService) BudgetStatus(familyID string, year, month int) ([]BudgetStatus, error) {
	if err := checkPeriod(year, month); err != nil {
		return nil, err
	}

	var budgets []models.Budget
	if err := s.db.Scopes(forFamily(familyID)).Order("category ASC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	actual, err := s.sumByCategory(familyID, inMonth(year, month), plannedOnly(false))
	if err != nil {
		return nil, err
	}
	planned, err := s.sumByCategory(familyID, inMonth(year, month), plannedOnly(true))
	if err != nil {
		return nil, err
	}

	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		if !b.ApplicableMonths.Applies(month) {
			continue
		}
		spent := actual[b.Category]
		plan := planned[b.Category]
		total := spent.Add(plan)
		statuses = append(statuses, BudgetStatus{
			Category:         b.Category,
			Limit:            b.Amount,
			Spent:            spent,
			Planned:          plan,
			TotalSpent:       total,
			Remaining:        b.Amount.Sub(total),
			Percentage:       percentOf(total, b.Amount),
			ActualPercentage: percentOf(spent, b.Amount),
		})
	}
	return statuses, nil
}

// AvailableYears lists the years holding at least one movement of the
// family, plus the current year, ascending.
func (s *dashboardService) AvailableYears(familyID string) ([]int, error) {
	var dates []time.Time
	if err := s.db.Model(&models.Movement{}).
		Scopes(forFamily(familyID)).
		Distinct("date").
		Pluck("date", &dates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	seen := map[int]bool{s.clock.Today().Year(): true}
	for _, d := range dates {
		seen[d.Year()] = true
	}

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	slices.Sort(years)
	return years, nil
}

func (s *dashboardService) sum(familyID string, typ models.MovementType, scopes ...func(*gorm.DB) *gorm.DB) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := s.db.Model(&models.Movement{}).
		Scopes(forFamily(familyID)).
		Scopes(scopes...).
		Where("type = ?", typ).
		Select("SUM(amount)").
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total.Decimal.Round(2), nil
}

// sumByCategory returns expense totals per category.
func (s *dashboardService) sumByCategory(familyID string, scopes ...func(*gorm.DB) *gorm.DB) (map[string]decimal.Decimal, error) {
	rows, err := s.db.Model(&models.Movement{}).
		Scopes(forFamily(familyID)).
		Scopes(scopes...).
		Where("type = ?", models.MovementTypeExpense).
		Select("category, SUM(amount)").
		Group("category").
		Rows()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var (
			category string
			amount   decimal.NullDecimal
		)
		if err := rows.Scan(&category, &amount); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		totals[category] = amount.Decimal.Round(2)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return totals, nil
}

func plannedOnly(planned bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_planned = ?", planned)
	}
}

// percentOf returns part/whole as a percentage rounded to one decimal, or 0
// when whole is not positive.
func percentOf(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Mul(hundred).Div(whole).Round(1).InexactFloat64()
}

func checkPeriod(year, month int) error {
	if month < 1 || month > 12 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}
	if year < 2000 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be 2000 or later")
	}
	return nil
}
