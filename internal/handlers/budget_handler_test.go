package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "spesecasa/internal/errors"
	"spesecasa/internal/models"
	"spesecasa/internal/services"
)

// --- mock budget service ---

type mockBudgetService struct {
	upsertBudgetFn     func(familyID string, in services.BudgetInput) (*models.Budget, bool, error)
	getFamilyBudgetsFn func(familyID string) ([]models.Budget, error)
	getBudgetByIDFn    func(familyID, budgetID string) (*models.Budget, error)
	deleteBudgetFn     func(familyID, budgetID string) error
}

func (m *mockBudgetService) UpsertBudget(familyID string, in services.BudgetInput) (*models.Budget, bool, error) {
	if m.upsertBudgetFn != nil {
		return m.upsertBudgetFn(familyID, in)
	}
	return &models.Budget{}, true, nil
}

func (m *mockBudgetService) GetFamilyBudgets(familyID string) ([]models.Budget, error) {
	if m.getFamilyBudgetsFn != nil {
		return m.getFamilyBudgetsFn(familyID)
	}
	return []models.Budget{}, nil
}

func (m *mockBudgetService) GetBudgetByID(familyID, budgetID string) (*models.Budget, error) {
	if m.getBudgetByIDFn != nil {
		return m.getBudgetByIDFn(familyID, budgetID)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) DeleteBudget(familyID, budgetID string) error {
	if m.deleteBudgetFn != nil {
		return m.deleteBudgetFn(familyID, budgetID)
	}
	return nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

func setupBudgetRouter(handler *BudgetHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectCaller(testUserID, testFamilyID))
	auth.GET("/budgets", handler.GetBudgets)
	auth.POST("/budgets", handler.UpsertBudget)
	auth.GET("/budgets/:id", handler.GetBudget)
	auth.DELETE("/budgets/:id", handler.DeleteBudget)
	return r
}

func TestBudgetHandler_UpsertBudget(t *testing.T) {
	upsert := func(created bool) *mockBudgetService {
		return &mockBudgetService{
			upsertBudgetFn: func(familyID string, in services.BudgetInput) (*models.Budget, bool, error) {
				return &models.Budget{
					Base: models.Base{ID: "b1"}, FamilyID: familyID, Category: in.Category,
					Amount: in.Amount, ApplicableMonths: in.ApplicableMonths,
				}, created, nil
			},
		}
	}

	t.Run("returns 201 when created", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupBudgetRouter(NewBudgetHandler(upsert(true), audit))

		rec := doRequest(r, "POST", "/budgets", `{"category":"Food","amount":"300","applicable_months":[6,7,8]}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		budget := parseJSON(t, rec)["budget"].(map[string]interface{})
		if months := budget["applicable_months"].([]interface{}); len(months) != 3 {
			t.Errorf("expected 3 months, got %v", months)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "SET_BUDGET" {
			t.Errorf("unexpected audit %+v", audit.entries)
		}
	})

	t.Run("returns 200 when replaced", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(upsert(false), &mockAuditService{}))

		rec := doRequest(r, "POST", "/budgets", `{"category":"Food","amount":"350"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		budget := parseJSON(t, rec)["budget"].(map[string]interface{})
		if budget["amount"] != "350" {
			t.Errorf("expected amount \"350\", got %v", budget["amount"])
		}
	})

	t.Run("returns 400 on invalid month", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(upsert(true), &mockAuditService{}))

		rec := doRequest(r, "POST", "/budgets", `{"category":"Food","amount":"300","applicable_months":[13]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("passes negative amounts to the service", func(t *testing.T) {
		var got decimal.Decimal
		svc := &mockBudgetService{
			upsertBudgetFn: func(_ string, in services.BudgetInput) (*models.Budget, bool, error) {
				got = in.Amount
				return nil, false, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/budgets", `{"category":"Food","amount":"-5"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if !got.Equal(decimal.NewFromInt(-5)) {
			t.Errorf("expected -5, got %s", got)
		}
	})
}

func TestBudgetHandler_GetAndDelete(t *testing.T) {
	t.Run("get returns 404 for another family", func(t *testing.T) {
		svc := &mockBudgetService{
			getBudgetByIDFn: func(_, _ string) (*models.Budget, error) { return nil, apperrors.ErrBudgetNotFound },
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/budgets/b9", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_NOT_FOUND")
	})

	t.Run("list wraps budgets", func(t *testing.T) {
		svc := &mockBudgetService{
			getFamilyBudgetsFn: func(string) ([]models.Budget, error) {
				return []models.Budget{{Category: "Food"}}, nil
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/budgets", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := parseJSON(t, rec)["budgets"].([]interface{}); len(got) != 1 {
			t.Errorf("expected 1 budget, got %d", len(got))
		}
	})

	t.Run("delete audits", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, audit))

		rec := doRequest(r, "DELETE", "/budgets/b1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "DELETE_BUDGET" {
			t.Errorf("unexpected audit %+v", audit.entries)
		}
	})
}
