package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "spesecasa/internal/errors"
	"spesecasa/internal/models"
	"spesecasa/internal/services"
	"spesecasa/internal/testutil"
)

// --- mock goal service ---

type mockGoalService struct {
	createGoalFn     func(familyID string, in services.GoalInput) (*models.SavingsGoal, error)
	getFamilyGoalsFn func(familyID string) ([]models.SavingsGoal, error)
	updateGoalFn     func(familyID, goalID string, in services.GoalInput) (*models.SavingsGoal, error)
	deleteGoalFn     func(familyID, goalID string) error
}

func (m *mockGoalService) CreateGoal(familyID string, in services.GoalInput) (*models.SavingsGoal, error) {
	if m.createGoalFn != nil {
		return m.createGoalFn(familyID, in)
	}
	return &models.SavingsGoal{}, nil
}

func (m *mockGoalService) GetFamilyGoals(familyID string) ([]models.SavingsGoal, error) {
	if m.getFamilyGoalsFn != nil {
		return m.getFamilyGoalsFn(familyID)
	}
	return []models.SavingsGoal{}, nil
}

func (m *mockGoalService) UpdateGoal(familyID, goalID string, in services.GoalInput) (*models.SavingsGoal, error) {
	if m.updateGoalFn != nil {
		return m.updateGoalFn(familyID, goalID, in)
	}
	return &models.SavingsGoal{}, nil
}

func (m *mockGoalService) DeleteGoal(familyID, goalID string) error {
	if m.deleteGoalFn != nil {
		return m.deleteGoalFn(familyID, goalID)
	}
	return nil
}

var _ services.GoalServicer = (*mockGoalService)(nil)

func setupGoalRouter(handler *GoalHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectCaller(testUserID, testFamilyID))
	auth.GET("/goals", handler.GetGoals)
	auth.POST("/goals", handler.CreateGoal)
	auth.PUT("/goals/:id", handler.UpdateGoal)
	auth.DELETE("/goals/:id", handler.DeleteGoal)
	return r
}

func TestGoalHandler_CreateGoal(t *testing.T) {
	t.Run("parses deadline and amounts", func(t *testing.T) {
		var got services.GoalInput
		svc := &mockGoalService{
			createGoalFn: func(familyID string, in services.GoalInput) (*models.SavingsGoal, error) {
				got = in
				return &models.SavingsGoal{Base: models.Base{ID: "g1"}, FamilyID: familyID, Name: *in.Name, TargetAmount: *in.TargetAmount}, nil
			},
		}
		r := setupGoalRouter(NewGoalHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/goals", `{"name":"Holiday","target_amount":"2000","deadline":"2025-12-31"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.TargetAmount == nil || !got.TargetAmount.Equal(decimal.NewFromInt(2000)) {
			t.Errorf("unexpected target %v", got.TargetAmount)
		}
		if got.Deadline == nil || !got.Deadline.Equal(testutil.Date(2025, 12, 31)) {
			t.Errorf("unexpected deadline %v", got.Deadline)
		}
		if got.Color != nil || got.CurrentAmount != nil {
			t.Errorf("expected absent fields to stay nil, got %+v", got)
		}
	})

	t.Run("returns 400 on bad color", func(t *testing.T) {
		r := setupGoalRouter(NewGoalHandler(&mockGoalService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/goals", `{"name":"Holiday","target_amount":"2000","color":"#12"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestGoalHandler_UpdateGoal(t *testing.T) {
	t.Run("sends only the present fields", func(t *testing.T) {
		var got services.GoalInput
		svc := &mockGoalService{
			updateGoalFn: func(_, goalID string, in services.GoalInput) (*models.SavingsGoal, error) {
				got = in
				return &models.SavingsGoal{Base: models.Base{ID: goalID}}, nil
			},
		}
		r := setupGoalRouter(NewGoalHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/goals/g1", `{"current_amount":"150.75"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Name != nil || got.TargetAmount != nil || got.Deadline != nil {
			t.Errorf("expected untouched fields nil, got %+v", got)
		}
		if got.CurrentAmount == nil || got.CurrentAmount.String() != "150.75" {
			t.Errorf("unexpected current amount %v", got.CurrentAmount)
		}
	})

	t.Run("returns 404 for a missing goal", func(t *testing.T) {
		svc := &mockGoalService{
			updateGoalFn: func(_, _ string, _ services.GoalInput) (*models.SavingsGoal, error) {
				return nil, apperrors.ErrGoalNotFound
			},
		}
		r := setupGoalRouter(NewGoalHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/goals/g9", `{"icon":"plane"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "GOAL_NOT_FOUND")
	})
}

func TestGoalHandler_ListAndDelete(t *testing.T) {
	svc := &mockGoalService{
		getFamilyGoalsFn: func(string) ([]models.SavingsGoal, error) {
			return []models.SavingsGoal{{Name: "Car"}, {Name: "House"}}, nil
		},
	}
	audit := &mockAuditService{}
	r := setupGoalRouter(NewGoalHandler(svc, audit))

	rec := doRequest(r, "GET", "/goals", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := parseJSON(t, rec)["goals"].([]interface{}); len(got) != 2 {
		t.Errorf("expected 2 goals, got %d", len(got))
	}

	rec = doRequest(r, "DELETE", "/goals/g1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(audit.entries) != 1 || audit.entries[0].action != "DELETE_GOAL" {
		t.Errorf("unexpected audit %+v", audit.entries)
	}
}
