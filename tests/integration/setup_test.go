package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"spesecasa/internal/clock"
	"spesecasa/internal/config"
	"spesecasa/internal/handlers"
	"spesecasa/internal/logger"
	"spesecasa/internal/mail"
	"spesecasa/internal/middleware"
	"spesecasa/internal/models"
	"spesecasa/internal/secrets"
	"spesecasa/internal/services"
	"spesecasa/internal/testutil"
	"spesecasa/internal/validator"
)

// today is the pinned date every test app runs on.
var today = clock.Fixed(time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC))

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Mail   *outbox
}

// outbox records the mails the app would have sent.
type outbox struct {
	mu       sync.Mutex
	messages []mail.Message
}

func (o *outbox) Send(_ mail.Server, msg mail.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, msg)
	return nil
}

func (o *outbox) last(t *testing.T) mail.Message {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.messages) == 0 {
		t.Fatal("expected a mail to be sent")
	}
	return o.messages[len(o.messages)-1]
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	cfg := &config.Config{
		JWTSecret:        "integration-secret",
		JWTExpirationDur: time.Hour,
		FrontendURL:      "http://app.test",
	}
	box, err := secrets.NewEphemeralBox()
	if err != nil {
		t.Fatalf("failed to create secret box: %v", err)
	}
	sent := &outbox{}

	// Services
	userService := services.NewUserService(db)
	movementService := services.NewMovementService(db)
	recurringService := services.NewRecurringService(db, today)
	dashboardService := services.NewDashboardService(db, today)
	smtpService := services.NewSMTPConfigService(db, box, sent)
	resetService := services.NewPasswordResetService(db, userService, smtpService, cfg)
	auditService := services.NewAuditService(db)
	tokens := middleware.NewTokenIssuer(cfg)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	handlers.RegisterRoutes(router.Group("/api/v1"), handlers.Set{
		Auth:      handlers.NewAuthHandler(userService, resetService, auditService, tokens),
		Families:  handlers.NewFamilyHandler(services.NewFamilyService(db), auditService),
		Users:     handlers.NewUserHandler(userService, auditService),
		Config:    handlers.NewConfigHandler(smtpService, auditService),
		Category:  handlers.NewCategoryHandler(services.NewCategoryService(db), auditService),
		Movement:  handlers.NewMovementHandler(movementService, recurringService, dashboardService, auditService),
		Recurring: handlers.NewRecurringHandler(recurringService, auditService),
		Budget:    handlers.NewBudgetHandler(services.NewBudgetService(db), auditService),
		Goal:      handlers.NewGoalHandler(services.NewGoalService(db), auditService),
		Dashboard: handlers.NewDashboardHandler(dashboardService, today),
		Search:    handlers.NewSearchHandler(services.NewSearchService(db)),
	}, tokens)

	return &testApp{DB: db, Router: router, Mail: sent}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// mustRequest is request plus a status check.
func (app *testApp) mustRequest(t *testing.T, method, path, body, token string, want int) map[string]interface{} {
	t.Helper()
	rec := app.request(method, path, body, token)
	if rec.Code != want {
		t.Fatalf("%s %s: expected %d, got %d: %s", method, path, want, rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func errorCode(result map[string]interface{}) string {
	errObj, _ := result["error"].(map[string]interface{})
	code, _ := errObj["code"].(string)
	return code
}

// login logs in and returns the access token.
func (app *testApp) login(t *testing.T, username, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	result := app.mustRequest(t, "POST", "/api/v1/auth/login", body, "", http.StatusOK)
	return result["access_token"].(string)
}

// familyMember creates a family with one member and returns the member's
// token.
func (app *testApp) familyMember(t *testing.T) (token string, user *models.User) {
	t.Helper()
	family := testutil.CreateTestFamily(t, app.DB)
	user = testutil.CreateTestUser(t, app.DB, family.ID)
	return app.login(t, user.Username, testutil.TestPassword), user
}

// movements lists every movement visible to token, newest first.
func (app *testApp) movements(t *testing.T, token, query string) []interface{} {
	t.Helper()
	result := app.mustRequest(t, "GET", "/api/v1/movements?page_size=100"+query, "", token, http.StatusOK)
	return result["data"].([]interface{})
}
