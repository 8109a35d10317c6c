package integration

import (
	"net/http"
	"testing"
)

// movementDates maps YYYY-MM-DD to the movement with that date.
func movementDates(t *testing.T, movements []interface{}) map[string]map[string]interface{} {
	t.Helper()
	byDate := make(map[string]map[string]interface{}, len(movements))
	for _, raw := range movements {
		m := raw.(map[string]interface{})
		byDate[m["date"].(string)[:10]] = m
	}
	return byDate
}

func TestRecurringFlow_GenerateConfirmUpdateDelete(t *testing.T) {
	app := setupApp(t)
	token, _ := app.familyMember(t)

	// Step 1: a rule on the 31st, January to April
	result := app.mustRequest(t, "POST", "/api/v1/recurring", `{
		"name":"Rent","amount":"800","category":"Housing","description":"Flat",
		"day_of_month":31,"start_date":"2024-01-31","end_date":"2024-04-30"
	}`, token, http.StatusCreated)
	ruleID := result["recurring_expense"].(map[string]interface{})["id"].(string)

	movements := app.movements(t, token, "")
	if len(movements) != 4 {
		t.Fatalf("expected 4 planned movements, got %d", len(movements))
	}
	byDate := movementDates(t, movements)
	for _, date := range []string{"2024-01-31", "2024-02-28", "2024-03-31", "2024-04-30"} {
		m, ok := byDate[date]
		if !ok {
			t.Fatalf("missing movement on %s, got %v", date, byDate)
		}
		if m["is_planned"] != true || m["is_confirmed"] != false {
			t.Errorf("%s: expected planned and unconfirmed, got %v", date, m)
		}
		if m["description"] != "[Recurring] Rent - Flat" {
			t.Errorf("%s: unexpected description %v", date, m["description"])
		}
	}

	// Step 2: generating again adds nothing
	result = app.mustRequest(t, "POST", "/api/v1/recurring/"+ruleID+"/generate", "", token, http.StatusOK)
	if created := result["created"].(float64); created != 0 {
		t.Errorf("expected no new movements, got %v", created)
	}

	// Step 3: confirm February
	feb := byDate["2024-02-28"]["id"].(string)
	result = app.mustRequest(t, "POST", "/api/v1/movements/"+feb+"/confirm", "", token, http.StatusOK)
	confirmed := result["movement"].(map[string]interface{})
	if confirmed["is_confirmed"] != true || confirmed["is_planned"] != false {
		t.Fatalf("unexpected confirmed movement %v", confirmed)
	}

	// Step 4: raising the rent regenerates only the unconfirmed months
	app.mustRequest(t, "PUT", "/api/v1/recurring/"+ruleID, `{
		"name":"Rent","amount":"850","category":"Housing",
		"day_of_month":31,"start_date":"2024-01-31","end_date":"2024-04-30"
	}`, token, http.StatusOK)

	byDate = movementDates(t, app.movements(t, token, ""))
	if len(byDate) != 4 {
		t.Fatalf("expected 4 movements after update, got %d", len(byDate))
	}
	if byDate["2024-02-28"]["amount"] != "800" {
		t.Errorf("confirmed movement changed: %v", byDate["2024-02-28"])
	}
	if byDate["2024-03-31"]["amount"] != "850" {
		t.Errorf("expected regenerated amount 850, got %v", byDate["2024-03-31"]["amount"])
	}

	// Step 5: actual movements only
	actual := app.movements(t, token, "&include_planned=false")
	if len(actual) != 1 {
		t.Errorf("expected 1 actual movement, got %d", len(actual))
	}

	// Step 6: deleting the rule keeps the confirmed history
	app.mustRequest(t, "DELETE", "/api/v1/recurring/"+ruleID, "", token, http.StatusOK)

	remaining := app.movements(t, token, "")
	if len(remaining) != 1 || remaining[0].(map[string]interface{})["id"] != feb {
		t.Fatalf("expected only the confirmed movement, got %v", remaining)
	}
	result = app.mustRequest(t, "GET", "/api/v1/recurring", "", token, http.StatusOK)
	if rules := result["recurring_expenses"].([]interface{}); len(rules) != 0 {
		t.Errorf("expected no active rules, got %d", len(rules))
	}
}

func TestRecurringFlow_Validation(t *testing.T) {
	app := setupApp(t)
	token, _ := app.familyMember(t)

	rec := app.request("POST", "/api/v1/recurring",
		`{"name":"Gym","amount":"30","category":"Sport","start_date":"2024-06-01","end_date":"2024-01-01"}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if code := errorCode(parseJSON(t, rec)); code != "INVALID_RANGE" {
		t.Errorf("expected INVALID_RANGE, got %s", code)
	}
	if n := len(app.movements(t, token, "")); n != 0 {
		t.Errorf("expected nothing written, got %d movements", n)
	}
}

func TestRecurringFlow_ApplicableMonthsAndDefaults(t *testing.T) {
	app := setupApp(t)
	token, _ := app.familyMember(t)

	// No dates: today (2024-03-15) for one year. Only summer months apply.
	app.mustRequest(t, "POST", "/api/v1/recurring",
		`{"name":"Pool","amount":"40","category":"Leisure","day_of_month":10,"applicable_months":[6,7,8]}`,
		token, http.StatusCreated)

	byDate := movementDates(t, app.movements(t, token, ""))
	if len(byDate) != 3 {
		t.Fatalf("expected 3 movements, got %v", byDate)
	}
	for _, date := range []string{"2024-06-10", "2024-07-10", "2024-08-10"} {
		if _, ok := byDate[date]; !ok {
			t.Errorf("missing %s in %v", date, byDate)
		}
	}
}

func TestRecurringFlow_TenantIsolation(t *testing.T) {
	app := setupApp(t)
	owner, _ := app.familyMember(t)
	stranger, _ := app.familyMember(t)

	result := app.mustRequest(t, "POST", "/api/v1/recurring",
		`{"name":"Rent","amount":"800","category":"Housing","start_date":"2024-01-01","end_date":"2024-02-01"}`,
		owner, http.StatusCreated)
	ruleID := result["recurring_expense"].(map[string]interface{})["id"].(string)
	movementID := app.movements(t, owner, "")[0].(map[string]interface{})["id"].(string)

	for _, call := range []struct{ method, path string }{
		{"GET", "/api/v1/recurring/" + ruleID},
		{"DELETE", "/api/v1/recurring/" + ruleID},
		{"POST", "/api/v1/movements/" + movementID + "/confirm"},
		{"GET", "/api/v1/movements/" + movementID},
	} {
		if rec := app.request(call.method, call.path, "", stranger); rec.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", call.method, call.path, rec.Code)
		}
	}
	if n := len(app.movements(t, stranger, "")); n != 0 {
		t.Errorf("stranger sees %d movements", n)
	}
}
