// Package docs registers the OpenAPI document served by the swagger UI.
// Regenerate with `swag init -g cmd/api/main.go -o internal/docs`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in", "responses": {"200": {"description": "Access token"}, "401": {"description": "Invalid credentials"}}}},
        "/auth/profile": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Current user", "responses": {"200": {"description": "User"}}}},
        "/auth/forgot-password": {"post": {"tags": ["auth"], "summary": "Request a password reset mail", "responses": {"200": {"description": "Always the same answer"}}}},
        "/auth/reset-password": {"post": {"tags": ["auth"], "summary": "Reset password with a token", "responses": {"200": {"description": "Password changed"}, "400": {"description": "Invalid or expired token"}}}},
        "/auth/change-password": {"post": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Change password", "responses": {"200": {"description": "Password changed"}}}},
        "/auth/password-strength": {"post": {"tags": ["auth"], "summary": "Score a password", "responses": {"200": {"description": "Score and feedback"}}}},
        "/families": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["families"], "summary": "List families", "responses": {"200": {"description": "Paginated families"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["families"], "summary": "Create a family", "responses": {"201": {"description": "Family created"}}}
        },
        "/families/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["families"], "summary": "Get family", "responses": {"200": {"description": "Family with members"}}}},
        "/users": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "List users", "responses": {"200": {"description": "Paginated users"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Create a user", "responses": {"201": {"description": "User created"}}}
        },
        "/config/smtp": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["config"], "summary": "Get SMTP settings", "responses": {"200": {"description": "Settings"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["config"], "summary": "Save SMTP settings", "responses": {"200": {"description": "Saved settings"}}}
        },
        "/config/smtp/test": {"post": {"security": [{"BearerAuth": []}], "tags": ["config"], "summary": "Send SMTP test mail", "responses": {"200": {"description": "Mail sent"}}}},
        "/categories": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["categories"], "summary": "List categories", "responses": {"200": {"description": "Categories"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["categories"], "summary": "Create a category", "responses": {"201": {"description": "Category created"}}}
        },
        "/categories/{id}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["categories"], "summary": "Update category", "responses": {"200": {"description": "Updated category"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["categories"], "summary": "Delete category", "responses": {"200": {"description": "Category deleted"}}}
        },
        "/movements": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["movements"], "summary": "List movements", "responses": {"200": {"description": "Paginated movements"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["movements"], "summary": "Create a movement", "responses": {"201": {"description": "Movement created"}}}
        },
        "/movements/years": {"get": {"security": [{"BearerAuth": []}], "tags": ["movements"], "summary": "Movement years", "responses": {"200": {"description": "Years"}}}},
        "/movements/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["movements"], "summary": "Get movement", "responses": {"200": {"description": "Movement"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["movements"], "summary": "Update movement", "responses": {"200": {"description": "Updated movement"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["movements"], "summary": "Delete movement", "responses": {"200": {"description": "Movement deleted"}}}
        },
        "/movements/{id}/confirm": {"post": {"security": [{"BearerAuth": []}], "tags": ["movements"], "summary": "Confirm a planned movement", "responses": {"200": {"description": "Confirmed movement"}}}},
        "/recurring": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["recurring"], "summary": "List recurring expenses", "responses": {"200": {"description": "Active rules"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["recurring"], "summary": "Create a recurring expense", "responses": {"201": {"description": "Rule created"}}}
        },
        "/recurring/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["recurring"], "summary": "Get recurring expense", "responses": {"200": {"description": "Rule"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["recurring"], "summary": "Update recurring expense", "responses": {"200": {"description": "Updated rule"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["recurring"], "summary": "Delete recurring expense", "responses": {"200": {"description": "Rule deleted"}}}
        },
        "/recurring/{id}/generate": {"post": {"security": [{"BearerAuth": []}], "tags": ["recurring"], "summary": "Generate planned movements", "responses": {"200": {"description": "Number of created movements"}}}},
        "/budgets": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["budgets"], "summary": "List budgets", "responses": {"200": {"description": "Budgets"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["budgets"], "summary": "Set a budget", "responses": {"200": {"description": "Budget updated"}, "201": {"description": "Budget created"}}}
        },
        "/budgets/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["budgets"], "summary": "Get budget", "responses": {"200": {"description": "Budget"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["budgets"], "summary": "Delete budget", "responses": {"200": {"description": "Budget deleted"}}}
        },
        "/goals": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["goals"], "summary": "List savings goals", "responses": {"200": {"description": "Goals"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["goals"], "summary": "Create a savings goal", "responses": {"201": {"description": "Goal created"}}}
        },
        "/goals/{id}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["goals"], "summary": "Update savings goal", "responses": {"200": {"description": "Updated goal"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["goals"], "summary": "Delete savings goal", "responses": {"200": {"description": "Goal deleted"}}}
        },
        "/dashboard/summary": {"get": {"security": [{"BearerAuth": []}], "tags": ["dashboard"], "summary": "Monthly summary", "responses": {"200": {"description": "Summary"}}}},
        "/dashboard/chart-data": {"get": {"security": [{"BearerAuth": []}], "tags": ["dashboard"], "summary": "Expense breakdown", "responses": {"200": {"description": "Breakdown"}}}},
        "/dashboard/budget-status": {"get": {"security": [{"BearerAuth": []}], "tags": ["dashboard"], "summary": "Budget status", "responses": {"200": {"description": "Status per budget"}}}},
        "/dashboard/available-years": {"get": {"security": [{"BearerAuth": []}], "tags": ["dashboard"], "summary": "Available years", "responses": {"200": {"description": "Years ascending"}}}},
        "/search": {"get": {"security": [{"BearerAuth": []}], "tags": ["search"], "summary": "Global search", "responses": {"200": {"description": "Grouped results"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "SpeseCasa API",
	Description:      "Household finance tracker: movements, recurring expenses, budgets and savings goals shared by a family.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
