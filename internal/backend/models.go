package backend

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Identifiers are opaque to the dashboard. json.Number keeps us agnostic to
// whether the backend serializes them as numbers or strings.

// User is the backend's projection of an account. Only the role is ever
// mutated from this client, and always via UpdateUserRole.
type User struct {
	ID    json.Number `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  string      `json:"role"`
}

// PendingExpense is a read-only row from GET /approvals/pending. The client
// never mutates one locally; any change goes through ReviewExpense followed
// by a fresh list fetch.
type PendingExpense struct {
	ID          json.Number     `json:"id"`
	Employee    string          `json:"employee"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Date        string          `json:"date"`
	Status      string          `json:"status"`
	Description string          `json:"description"`
}

// SubmitResult is the backend's acknowledgement of a new expense.
type SubmitResult struct {
	ID json.Number `json:"id"`
}

// Review actions accepted by POST /approvals/{id}.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)
