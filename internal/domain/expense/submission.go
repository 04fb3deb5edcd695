package expense

import (
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MaxReceiptBytes   = 5 * 1024 * 1024
	MinDescriptionLen = 10
	MaxDescriptionLen = 500
)

// EarliestDate is the inclusive lower bound for an expense date.
var EarliestDate = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// Currencies is the fixed set offered by the form, in display order.
var Currencies = []string{"USD", "EUR", "GBP", "INR", "CAD", "AUD"}

var allowedReceiptTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/jpg":       {},
	"image/png":       {},
	"image/webp":      {},
	"application/pdf": {},
}

// Receipt describes the uploaded file as received, before any byte is
// forwarded to the backend.
type Receipt struct {
	Filename    string
	ContentType string
	Size        int64
}

// Form holds the raw field values exactly as the browser sent them, so a
// failed validation can re-render the form without losing input.
type Form struct {
	Amount      string
	Currency    string
	Description string
	Date        string
	Receipt     Receipt
}

// Submission is a validated form, typed and ready for transmission.
type Submission struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
	Date        time.Time
	Receipt     Receipt
}

// Issue is a field-scoped validation failure. Issues keep field order; the
// first one is what the user sees.
type Issue struct {
	Field  string
	Reason string
}

// Validate checks every field in form order and returns the typed submission
// together with any issues. No network activity happens here; a non-empty
// issue list blocks transmission entirely.
func (f Form) Validate(now time.Time) (Submission, []Issue) {
	var issues []Issue
	sub := Submission{Currency: f.Currency, Description: f.Description, Receipt: f.Receipt}

	if f.Amount == "" {
		issues = append(issues, Issue{Field: "amount", Reason: "Amount is required"})
	} else if amount, err := decimal.NewFromString(f.Amount); err != nil || amount.Sign() <= 0 {
		issues = append(issues, Issue{Field: "amount", Reason: "Amount must be a positive number"})
	} else {
		sub.Amount = amount
	}

	if f.Currency == "" {
		issues = append(issues, Issue{Field: "currency", Reason: "Currency is required"})
	} else if !validCurrency(f.Currency) {
		issues = append(issues, Issue{Field: "currency", Reason: "Currency must be one of the supported currencies"})
	}

	switch length := utf8.RuneCountInString(f.Description); {
	case length < MinDescriptionLen:
		issues = append(issues, Issue{Field: "description", Reason: "Description must be at least 10 characters"})
	case length > MaxDescriptionLen:
		issues = append(issues, Issue{Field: "description", Reason: "Description must be less than 500 characters"})
	}

	if f.Date == "" {
		issues = append(issues, Issue{Field: "date", Reason: "Expense date is required"})
	} else if date, err := parseDate(f.Date); err != nil {
		issues = append(issues, Issue{Field: "date", Reason: "Expense date must be a valid date"})
	} else if date.Before(EarliestDate) || date.After(dateOnly(now)) {
		issues = append(issues, Issue{Field: "date", Reason: "Expense date must be between 2020-01-01 and today"})
	} else {
		sub.Date = date
	}

	switch {
	case f.Receipt.Size == 0:
		issues = append(issues, Issue{Field: "receipt", Reason: "Please upload a receipt"})
	case f.Receipt.Size > MaxReceiptBytes:
		issues = append(issues, Issue{Field: "receipt", Reason: "File size must be less than 5MB"})
	case !AllowedReceiptType(f.Receipt.ContentType):
		issues = append(issues, Issue{Field: "receipt", Reason: "Only JPG, PNG, WEBP, and PDF files are allowed"})
	}

	if len(issues) > 0 {
		return Submission{}, issues
	}
	return sub, nil
}

// AllowedReceiptType reports whether the MIME type is on the receipt
// allow-list.
func AllowedReceiptType(contentType string) bool {
	_, ok := allowedReceiptTypes[contentType]
	return ok
}

func validCurrency(code string) bool {
	for _, candidate := range Currencies {
		if code == candidate {
			return true
		}
	}
	return false
}

// parseDate accepts RFC3339 or YYYY-MM-DD and normalizes to a UTC date.
func parseDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return dateOnly(parsed), nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	return dateOnly(parsed), nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
