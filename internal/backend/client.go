package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"expensedash/internal/domain/expense"
)

// StatusError is any non-2xx backend response. Every status outside 2xx is
// treated uniformly as a failure; the code and text travel with the error so
// the notice shown to the user carries them.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API Error: %d %s", e.Status, http.StatusText(e.Status))
}

// Client talks to the external expense backend. The base URL comes from
// configuration; this application holds no data of its own.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ListUsers fetches every user. Admin-only at the page layer; the backend is
// the real gatekeeper.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.getJSON(ctx, "/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUserRole issues the single PATCH that changes a user's role. Callers
// re-fetch the list afterwards instead of patching local state.
func (c *Client) UpdateUserRole(ctx context.Context, userID, role, updatedBy string) (User, error) {
	payload := map[string]string{"role": role, "updated_by": updatedBy}
	var updated User
	path := "/users/" + url.PathEscape(userID) + "/role"
	if err := c.doJSON(ctx, http.MethodPatch, path, payload, &updated); err != nil {
		return User{}, err
	}
	return updated, nil
}

// ListPendingApprovals fetches the expenses awaiting review.
func (c *Client) ListPendingApprovals(ctx context.Context) ([]PendingExpense, error) {
	var expenses []PendingExpense
	if err := c.getJSON(ctx, "/approvals/pending", &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// ReviewExpense approves or rejects one pending expense.
func (c *Client) ReviewExpense(ctx context.Context, expenseID, action, reviewedBy string) error {
	payload := map[string]string{"action": action, "reviewed_by": reviewedBy}
	path := "/approvals/" + url.PathEscape(expenseID)
	return c.doJSON(ctx, http.MethodPost, path, payload, nil)
}

// SubmitExpense uploads a validated submission as one multipart request:
// the scalar fields, the receipt bytes, and the submitting user's name.
func (c *Client) SubmitExpense(ctx context.Context, sub expense.Submission, receipt io.Reader, submittedBy string) (SubmitResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"amount":      sub.Amount.String(),
		"currency":    sub.Currency,
		"description": sub.Description,
		"date":        sub.Date.Format(time.RFC3339),
		"user_id":     submittedBy,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return SubmitResult{}, fmt.Errorf("write field %s: %w", name, err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="receipt"; filename=%q`, sub.Receipt.Filename))
	header.Set("Content-Type", sub.Receipt.ContentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("create receipt part: %w", err)
	}
	if _, err := io.Copy(part, receipt); err != nil {
		return SubmitResult{}, fmt.Errorf("copy receipt: %w", err)
	}
	if err := writer.Close(); err != nil {
		return SubmitResult{}, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/expenses", &body)
	if err != nil {
		return SubmitResult{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result SubmitResult
	if err := c.do(req, &result); err != nil {
		return SubmitResult{}, err
	}
	return result, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode backend response: %w", err)
	}
	return nil
}
