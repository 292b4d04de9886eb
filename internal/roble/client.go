package roble

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/SAP-F-2025/courseware-service/internal/models"
)

// Table names exposed by the Roble database API.
const (
	TableUsers       = "users"
	TableCourses     = "courses"
	TableCategories  = "categories"
	TableGroups      = "groups"
	TableEnrollments = "enrollments"
	TableMemberships = "memberships"
	TableActivities  = "activities"
	TableAssessments = "assessments"
)

// Client talks to the external Roble backend: token-based auth endpoints
// plus generic per-table CRUD with equality filters. It is the only place
// the service performs network I/O.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *slog.Logger
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// APIError is a non-2xx response from Roble with its parsed message.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("roble: %s (status %d)", e.Message, e.Status)
}

// IsUnauthorized reports whether err is a 401 from Roble, meaning the
// caller must re-authenticate.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return asAPIError(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from Roble.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return asAPIError(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// ===== AUTH =====

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User   models.User   `json:"user"`
	Tokens models.Tokens `json:"tokens"`
}

type SignupRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, "/auth/login", LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) (*models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	if err := c.post(ctx, "/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) VerifyEmail(ctx context.Context, email, code string) error {
	body := map[string]string{"email": email, "code": code}
	return c.post(ctx, "/auth/verify-email", body, nil)
}

func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*models.Tokens, error) {
	var resp struct {
		Tokens models.Tokens `json:"tokens"`
	}
	body := map[string]string{"refresh_token": refreshToken}
	if err := c.post(ctx, "/auth/refresh", body, &resp); err != nil {
		return nil, err
	}
	return &resp.Tokens, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/auth/logout", struct{}{}, nil)
}

// VerifyToken checks the bearer token carried by ctx and returns the user
// it belongs to.
func (c *Client) VerifyToken(ctx context.Context) (*models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	if err := c.post(ctx, "/auth/verify-token", struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// ===== DATABASE =====

// Filter is an equality filter over table columns. Roble supports no other
// operators and no cross-table transactions.
type Filter map[string]any

type readRequest struct {
	TableName string `json:"tableName"`
	Filter    Filter `json:"filter,omitempty"`
}

type insertRequest struct {
	TableName string `json:"tableName"`
	Record    any    `json:"record"`
}

type updateRequest struct {
	TableName string `json:"tableName"`
	ID        string `json:"id"`
	Updates   any    `json:"updates"`
}

// Read queries a table with equality filters and returns the raw records.
func (c *Client) Read(ctx context.Context, table string, filter Filter) ([]json.RawMessage, error) {
	var resp struct {
		Records []json.RawMessage `json:"records"`
	}
	if err := c.post(ctx, "/database/read", readRequest{TableName: table, Filter: filter}, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

// Insert adds one record and returns it as stored (with server-side id and
// timestamps filled in).
func (c *Client) Insert(ctx context.Context, table string, record any) (json.RawMessage, error) {
	var resp struct {
		Record json.RawMessage `json:"record"`
	}
	if err := c.post(ctx, "/database/insert", insertRequest{TableName: table, Record: record}, &resp); err != nil {
		return nil, err
	}
	return resp.Record, nil
}

// Update patches one record by id and returns the stored result.
func (c *Client) Update(ctx context.Context, table, id string, updates any) (json.RawMessage, error) {
	var resp struct {
		Record json.RawMessage `json:"record"`
	}
	if err := c.post(ctx, "/database/update", updateRequest{TableName: table, ID: id, Updates: updates}, &resp); err != nil {
		return nil, err
	}
	return resp.Record, nil
}

// DecodeRecords unmarshals raw table records into typed rows.
func DecodeRecords[T any](records []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		var row T
		if err := json.Unmarshal(rec, &row); err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
		out = append(out, row)
	}
	return out, nil
}

// DecodeRecord unmarshals a single raw record.
func DecodeRecord[T any](record json.RawMessage) (*T, error) {
	var row T
	if err := json.Unmarshal(record, &row); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return &row, nil
}

// ===== TRANSPORT =====

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token, ok := TokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("roble request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: parseErrorMessage(raw)}
		c.logger.Warn("Roble request failed",
			"path", path,
			"status", resp.StatusCode,
			"message", apiErr.Message)
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseErrorMessage extracts the message field from an error body, falling
// back to a generic string when the body is not the expected shape.
func parseErrorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return "request failed"
}
