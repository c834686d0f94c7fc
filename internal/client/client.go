// Package client is a Go client for the dashboard API. It keeps the
// signed-in caller's profile in memory between refreshes.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	apperrors "kudi/internal/errors"
	"kudi/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const defaultTimeout = 10 * time.Second

// Client talks to one API server on behalf of one identity.
type Client struct {
	baseURL string
	timeout time.Duration

	mu      sync.RWMutex
	token   string
	profile *models.Profile
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: defaultTimeout,
	}
}

// SetToken installs an access token obtained elsewhere.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.profile = nil
}

// Login signs in with a phone number and password.
func (c *Client) Login(ctx context.Context, phone, password string) error {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	body := map[string]string{"phone": phone, "password": password}
	if err := c.do(ctx, fiber.MethodPost, "/api/login", body, &out); err != nil {
		return err
	}
	c.SetToken(out.AccessToken)
	return nil
}

// Profile returns the held profile without a network call, nil before the
// first load.
func (c *Client) Profile() *models.Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profile
}

// GetProfile returns the held profile, loading it on first use.
func (c *Client) GetProfile(ctx context.Context) (*models.Profile, error) {
	if p := c.Profile(); p != nil {
		return p, nil
	}
	return c.RefreshProfile(ctx)
}

// RefreshProfile re-reads the profile from the server and replaces the held
// copy.
func (c *Client) RefreshProfile(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := c.do(ctx, fiber.MethodGet, "/api/profile", nil, &profile); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.profile = &profile
	c.mu.Unlock()
	return &profile, nil
}

// ListRecentTransactions returns at most ten of the caller's transactions,
// newest first.
func (c *Client) ListRecentTransactions(ctx context.Context) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := c.do(ctx, fiber.MethodGet, "/api/transactions?recent=true", nil, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// CreateVerificationPayment records a pending verification fee payment and
// returns its id.
func (c *Client) CreateVerificationPayment(ctx context.Context) (uuid.UUID, error) {
	var out struct {
		ID uuid.UUID `json:"id"`
	}
	if err := c.do(ctx, fiber.MethodPost, "/api/verification-payments", nil, &out); err != nil {
		return uuid.Nil, err
	}
	return out.ID, nil
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Code  string          `json:"code"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Bytes releases the agent back to the pool.
	agent := fiber.AcquireAgent()

	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	c.mu.RLock()
	if c.token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	c.mu.RUnlock()
	if in != nil {
		agent.JSON(in)
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if until := time.Until(deadline); until < timeout {
			timeout = until
		}
	}
	agent.Timeout(timeout)

	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return apperrors.ErrDataAccess.Wrap(err)
	}
	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return apperrors.ErrDataAccess.Wrap(errs[0])
	}

	var env envelope
	if len(body) > 0 {
		if err := json.Unmarshal(body, &env); err != nil {
			return apperrors.ErrDataAccess.Wrap(fmt.Errorf("decode %s %s: %w", method, path, err))
		}
	}
	if status >= fiber.StatusBadRequest {
		return statusError(status, env)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperrors.ErrDataAccess.Wrap(fmt.Errorf("decode %s %s: %w", method, path, err))
	}
	return nil
}

var codeByStatus = map[int]string{
	fiber.StatusBadRequest:          apperrors.CodeInvalidRequest,
	fiber.StatusUnauthorized:        apperrors.CodeUnauthenticated,
	fiber.StatusForbidden:           apperrors.CodeRowLevelSecurity,
	fiber.StatusNotFound:            apperrors.CodeNotFound,
	fiber.StatusConflict:            apperrors.CodeConflict,
	fiber.StatusUnprocessableEntity: apperrors.CodeInvalidAmount,
}

func statusError(status int, env envelope) error {
	code := env.Code
	if code == "" {
		if c, ok := codeByStatus[status]; ok {
			code = c
		} else {
			code = apperrors.CodeDataAccess
		}
	}
	msg := env.Error
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", status)
	}
	return &apperrors.DomainError{Code: code, Message: msg}
}
