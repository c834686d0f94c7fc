package utils

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	apperrors "kudi/internal/errors"
	"kudi/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("REFRESH_SECRET", "refresh-secret")
	id := uuid.New()

	access, refresh, err := GenerateTokens(&models.UserClaims{IdentityID: id, Phone: "+2348000000000", TokenVersion: 3})
	require.NoError(t, err)

	_, claims, err := ParseToken(access, models.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, id, claims.IdentityID)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, models.TokenKindAccess, claims.Kind)

	_, claims, err = ParseToken(refresh, models.TokenKindRefresh)
	require.NoError(t, err)
	assert.Equal(t, models.TokenKindRefresh, claims.Kind)

	// a refresh token is not accepted where an access token is expected
	_, _, err = ParseToken(refresh, models.TokenKindAccess)
	assert.Error(t, err)
}

func TestGenerateTokensRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("REFRESH_SECRET", "")
	_, _, err := GenerateTokens(&models.UserClaims{IdentityID: uuid.New()})
	assert.Error(t, err)
}

func TestGetPagination(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		p := GetPagination(c, 1, 20)
		p.SetTotal(45)
		return c.JSON(p)
	})

	cases := map[string]Pagination{
		"/":                   {Page: 1, Limit: 20, Offset: 0, Total: 45, LastPage: 3},
		"/?page=3&limit=10":   {Page: 3, Limit: 10, Offset: 20, Total: 45, LastPage: 5},
		"/?page=0&limit=abc":  {Page: 1, Limit: 20, Offset: 0, Total: 45, LastPage: 3},
		"/?page=1&limit=1000": {Page: 1, Limit: MaxLimit, Offset: 0, Total: 45, LastPage: 1},
		"/?page=92233720368547758&limit=100": {
			Page: MaxPage, Limit: 100, Offset: (MaxPage - 1) * 100, Total: 45, LastPage: 1,
		},
		"/?page=99999999999999999999": {Page: 1, Limit: 20, Offset: 0, Total: 45, LastPage: 3},
	}
	for target, want := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", target, nil))
		require.NoError(t, err)
		var got Pagination
		body, _ := io.ReadAll(resp.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, want, got, target)
	}
}

func TestFromErrorStatuses(t *testing.T) {
	app := fiber.New()
	errs := map[string]error{
		"amount":   apperrors.ErrInvalidTransactionAmount.WithMessage("transaction amount must be greater than 0"),
		"rls":      apperrors.ErrRowLevelSecurity,
		"notfound": apperrors.ErrNotFound,
		"conflict": apperrors.ErrConflict,
		"creds":    apperrors.ErrInvalidCredentials,
		"data":     apperrors.ErrDataAccess.Wrap(io.ErrUnexpectedEOF),
		"plain":    io.EOF,
	}
	app.Get("/:kind", func(c *fiber.Ctx) error {
		return FromError(c, errs[c.Params("kind")])
	})

	want := map[string]int{
		"amount":   fiber.StatusUnprocessableEntity,
		"rls":      fiber.StatusForbidden,
		"notfound": fiber.StatusNotFound,
		"conflict": fiber.StatusConflict,
		"creds":    fiber.StatusUnauthorized,
		"data":     fiber.StatusInternalServerError,
		"plain":    fiber.StatusInternalServerError,
	}
	for kind, status := range want {
		resp, err := app.Test(httptest.NewRequest("GET", "/"+kind, nil))
		require.NoError(t, err)
		assert.Equal(t, status, resp.StatusCode, kind)
	}
}
