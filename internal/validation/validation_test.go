package validation

import (
	"testing"

	apperrors "kudi/internal/errors"
	"kudi/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRegistration(t *testing.T) {
	v := New()
	v.Registration("+2348012345678", "", "Str0ng!pass", "Ada Obi")
	assert.True(t, v.Valid(), v.Errors)

	v = New()
	v.Registration("", "", "weak", "")
	assert.False(t, v.Valid())
	assert.Contains(t, v.Errors, "identifier")
	assert.Contains(t, v.Errors, "password")

	v = New()
	v.Registration("12ab", "not-an-email", "Str0ng!pass", "")
	assert.Contains(t, v.Errors, "phone")
	assert.Contains(t, v.Errors, "email")
}

func TestCredentials(t *testing.T) {
	v := New()
	v.Credentials("", "ada@example.com", "secret")
	assert.True(t, v.Valid())

	v = New()
	v.Credentials(" ", "", "")
	assert.Len(t, v.Errors, 2)
}

func TestDecimal(t *testing.T) {
	max := decimal.NewFromInt(100_000_000)

	v := New()
	v.Decimal("amount", decimal.RequireFromString("0.01"), max)
	v.Decimal("other", max, max)
	assert.True(t, v.Valid())

	v = New()
	v.Decimal("amount", decimal.Zero, max)
	assert.Contains(t, v.Errors, "amount")

	v = New()
	v.Decimal("amount", decimal.RequireFromString("100000000.01"), max)
	assert.Contains(t, v.Errors, "amount")
}

func TestStructUsesJSONNames(t *testing.T) {
	v := New()
	v.Struct(models.BankAccountInput{AccountNumber: "12ab", BankName: "Opay"})
	assert.Equal(t, "must contain digits only", v.Errors["account_number"])
	assert.Equal(t, "must not be empty", v.Errors["account_name"])
	assert.NotContains(t, v.Errors, "bank_name")

	v = New()
	v.Struct(models.BankAccountInput{AccountNumber: "0123456789", AccountName: "Ada", BankName: "Opay"})
	assert.True(t, v.Valid(), v.Errors)
}

func TestErrMatchesInvalidRequest(t *testing.T) {
	v := New()
	assert.NoError(t, v.Err())

	v.AddError("phone", "must be a valid phone number")
	err := v.Err()
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	var verr *Error
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be a valid phone number", verr.Fields["phone"])
}
