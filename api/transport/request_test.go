package transport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mywallet/backend/api/transport"
)

func TestSignUpValidation(t *testing.T) {
	valid := transport.SignUpRequest{
		Name:            "Maria",
		Email:           "maria@example.com",
		Password:        "secret",
		ConfirmPassword: "secret",
	}
	assert.Empty(t, valid.Validate())

	mismatch := valid
	mismatch.ConfirmPassword = "other"
	assert.Contains(t, mismatch.Validate(), "confirm_password must match password")

	missing := transport.SignUpRequest{}
	assert.Len(t, missing.Validate(), 3)
}

func TestSignInValidation(t *testing.T) {
	assert.Empty(t, transport.SignInRequest{Email: "maria@example.com", Password: "secret"}.Validate())
	assert.NotEmpty(t, transport.SignInRequest{Email: "not-an-address", Password: "secret"}.Validate())
	assert.NotEmpty(t, transport.SignInRequest{Email: "maria@example.com"}.Validate())
}

func TestStatusValidation(t *testing.T) {
	assert.Empty(t, transport.StatusRequest{UserID: "u1"}.Validate())
	assert.Contains(t, transport.StatusRequest{}.Validate(), "user_id is required")
}

func TestEntryValidation(t *testing.T) {
	valid := transport.EntryRequest{
		UserID:      "u1",
		Description: "groceries",
		Amount:      2500,
		Kind:        "exit",
	}
	assert.Empty(t, valid.Validate())

	badKind := valid
	badKind.Kind = "transfer"
	assert.Contains(t, badKind.Validate(), "kind must be entry or exit")

	negative := valid
	negative.Amount = -100
	assert.Contains(t, negative.Validate(), "amount must be positive")
}
