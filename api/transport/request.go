package transport

import (
	"net/mail"

	"github.com/mywallet/backend/domain"
)

type SignUpRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Validate returns one message per schema violation, empty when valid.
func (r SignUpRequest) Validate() []string {
	var problems []string
	if r.Name == "" {
		problems = append(problems, "name is required")
	}
	if !validEmail(r.Email) {
		problems = append(problems, "email must be a valid address")
	}
	if r.Password == "" {
		problems = append(problems, "password is required")
	}
	if r.ConfirmPassword != r.Password {
		problems = append(problems, "confirm_password must match password")
	}
	return problems
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r SignInRequest) Validate() []string {
	var problems []string
	if !validEmail(r.Email) {
		problems = append(problems, "email must be a valid address")
	}
	if r.Password == "" {
		problems = append(problems, "password is required")
	}
	return problems
}

type StatusRequest struct {
	UserID string `json:"user_id"`
}

func (r StatusRequest) Validate() []string {
	var problems []string
	if r.UserID == "" {
		problems = append(problems, "user_id is required")
	}
	return problems
}

type EntryRequest struct {
	UserID      string `json:"user_id"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Kind        string `json:"kind"`
}

func (r EntryRequest) Validate() []string {
	var problems []string
	if r.UserID == "" {
		problems = append(problems, "user_id is required")
	}
	if r.Description == "" {
		problems = append(problems, "description is required")
	}
	if r.Amount <= 0 {
		problems = append(problems, "amount must be positive")
	}
	if !domain.ValidEntryKind(r.Kind) {
		problems = append(problems, "kind must be entry or exit")
	}
	return problems
}

func validEmail(address string) bool {
	if address == "" {
		return false
	}
	_, err := mail.ParseAddress(address)
	return err == nil
}
