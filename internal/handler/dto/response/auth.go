package response

import (
	"equipment-rental/internal/usecase/queries"

	"github.com/google/uuid"
)

type SignupResponse struct {
	ID uuid.UUID `json:"id"`
}

type LoginResponse struct {
	AccessToken string                      `json:"access_token"`
	User        *queries.AuthorizedUserView `json:"user"`
}
