// Copyright (c) 2026 Kritika. All rights reserved.
// Author: dev@kritika.app

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/kritika-app/kritika/internal/platform/request"
	"github.com/kritika-app/kritika/internal/platform/respond"
)

// Handler implements the HTTP layer for authentication.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new auth [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] with the public auth endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signup)
	router.Post("/token", handler.token)

	return router
}

// signupRequest defines the expected JSON payload for signup.
type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

/*
POST /api/v1/auth/signup.

Description: Registers an account (idempotently) and emails it a confirmation
code. Repeating the call with the same pair re-sends the same code.

Request:
  - body: signupRequest

Response:
  - 200: SignupResult: The accepted identity
  - 400: Validation failure (bad username/email, reserved username)
  - 409: Username or email belongs to a different account
  - 429: Too many code deliveries for this address
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Signup(request.Context(), SignupInput{
		Username: input.Username,
		Email:    input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

// tokenRequest defines the expected JSON payload for the code exchange.
type tokenRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

/*
POST /api/v1/auth/token.

Description: Exchanges a username and confirmation code for a JWT access
token.

Request:
  - body: tokenRequest

Response:
  - 200: TokenResult: Signed JWT
  - 400: Validation failure or wrong confirmation code
  - 404: Unknown username
*/
func (handler *Handler) token(writer http.ResponseWriter, request *http.Request) {
	var input tokenRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Token(request.Context(), TokenInput{
		Username:         input.Username,
		ConfirmationCode: input.ConfirmationCode,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}
