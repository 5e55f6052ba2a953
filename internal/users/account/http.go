// Copyright (c) 2026 Kritika. All rights reserved.
// Author: dev@kritika.app

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kritika-app/kritika/internal/access"
	requestutil "github.com/kritika-app/kritika/internal/platform/request"
	"github.com/kritika-app/kritika/internal/platform/respond"
	"github.com/kritika-app/kritika/pkg/pagination"
)

// Handler implements the HTTP layer for the user directory.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] with the user directory endpoints.
//
// The "/me" literal must be registered before "/{username}" so chi matches
// the self surface first.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Self-service profile
	router.Get("/me", handler.getMe)
	router.Patch("/me", handler.updateMe)

	// Admin directory
	router.Get("/", handler.listUsers)
	router.Post("/", handler.createUser)
	router.Get("/{username}", handler.getUser)
	router.Patch("/{username}", handler.updateUser)
	router.Delete("/{username}", handler.deleteUser)

	return router
}

// # Admin Directory Endpoints

/*
GET /api/v1/users.

Description: Lists accounts ordered by username. Supports ?search= substring
filtering and standard pagination.

Response:
  - 200: []User with pagination meta
  - 401/403: Caller is not an admin
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	actor := access.FromClaims(requestutil.Claims(request))

	filter := ListFilter{
		Search: request.URL.Query().Get("search"),
		Page:   pagination.FromRequest(request),
	}

	users, meta, err := handler.accountService.ListUsers(request.Context(), actor, filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, meta)
}

/*
POST /api/v1/users.

Description: Registers a new account with an explicit role.

Request:
  - body: CreateUserInput

Response:
  - 201: User: The created account
  - 400: Validation failure
  - 409: Username or email already registered
*/
func (handler *Handler) createUser(writer http.ResponseWriter, request *http.Request) {
	actor := access.FromClaims(requestutil.Claims(request))

	var input CreateUserInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.CreateUser(request.Context(), actor, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
GET /api/v1/users/{username}.

Response:
  - 200: User
  - 404: No such account
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	actor := access.FromClaims(requestutil.Claims(request))
	username := requestutil.Param(request, "username")

	user, err := handler.accountService.GetUser(request.Context(), actor, username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
PATCH /api/v1/users/{username}.

Description: Applies a partial update to any account, including role changes.

Request:
  - body: UpdateUserInput (Partial JSON)

Response:
  - 200: User: The updated account
  - 400: Validation failure
  - 404: No such account
  - 409: Username or email already registered
*/
func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	actor := access.FromClaims(requestutil.Claims(request))
	username := requestutil.Param(request, "username")

	var input UpdateUserInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateUser(request.Context(), actor, username, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/v1/users/{username}.

Response:
  - 204: Account removed along with its reviews and comments
  - 404: No such account
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	actor := access.FromClaims(requestutil.Claims(request))
	username := requestutil.Param(request, "username")

	if err := handler.accountService.DeleteUser(request.Context(), actor, username); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Self-Service Endpoints

/*
GET /api/v1/users/me.

Description: Retrieves the authenticated user's own profile.

Response:
  - 200: User
  - 401: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	actor := access.FromClaims(requestutil.Claims(request))

	user, err := handler.accountService.GetSelf(request.Context(), actor)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
PATCH /api/v1/users/me.

Description: Applies a partial update to the caller's own profile. The role
field is rejected here.

Request:
  - body: UpdateUserInput (Partial JSON, no role)

Response:
  - 200: User: The updated profile
  - 400: Validation failure or role change attempt
  - 401: Authentication required
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	actor := access.FromClaims(requestutil.Claims(request))

	var input UpdateUserInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateSelf(request.Context(), actor, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
