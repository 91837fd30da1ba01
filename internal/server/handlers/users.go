package handlers

import (
	"context"

	"github.com/invopop/jsonschema"
	"github.com/maruel/userdb/internal/server/dto"
	"github.com/maruel/userdb/internal/users"
)

// UserHandler handles CRUD requests on the users table.
type UserHandler struct {
	svc *users.Service
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc *users.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

// ListUsers returns all users, or those matching the name or city filter.
func (h *UserHandler) ListUsers(ctx context.Context, req *dto.ListUsersRequest) (*dto.ListUsersResponse, error) {
	list, err := h.svc.List(ctx, req.Name, req.City)
	if err != nil {
		return nil, apiError(err)
	}
	return &dto.ListUsersResponse{Users: usersToDTO(list)}, nil
}

// GetUser returns one user.
func (h *UserHandler) GetUser(ctx context.Context, req *dto.GetUserRequest) (*dto.UserResponse, error) {
	u, err := h.svc.Get(ctx, req.UserID())
	if err != nil {
		return nil, apiError(err)
	}
	return &dto.UserResponse{User: userToDTO(u)}, nil
}

// CreateUser appends a user with the next free id.
func (h *UserHandler) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	u, err := h.svc.Add(ctx, fieldsToPatch(&req.UserFields))
	if err != nil {
		return nil, apiError(err)
	}
	return &dto.UserResponse{User: userToDTO(u)}, nil
}

// UpdateUser merges the fields present in the body into a user.
func (h *UserHandler) UpdateUser(ctx context.Context, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	u, err := h.svc.Update(ctx, req.UserID(), fieldsToPatch(&req.UserFields))
	if err != nil {
		return nil, apiError(err)
	}
	return &dto.UserResponse{User: userToDTO(u)}, nil
}

// DeleteUser removes a user and returns it.
func (h *UserHandler) DeleteUser(ctx context.Context, req *dto.DeleteUserRequest) (*dto.UserResponse, error) {
	u, err := h.svc.Delete(ctx, req.UserID())
	if err != nil {
		return nil, apiError(err)
	}
	return &dto.UserResponse{User: userToDTO(u)}, nil
}

// Schema returns the JSON Schema of a user record.
func (h *UserHandler) Schema(ctx context.Context, req *dto.SchemaRequest) (*jsonschema.Schema, error) {
	return h.svc.Schema(), nil
}
