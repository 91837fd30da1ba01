package handlers

import (
	"errors"
	"time"

	"github.com/maruel/userdb/internal/csvdb"
	"github.com/maruel/userdb/internal/history"
	"github.com/maruel/userdb/internal/server/dto"
	"github.com/maruel/userdb/internal/users"
)

// --- Domain to DTO conversions ---

func userToDTO(u *users.User) dto.User {
	return dto.User{
		ID:     u.ID,
		Name:   u.Name,
		Age:    u.Age,
		City:   u.City,
		Date:   u.Date,
		Rating: u.Rating,
	}
}

func usersToDTO(list []*users.User) []dto.User {
	out := make([]dto.User, len(list))
	for i, u := range list {
		out[i] = userToDTO(u)
	}
	return out
}

func commitToDTO(c *history.Commit) dto.Commit {
	return dto.Commit{
		Hash:    c.Hash,
		Message: c.Message,
		Author:  c.Author,
		Date:    c.Date.UTC().Format(time.RFC3339),
	}
}

// --- DTO to domain conversions ---

func fieldsToPatch(f *dto.UserFields) *users.Patch {
	return &users.Patch{
		ID:     f.ID,
		Name:   f.Name,
		Age:    f.Age,
		City:   f.City,
		Date:   f.Date,
		Rating: f.Rating,
	}
}

// --- Error mapping ---

// apiError converts an error from the users package into a dto.APIError.
func apiError(err error) error {
	var verr *users.ValidationError
	var serr *csvdb.StorageError
	switch {
	case errors.As(err, &verr):
		return dto.InvalidUserData(verr.Field, verr.Reason)
	case errors.Is(err, users.ErrNotFound):
		return dto.NotFound("User")
	case errors.As(err, &serr):
		return dto.Storage(err)
	default:
		return dto.InternalWithError("Internal error", err)
	}
}
