// Defines shared service dependencies for handlers.

package handlers

import (
	"github.com/maruel/userdb/internal/export"
	"github.com/maruel/userdb/internal/history"
	"github.com/maruel/userdb/internal/users"
)

// Services holds all service dependencies for handlers.
type Services struct {
	Users   *users.Service
	Exports *export.Writer
	History *history.Repo // may be nil
}

// Config holds configuration values needed by handlers.
type Config struct {
	Version             string
	MaxRequestBodyBytes int64
}
