package handlers

import (
	"context"

	"github.com/maruel/userdb/internal/history"
	"github.com/maruel/userdb/internal/server/dto"
)

// HistoryHandler serves the change log of the users table.
type HistoryHandler struct {
	repo *history.Repo
	path string
}

// NewHistoryHandler creates a history handler for the file at path. repo may
// be nil when history is disabled.
func NewHistoryHandler(repo *history.Repo, path string) *HistoryHandler {
	return &HistoryHandler{repo: repo, path: path}
}

// History returns the latest commits of the users table.
func (h *HistoryHandler) History(ctx context.Context, req *dto.HistoryRequest) (*dto.HistoryResponse, error) {
	if h.repo == nil {
		return nil, dto.NotImplemented("History")
	}
	commits, err := h.repo.Log(ctx, h.path, req.Count())
	if err != nil {
		return nil, dto.InternalWithError("Failed to read history", err)
	}
	out := make([]dto.Commit, len(commits))
	for i, c := range commits {
		out[i] = commitToDTO(c)
	}
	return &dto.HistoryResponse{Commits: out}, nil
}
