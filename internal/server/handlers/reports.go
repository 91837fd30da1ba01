package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/maruel/userdb/internal/server/dto"
	"github.com/maruel/userdb/internal/users"
)

// ReportHandler handles the read-only aggregate endpoints.
type ReportHandler struct {
	svc *users.Service
}

// NewReportHandler creates a new report handler.
func NewReportHandler(svc *users.Service) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// TopUsers returns the best rated users.
func (h *ReportHandler) TopUsers(ctx context.Context, req *dto.TopUsersRequest) (*dto.TopUsersResponse, error) {
	top, err := h.svc.Top(ctx, req.Count())
	if err != nil {
		return nil, apiError(err)
	}
	resp := dto.TopUsersResponse(usersToDTO(top))
	return &resp, nil
}

// AverageAge returns the mean age per city.
func (h *ReportHandler) AverageAge(ctx context.Context, req *dto.AverageAgeRequest) (*dto.AverageAgeResponse, error) {
	avg, err := h.svc.AverageAge(ctx)
	if err != nil {
		return nil, apiError(err)
	}
	resp := dto.AverageAgeResponse(avg)
	return &resp, nil
}

// ExportUsers writes the users of a city to a spreadsheet.
func (h *ReportHandler) ExportUsers(ctx context.Context, req *dto.ExportUsersRequest) (*dto.ExportResponse, error) {
	res, err := h.svc.Export(ctx, req.City)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, dto.NoUsersInCity(req.City)
		}
		return nil, apiError(err)
	}
	return &dto.ExportResponse{
		Message: fmt.Sprintf("Exported %d users from %s to %s", res.Count, res.City, res.File),
		City:    res.City,
		Count:   res.Count,
		File:    res.File,
		URL:     "/exports/" + url.PathEscape(res.File),
	}, nil
}
