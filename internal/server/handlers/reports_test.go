package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maruel/userdb/internal/server/dto"
)

func TestReportHandler_TopUsers(t *testing.T) {
	h := NewReportHandler(newTestServices(t).Users)
	tests := []struct {
		name string
		n    string
		want []int
	}{
		{"default", "", []int{1, 3, 2, 5}},
		{"two", "2", []int{1, 3}},
		{"zero", "0", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &dto.TopUsersRequest{N: tt.n}
			if err := req.Validate(); err != nil {
				t.Fatal(err)
			}
			resp, err := h.TopUsers(t.Context(), req)
			if err != nil {
				t.Fatal(err)
			}
			var got []int
			for _, u := range *resp {
				got = append(got, u.ID)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestReportHandler_AverageAge(t *testing.T) {
	h := NewReportHandler(newTestServices(t).Users)
	resp, err := h.AverageAge(t.Context(), &dto.AverageAgeRequest{})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]float64{"Moscow": 27.5, "Saint Petersburg": 41}
	if len(*resp) != len(want) {
		t.Fatalf("got %v, want %v", *resp, want)
	}
	for k, v := range want {
		if (*resp)[k] != v {
			t.Errorf("%s = %v, want %v", k, (*resp)[k], v)
		}
	}
}

func TestReportHandler_ExportUsers(t *testing.T) {
	svcs := newTestServices(t)
	h := NewReportHandler(svcs.Users)
	t.Run("found", func(t *testing.T) {
		resp, err := h.ExportUsers(t.Context(), &dto.ExportUsersRequest{City: "Saint Petersburg"})
		if err != nil {
			t.Fatal(err)
		}
		if resp.File != "users_Saint_Petersburg.xlsx" || resp.Count != 1 || resp.City != "Saint Petersburg" {
			t.Errorf("got %+v", resp)
		}
		if !strings.Contains(resp.Message, "Saint Petersburg") {
			t.Errorf("Message = %q", resp.Message)
		}
		if resp.URL != "/exports/users_Saint_Petersburg.xlsx" {
			t.Errorf("URL = %q", resp.URL)
		}
		if _, err := os.Stat(filepath.Join(svcs.Exports.Dir(), resp.File)); err != nil {
			t.Error(err)
		}
	})
	t.Run("nobody", func(t *testing.T) {
		_, err := h.ExportUsers(t.Context(), &dto.ExportUsersRequest{City: "Nowhere"})
		if statusOf(t, err) != http.StatusNotFound {
			t.Fatalf("got %v, want 404", err)
		}
		var apiErr *dto.APIError
		if !errors.As(err, &apiErr) || apiErr.Message() != "No users found in Nowhere" {
			t.Errorf("got %v", err)
		}
	})
}
