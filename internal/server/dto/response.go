package dto

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// --- User Responses ---

// UserResponse is a response containing one user.
type UserResponse struct {
	User User `json:"user"`
}

// ListUsersResponse is a response containing a list of users.
type ListUsersResponse struct {
	Users []User `json:"users"`
}

// --- Report Responses ---

// TopUsersResponse is the best rated users, best first.
type TopUsersResponse []User

// AverageAgeResponse maps each city to the mean age of its users.
type AverageAgeResponse map[string]float64

// MarshalJSON writes every average with a decimal point, so 45 is sent as
// 45.0. Cities are sorted.
func (r AverageAgeResponse) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, city := range slices.Sorted(maps.Keys(r)) {
		if i > 0 {
			buf = append(buf, ',')
		}
		k, err := json.Marshal(city)
		if err != nil {
			return nil, err
		}
		v := r[city]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("invalid average age for %q: %v", city, v)
		}
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.ContainsRune(s, '.') {
			s += ".0"
		}
		buf = append(buf, k...)
		buf = append(buf, ':')
		buf = append(buf, s...)
	}
	return append(buf, '}'), nil
}

// ExportResponse describes a produced export file.
type ExportResponse struct {
	Message string `json:"message"`
	City    string `json:"city"`
	Count   int    `json:"count"`
	File    string `json:"file"`
	URL     string `json:"url"`
}

// --- Metadata Responses ---

// HistoryResponse lists the commits of the users table, newest first.
type HistoryResponse struct {
	Commits []Commit `json:"commits"`
}

// HealthResponse is a response from the health check.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
