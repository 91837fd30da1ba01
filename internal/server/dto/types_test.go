package dto

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestUserFields(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		var req CreateUserRequest
		body := `{"name":"Oleg","age":25,"city":"Moscow","date":"1999-01-01","rating":null,"extra":[1,2]}`
		if err := json.Unmarshal([]byte(body), &req); err != nil {
			t.Fatal(err)
		}
		if err := req.Validate(); err != nil {
			t.Fatal(err)
		}
		if req.Name == nil || *req.Name != "Oleg" {
			t.Errorf("Name = %v", req.Name)
		}
		if req.Age == nil || *req.Age != 25 {
			t.Errorf("Age = %v", req.Age)
		}
		if req.Rating != nil {
			t.Errorf("null rating must be absent, got %v", *req.Rating)
		}
		if req.ID != nil {
			t.Errorf("ID = %v", *req.ID)
		}
	})
	t.Run("invalid", func(t *testing.T) {
		tests := []struct {
			name  string
			body  string
			field string
		}{
			{"numeric name", `{"name":25}`, "name"},
			{"string age", `{"age":"25"}`, "age"},
			{"fractional age", `{"age":25.5}`, "age"},
			{"bool city", `{"city":true}`, "city"},
			{"object rating", `{"rating":{}}`, "rating"},
			{"string id", `{"id":"1"}`, "id"},
			{"first wins", `{"rating":"x","name":1}`, "name"},
			{"array body", `[1,2]`, ""},
			{"string body", `"hello"`, ""},
			{"null body", `null`, ""},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				var req CreateUserRequest
				if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
					t.Fatal(err)
				}
				err := req.Validate()
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("got %v, want *APIError", err)
				}
				if apiErr.Message() != MsgInvalidUserData {
					t.Errorf("message = %q", apiErr.Message())
				}
				if got, _ := apiErr.Details()["field"].(string); got != tt.field {
					t.Errorf("field = %q, want %q", got, tt.field)
				}
			})
		}
	})
	t.Run("empty body", func(t *testing.T) {
		var req CreateUserRequest
		if err := req.Validate(); err == nil {
			t.Error("expected error for missing body")
		}
	})
	t.Run("update keeps path id", func(t *testing.T) {
		req := UpdateUserRequest{ID: "4"}
		if err := json.Unmarshal([]byte(`{"id":9,"city":"Kazan"}`), &req); err != nil {
			t.Fatal(err)
		}
		if err := req.Validate(); err != nil {
			t.Fatal(err)
		}
		if req.UserID() != 4 {
			t.Errorf("UserID() = %d, want 4", req.UserID())
		}
		if req.UserFields.ID == nil || *req.UserFields.ID != 9 {
			t.Errorf("body id = %v", req.UserFields.ID)
		}
	})
}

func TestRequestParams(t *testing.T) {
	t.Run("user id", func(t *testing.T) {
		for _, id := range []string{"", "abc", "0", "-1", "1.5"} {
			req := DeleteUserRequest{ID: id}
			var apiErr *APIError
			if err := req.Validate(); !errors.As(err, &apiErr) || apiErr.Code() != ErrorCodeInvalidFormat {
				t.Errorf("%q: got %v", id, err)
			}
		}
		req := GetUserRequest{ID: "12"}
		if err := req.Validate(); err != nil || req.UserID() != 12 {
			t.Errorf("got %v, %d", err, req.UserID())
		}
	})
	t.Run("top n", func(t *testing.T) {
		tests := []struct {
			n       string
			want    int
			wantErr bool
		}{
			{"", DefaultTopN, false},
			{"5", 5, false},
			{"0", 0, false},
			{"five", 0, true},
		}
		for _, tt := range tests {
			req := TopUsersRequest{N: tt.n}
			err := req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("%q: err = %v", tt.n, err)
				continue
			}
			if !tt.wantErr && req.Count() != tt.want {
				t.Errorf("%q: Count() = %d, want %d", tt.n, req.Count(), tt.want)
			}
		}
	})
	t.Run("history n", func(t *testing.T) {
		req := HistoryRequest{}
		if err := req.Validate(); err != nil || req.Count() != DefaultHistoryN {
			t.Errorf("got %v, %d", err, req.Count())
		}
	})
	t.Run("export city", func(t *testing.T) {
		if err := (&ExportUsersRequest{}).Validate(); err == nil {
			t.Error("expected error without city")
		}
		if err := (&ExportUsersRequest{City: "Kazan"}).Validate(); err != nil {
			t.Error(err)
		}
	})
}
