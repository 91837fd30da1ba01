// Defines shared data types for the API.

package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// User is a user record as exposed by the API. Absent fields are omitted.
type User struct {
	ID     int    `json:"id"`
	Name   string `json:"name,omitempty"`
	Age    *int   `json:"age,omitempty"`
	City   string `json:"city,omitempty"`
	Date   string `json:"date,omitempty"`
	Rating *int   `json:"rating,omitempty"`
}

// UserFields is a user payload sent by a client. Every field is optional; a
// nil field is absent. JSON null counts as absent and unknown keys are
// ignored.
//
// A value of the wrong JSON type does not fail decoding: it is recorded and
// reported by Validate so that the client gets the same error as for any
// other invalid value.
type UserFields struct {
	ID     *int
	Name   *string
	Age    *int
	City   *string
	Date   *string
	Rating *int

	isObject bool
	invalid  string
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *UserFields) UnmarshalJSON(data []byte) error {
	*f = UserFields{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	f.isObject = true
	fields := []struct {
		key string
		dst any
	}{
		{"id", &f.ID},
		{"name", &f.Name},
		{"age", &f.Age},
		{"city", &f.City},
		{"date", &f.Date},
		{"rating", &f.Rating},
	}
	for _, fl := range fields {
		v, ok := raw[fl.key]
		if !ok || bytes.Equal(v, []byte("null")) {
			continue
		}
		if err := json.Unmarshal(v, fl.dst); err != nil && f.invalid == "" {
			f.invalid = fl.key
		}
	}
	return nil
}

// Validate reports a body that is not a JSON object or a field of the wrong
// type. Value ranges are checked by the users package.
func (f *UserFields) Validate() error {
	if !f.isObject {
		return InvalidUserData("", "body must be a JSON object")
	}
	if f.invalid != "" {
		return InvalidUserData(f.invalid, "wrong type")
	}
	return nil
}

// Commit is one entry of the users table history.
type Commit struct {
	Hash    string `json:"hash"`
	Message string `json:"message"`
	Author  string `json:"author"`
	Date    string `json:"date"`
}

// parseUserID parses a user id path parameter.
func parseUserID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, InvalidParameter("id", s)
	}
	return id, nil
}

// parseCount parses an optional integer query parameter, def when empty.
func parseCount(name, s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, InvalidParameter(name, s)
	}
	return n, nil
}
