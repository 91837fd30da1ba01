package dto

// DefaultTopN is the number of users returned by /users/top without n.
const DefaultTopN = 10

// DefaultHistoryN is the number of commits returned by /users/history without n.
const DefaultHistoryN = 20

// --- Users ---

// ListUsersRequest is a request to list users, optionally filtered.
type ListUsersRequest struct {
	Name string `query:"name"`
	City string `query:"city"`
}

// Validate is a no-op for ListUsersRequest.
func (r *ListUsersRequest) Validate() error {
	return nil
}

// GetUserRequest is a request to get one user.
type GetUserRequest struct {
	ID string `path:"id"`
	id int
}

// Validate validates the user id.
func (r *GetUserRequest) Validate() (err error) {
	r.id, err = parseUserID(r.ID)
	return err
}

// UserID returns the validated user id.
func (r *GetUserRequest) UserID() int {
	return r.id
}

// CreateUserRequest is a request to create a user.
type CreateUserRequest struct {
	UserFields
}

// Validate validates the payload shape.
func (r *CreateUserRequest) Validate() error {
	return r.UserFields.Validate()
}

// UpdateUserRequest is a request to merge fields into a user.
type UpdateUserRequest struct {
	ID string `path:"id"`
	id int
	UserFields
}

// Validate validates the user id and the payload shape.
func (r *UpdateUserRequest) Validate() (err error) {
	if r.id, err = parseUserID(r.ID); err != nil {
		return err
	}
	return r.UserFields.Validate()
}

// UserID returns the validated user id.
func (r *UpdateUserRequest) UserID() int {
	return r.id
}

// DeleteUserRequest is a request to delete a user.
type DeleteUserRequest struct {
	ID string `path:"id"`
	id int
}

// Validate validates the user id.
func (r *DeleteUserRequest) Validate() (err error) {
	r.id, err = parseUserID(r.ID)
	return err
}

// UserID returns the validated user id.
func (r *DeleteUserRequest) UserID() int {
	return r.id
}

// --- Reports ---

// TopUsersRequest is a request for the best rated users.
type TopUsersRequest struct {
	N string `query:"n"`
	n int
}

// Validate parses n, defaulting to DefaultTopN.
func (r *TopUsersRequest) Validate() (err error) {
	r.n, err = parseCount("n", r.N, DefaultTopN)
	return err
}

// Count returns the validated number of users to return.
func (r *TopUsersRequest) Count() int {
	return r.n
}

// AverageAgeRequest is a request for the mean age per city.
type AverageAgeRequest struct{}

// Validate is a no-op for AverageAgeRequest.
func (r *AverageAgeRequest) Validate() error {
	return nil
}

// ExportUsersRequest is a request to export the users of one city.
type ExportUsersRequest struct {
	City string `query:"city"`
}

// Validate validates that a city is given.
func (r *ExportUsersRequest) Validate() error {
	if r.City == "" {
		return BadRequest("Missing required parameter: city").WithDetail("parameter", "city")
	}
	return nil
}

// --- Metadata ---

// SchemaRequest is a request for the JSON Schema of a user record.
type SchemaRequest struct{}

// Validate is a no-op for SchemaRequest.
func (r *SchemaRequest) Validate() error {
	return nil
}

// HistoryRequest is a request for the change history of the users table.
type HistoryRequest struct {
	N string `query:"n"`
	n int
}

// Validate parses n, defaulting to DefaultHistoryN.
func (r *HistoryRequest) Validate() (err error) {
	r.n, err = parseCount("n", r.N, DefaultHistoryN)
	return err
}

// Count returns the validated number of commits to return.
func (r *HistoryRequest) Count() int {
	return r.n
}

// HealthRequest is a request to check server health.
type HealthRequest struct{}

// Validate is a no-op for HealthRequest.
func (r *HealthRequest) Validate() error {
	return nil
}
