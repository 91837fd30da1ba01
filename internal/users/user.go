// Package users implements the users dataset on top of a csvdb.Table.
//
// Every Service operation is a full pipeline: load the whole table, validate,
// filter or transform, and for mutations save the whole table back. Nothing
// is cached and nothing is locked; concurrent mutations race and the last
// save wins.
package users

// User is one row of the users table.
//
// Fields other than ID are optional. An absent string is "", an absent number
// is nil; both are persisted as an empty cell.
type User struct {
	ID     int    `json:"id" jsonschema:"description=Unique positive identifier assigned on creation,minimum=1"`
	Name   string `json:"name,omitempty" jsonschema:"description=Full name,minLength=2,maxLength=49"`
	Age    *int   `json:"age,omitempty" jsonschema:"description=Age in years,minimum=1,maximum=149"`
	City   string `json:"city,omitempty" jsonschema:"description=City of residence,minLength=2,maxLength=49"`
	Date   string `json:"date,omitempty" jsonschema:"description=Date as YYYY-MM-DD,pattern=^[0-9]{4}-[0-9]{2}-[0-9]{2}$"`
	Rating *int   `json:"rating,omitempty" jsonschema:"description=Rating from 0 to 10,minimum=0,maximum=10"`
}

// Patch is a partial User. A nil field is absent.
type Patch struct {
	// ID is checked by Validate but never applied: ids are assigned by NextID.
	ID     *int
	Name   *string
	Age    *int
	City   *string
	Date   *string
	Rating *int
}

// Apply copies every present field of p onto u. u.ID is left unchanged.
func (p *Patch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Age != nil {
		v := *p.Age
		u.Age = &v
	}
	if p.City != nil {
		u.City = *p.City
	}
	if p.Date != nil {
		u.Date = *p.Date
	}
	if p.Rating != nil {
		v := *p.Rating
		u.Rating = &v
	}
}

// row returns the user's cells in table column order for exports.
func (u *User) row() []any {
	return []any{u.ID, u.Name, intOrEmpty(u.Age), u.City, u.Date, intOrEmpty(u.Rating)}
}

func intOrEmpty(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
