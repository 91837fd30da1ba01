package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode"

	"github.com/invopop/jsonschema"
	"github.com/maruel/userdb/internal/csvdb"
)

// ErrNotFound is returned when no user matches the requested id or city.
var ErrNotFound = errors.New("not found")

// Exporter writes a tabular artifact and returns the file name it produced.
type Exporter interface {
	Export(ctx context.Context, name string, header []string, rows [][]any) (string, error)
}

// ExportResult describes a produced export artifact.
type ExportResult struct {
	City  string
	Count int
	File  string
}

// Service runs dataset operations against one table file.
type Service struct {
	table    *csvdb.Table[*User]
	exporter Exporter
}

// NewService returns a Service storing users in the CSV file at path.
// exporter may be nil, in which case Export fails.
func NewService(path string, exporter Exporter) (*Service, error) {
	table, err := csvdb.NewTable[*User](path)
	if err != nil {
		return nil, fmt.Errorf("failed to open users table: %w", err)
	}
	return &Service{table: table, exporter: exporter}, nil
}

// Path returns the backing file.
func (s *Service) Path() string {
	return s.table.Path()
}

// Schema returns the JSON Schema of a User.
func (s *Service) Schema() *jsonschema.Schema {
	return s.table.Schema()
}

// List returns all users, filtered by FilterByNameOrCity.
func (s *Service) List(ctx context.Context, name, city string) ([]*User, error) {
	all, err := s.load()
	if err != nil {
		return nil, err
	}
	return FilterByNameOrCity(all, name, city), nil
}

// Get returns the user with the given id.
func (s *Service) Get(ctx context.Context, id int) (*User, error) {
	all, err := s.load()
	if err != nil {
		return nil, err
	}
	i := indexOf(all, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return all[i], nil
}

// Add validates p, assigns the next id and appends the new user.
func (s *Service) Add(ctx context.Context, p *Patch) (*User, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	all, err := s.load()
	if err != nil {
		return nil, err
	}
	u := &User{ID: NextID(all)}
	p.Apply(u)
	all = append(all, u)
	if err := s.table.Save(all); err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "User added", "id", u.ID)
	return u, nil
}

// Update merges p into the user with the given id.
func (s *Service) Update(ctx context.Context, id int, p *Patch) (*User, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	all, err := s.load()
	if err != nil {
		return nil, err
	}
	i := indexOf(all, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	p.Apply(all[i])
	if err := s.table.Save(all); err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "User updated", "id", id)
	return all[i], nil
}

// Delete removes the user with the given id and returns it.
func (s *Service) Delete(ctx context.Context, id int) (*User, error) {
	all, err := s.load()
	if err != nil {
		return nil, err
	}
	i := indexOf(all, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	removed := all[i]
	all = slices.Delete(all, i, i+1)
	if err := s.table.Save(all); err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "User deleted", "id", id)
	return removed, nil
}

// Top returns the n best rated users.
func (s *Service) Top(ctx context.Context, n int) ([]*User, error) {
	all, err := s.load()
	if err != nil {
		return nil, err
	}
	return TopByRating(all, n), nil
}

// AverageAge returns the mean age per city.
func (s *Service) AverageAge(ctx context.Context) (map[string]float64, error) {
	all, err := s.load()
	if err != nil {
		return nil, err
	}
	return AverageAgeByCity(all), nil
}

// Export writes the users living in city to a spreadsheet named after the
// city. Returns ErrNotFound when nobody lives there.
func (s *Service) Export(ctx context.Context, city string) (*ExportResult, error) {
	if s.exporter == nil {
		return nil, errors.New("export is not configured")
	}
	all, err := s.load()
	if err != nil {
		return nil, err
	}
	matched := ByCity(all, city)
	if len(matched) == 0 {
		return nil, ErrNotFound
	}
	rows := make([][]any, len(matched))
	for i, u := range matched {
		rows[i] = u.row()
	}
	file, err := s.exporter.Export(ctx, ExportName(city), s.table.Header(), rows)
	if err != nil {
		return nil, fmt.Errorf("failed to export %q: %w", city, err)
	}
	return &ExportResult{City: city, Count: len(matched), File: file}, nil
}

// ExportName returns the artifact base name for city: "users_" followed by
// the city with every rune that is not a letter, digit, '-' or '_' replaced
// by '_'.
func ExportName(city string) string {
	return "users_" + strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, city)
}

// load reads every user and refuses a file whose ids are not unique and
// positive, since lookups and NextID depend on both.
func (s *Service) load() ([]*User, error) {
	all, err := s.table.Load()
	if err != nil {
		return nil, err
	}
	seen := make(map[int]struct{}, len(all))
	for _, u := range all {
		if u.ID < 1 {
			return nil, s.corrupt(fmt.Errorf("invalid id %d", u.ID))
		}
		if _, ok := seen[u.ID]; ok {
			return nil, s.corrupt(fmt.Errorf("duplicate id %d", u.ID))
		}
		seen[u.ID] = struct{}{}
	}
	return all, nil
}

func (s *Service) corrupt(err error) error {
	return &csvdb.StorageError{Op: "load", Path: s.table.Path(), Err: fmt.Errorf("%w: %w", csvdb.ErrCorrupt, err)}
}

func indexOf(all []*User, id int) int {
	return slices.IndexFunc(all, func(u *User) bool { return u.ID == id })
}
