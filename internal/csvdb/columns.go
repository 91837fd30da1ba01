// Handles column definitions and reflection-based schema generation.

package csvdb

import (
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// columnType represents the type of a table column.
type columnType string

const (
	columnTypeText   columnType = "text"
	columnTypeNumber columnType = "number"
	columnTypeBool   columnType = "bool"
)

// column represents a table column in storage.
type column struct {
	Name        string
	Type        columnType
	Required    bool
	Description string
}

// schemaFromType extracts column definitions using JSON Schema reflection.
//
// It returns the reflected schema alongside the columns so callers can expose
// it as-is. Field descriptions come from `jsonschema:"description=..."` tags.
func schemaFromType[T any]() (*jsonschema.Schema, []column, error) {
	t := reflect.TypeFor[T]()
	switch t.Kind() {
	case reflect.Pointer:
		if t.Elem().Kind() != reflect.Struct {
			return nil, nil, fmt.Errorf("type must be a struct or pointer to struct, got %s", t.Kind())
		}
		t = t.Elem()
	case reflect.Struct:
	default:
		return nil, nil, fmt.Errorf("type must be a struct or pointer to struct, got %s", t.Kind())
	}

	// Inline properties (no $ref) keep the property order of the struct.
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	schema := r.ReflectFromType(t)
	if schema.Properties == nil {
		return nil, nil, fmt.Errorf("type %s has no exported fields", t)
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	var columns []column
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		name := pair.Key
		colType := columnTypeText
		for i := range t.NumField() {
			field := t.Field(i)
			if jsonFieldName(&field) == name {
				colType = goTypeToColumnType(field.Type)
				break
			}
		}
		columns = append(columns, column{
			Name:        name,
			Type:        colType,
			Required:    required[name],
			Description: pair.Value.Description,
		})
	}
	if len(columns) == 0 {
		return nil, nil, fmt.Errorf("type %s has no exported fields", t)
	}
	return schema, columns, nil
}

// jsonFieldName returns the JSON field name for a struct field.
func jsonFieldName(field *reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return field.Name
	}
	for i, c := range tag {
		if c == ',' {
			if i == 0 {
				return field.Name
			}
			return tag[:i]
		}
	}
	return tag
}

// goTypeToColumnType maps Go types to CSV column types.
func goTypeToColumnType(t reflect.Type) columnType {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return columnTypeBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return columnTypeNumber
	default:
		// Strings and anything structured are stored as text.
		return columnTypeText
	}
}
