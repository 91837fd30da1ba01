package csvdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cells travel between CSV text and Go values through JSON:
//
//	CSV cell → decodeCell (by column type) → map[string]any → json → T
//	T → json (UseNumber) → map[string]any → encodeCell → CSV cell
//
// Column types coerce like SQLite affinities:
//   - text: the cell is used verbatim
//   - number: integers stay integers, whole floats become integers, other
//     floats stay floats
//   - bool: strconv.ParseBool syntax
//
// An empty cell is always "absent" and is left out of the JSON object.

var errNotANumber = errors.New("not a number")

// decodeCell converts a raw CSV cell into a JSON-compatible value for col.
// Returns nil for an empty cell.
func decodeCell(col *column, cell string) (any, error) {
	if cell == "" {
		return nil, nil
	}
	switch col.Type {
	case columnTypeNumber:
		if i, err := strconv.ParseInt(cell, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %q", errNotANumber, cell)
		}
		if f == math.Trunc(f) && f >= math.MinInt64 && f <= math.MaxInt64 {
			return int64(f), nil
		}
		return f, nil
	case columnTypeBool:
		b, err := strconv.ParseBool(cell)
		if err != nil {
			return nil, fmt.Errorf("not a boolean: %q", cell)
		}
		return b, nil
	default:
		return cell, nil
	}
}

// encodeCell formats a value decoded from JSON (with UseNumber) as a CSV cell.
func encodeCell(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		// The CSV reader turns a quoted "\r\n" into "\n".
		if strings.ContainsRune(t, '\r') {
			return "", errCarriageReturn
		}
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		// Nested objects and arrays are kept as JSON text.
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
