// AngelaMos | 2026
// patch.go

// Package patch builds sparse UPDATE and INSERT statements from a
// per-resource field mapping. The mapping is the only place external
// JSON names are translated to column names, so caller-supplied keys
// can never reach the SQL text.
package patch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/drivepixel/website-backend/internal/core"
)

// Field declares one mutable field: its external JSON name, the column
// it maps to (pre-quoted where the name is reserved), and how raw JSON
// becomes a driver value.
type Field struct {
	Name     string
	Column   string
	Required bool
	Nullable bool
	Default  any
	Decode   func(raw json.RawMessage) (any, error)
}

// Mapping is the ordered allow-list of mutable fields for a resource.
type Mapping []Field

// Value is one (column, argument) pair destined for a statement.
type Value struct {
	Column string
	Arg    any
}

// Body decodes a request body into a sparse field set. Keys absent from
// the JSON stay absent from the map, which is what lets Changes tell
// "omitted" apart from "explicitly null".
func Body(r []byte) (map[string]json.RawMessage, error) {
	var body map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(r))
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("decode body: %w", core.ErrInvalidInput)
	}
	return body, nil
}

// Changes extracts the recognized fields present in body, in mapping
// order. Unknown keys are ignored. An explicit null is applied as SQL
// NULL when the field is nullable and rejected otherwise. An empty
// result is ErrNoFields: the caller must not write anything.
func (m Mapping) Changes(body map[string]json.RawMessage) ([]Value, error) {
	values := make([]Value, 0, len(m))

	for _, f := range m {
		raw, ok := body[f.Name]
		if !ok {
			continue
		}

		if isNull(raw) {
			if !f.Nullable {
				return nil, fmt.Errorf("%s cannot be null: %w", f.Name, core.ErrInvalidInput)
			}
			values = append(values, Value{Column: f.Column, Arg: nil})
			continue
		}

		arg, err := f.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		values = append(values, Value{Column: f.Column, Arg: arg})
	}

	if len(values) == 0 {
		return nil, core.ErrNoFields
	}

	return values, nil
}

// InsertValues validates a create body against the mapping: required
// fields must be present and non-null, absent optional fields take
// their declared default (when one is declared).
func (m Mapping) InsertValues(body map[string]json.RawMessage) ([]Value, error) {
	values := make([]Value, 0, len(m))

	for _, f := range m {
		raw, ok := body[f.Name]
		if !ok || isNull(raw) {
			if f.Required {
				return nil, fmt.Errorf("%s is required: %w", f.Name, core.ErrInvalidInput)
			}
			if ok && isNull(raw) && f.Nullable {
				values = append(values, Value{Column: f.Column, Arg: nil})
				continue
			}
			if f.Default != nil {
				values = append(values, Value{Column: f.Column, Arg: f.Default})
			}
			continue
		}

		arg, err := f.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		values = append(values, Value{Column: f.Column, Arg: arg})
	}

	return values, nil
}

// BuildUpdate composes one atomic statement that applies the change set
// and refreshes updated_at. Column names come exclusively from the
// mapping that produced values.
func BuildUpdate(table string, values []Value, keyColumn string, key any, returning []string) (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, len(values)+1)

	sb.WriteString("UPDATE ")
	sb.WriteString(table)
	sb.WriteString(" SET ")

	for i, v := range values {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s = $%d", v.Column, i+1)
		args = append(args, v.Arg)
	}

	fmt.Fprintf(&sb, ", updated_at = NOW() WHERE %s = $%d", keyColumn, len(values)+1)
	args = append(args, key)

	if len(returning) > 0 {
		sb.WriteString(" RETURNING ")
		sb.WriteString(strings.Join(returning, ", "))
	}

	return sb.String(), args
}

// BuildInsert composes an INSERT from mapping-derived values.
func BuildInsert(table string, values []Value, returning []string) (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, len(values))
	placeholders := make([]string, 0, len(values))
	columns := make([]string, 0, len(values))

	for i, v := range values {
		columns = append(columns, v.Column)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, v.Arg)
	}

	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	if len(returning) > 0 {
		sb.WriteString(" RETURNING ")
		sb.WriteString(strings.Join(returning, ", "))
	}

	return sb.String(), args
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
