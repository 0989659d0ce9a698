// AngelaMos | 2026
// decode.go

package patch

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"strings"

	"github.com/drivepixel/website-backend/internal/core"
)

// Decoders turn raw JSON into driver arguments, validating on the way.
// Every decode failure wraps core.ErrInvalidInput so handlers can map
// it to a 400 before anything touches the store.

func String(maxLen int) func(json.RawMessage) (any, error) {
	return func(raw json.RawMessage) (any, error) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("must be a string: %w", core.ErrInvalidInput)
		}
		if maxLen > 0 && len(s) > maxLen {
			return nil, fmt.Errorf("must be at most %d characters: %w", maxLen, core.ErrInvalidInput)
		}
		return s, nil
	}
}

func NonEmptyString(maxLen int) func(json.RawMessage) (any, error) {
	inner := String(maxLen)
	return func(raw json.RawMessage) (any, error) {
		v, err := inner(raw)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(v.(string)) == "" {
			return nil, fmt.Errorf("must not be empty: %w", core.ErrInvalidInput)
		}
		return v, nil
	}
}

func Email() func(json.RawMessage) (any, error) {
	return func(raw json.RawMessage) (any, error) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("must be a string: %w", core.ErrInvalidInput)
		}
		if _, err := mail.ParseAddress(s); err != nil {
			return nil, fmt.Errorf("must be a valid email: %w", core.ErrInvalidInput)
		}
		return s, nil
	}
}

func Int(min, max int) func(json.RawMessage) (any, error) {
	return func(raw json.RawMessage) (any, error) {
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, fmt.Errorf("must be an integer: %w", core.ErrInvalidInput)
		}
		if n < min || n > max {
			return nil, fmt.Errorf("must be between %d and %d: %w", min, max, core.ErrInvalidInput)
		}
		return n, nil
	}
}

func Bool() func(json.RawMessage) (any, error) {
	return func(raw json.RawMessage) (any, error) {
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("must be a boolean: %w", core.ErrInvalidInput)
		}
		return b, nil
	}
}

func StringSlice() func(json.RawMessage) (any, error) {
	return func(raw json.RawMessage) (any, error) {
		var s core.StringSlice
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("must be an array of strings: %w", core.ErrInvalidInput)
		}
		return s, nil
	}
}

func Enum(allowed ...string) func(json.RawMessage) (any, error) {
	return func(raw json.RawMessage) (any, error) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("must be a string: %w", core.ErrInvalidInput)
		}
		for _, a := range allowed {
			if s == a {
				return s, nil
			}
		}
		return nil, fmt.Errorf(
			"must be one of: %s: %w",
			strings.Join(allowed, ", "),
			core.ErrInvalidInput,
		)
	}
}
