// Package config loads settings from the environment with
// fail-open semantics: a value that fails to parse or validate is replaced
// by its default and reported as a warning, never as an error.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Result is the outcome of loading one setting.
type Result[T any] struct {
	Value           T
	Warning         string
	FallbackApplied bool
}

// Load reads envKey, converts it with parse and checks it with validate.
// An unset or empty variable yields def without a warning. validate may be nil.
func Load[T any](envKey string, def T, parse func(string) (T, error), validate func(T) error) Result[T] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return Result[T]{Value: def}
	}

	v, err := parse(raw)
	if err == nil && validate != nil {
		err = validate(v)
	}
	if err != nil {
		return Result[T]{
			Value:           def,
			Warning:         fmt.Sprintf("invalid %s=%q: %v, using default %v", envKey, raw, err, def),
			FallbackApplied: true,
		}
	}
	return Result[T]{Value: v}
}

// LoadString returns the raw value of envKey, or def when unset.
func LoadString(envKey, def string, validate func(string) error) Result[string] {
	return Load(envKey, def, func(s string) (string, error) { return s, nil }, validate)
}

func LoadInt(envKey string, def int, validate func(int) error) Result[int] {
	return Load(envKey, def, strconv.Atoi, validate)
}

func LoadDuration(envKey string, def time.Duration, validate func(time.Duration) error) Result[time.Duration] {
	return Load(envKey, def, time.ParseDuration, validate)
}

func LoadBool(envKey string, def bool) Result[bool] {
	return Load(envKey, def, strconv.ParseBool, nil)
}
