package model

import (
	"strconv"
	"strings"
)

// FocusMode controls how a daily batch is split between review and new problems.
type FocusMode int

const (
	OnlyReview  FocusMode = 0
	FocusReview FocusMode = 1
	FocusNew    FocusMode = 2
	OnlyNew     FocusMode = 3
)

var focusModeNames = map[FocusMode]string{
	OnlyReview:  "only-review",
	FocusReview: "focus-review",
	FocusNew:    "focus-new",
	OnlyNew:     "only-new",
}

// String returns the flag spelling of the mode.
func (m FocusMode) String() string {
	if s, ok := focusModeNames[m]; ok {
		return s
	}
	return "unknown(" + strconv.Itoa(int(m)) + ")"
}

// Known reports whether m is one of the four named modes.
func (m FocusMode) Known() bool {
	_, ok := focusModeNames[m]
	return ok
}

// ParseFocusMode accepts a mode name (only-review, focus_review, OnlyNew, ...)
// or its number. An unrecognized number is returned as is so the quota
// fallback applies; an unrecognized name is an error.
func ParseFocusMode(s string) (FocusMode, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return FocusMode(n), nil
	}
	norm := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(s))
	for m, name := range focusModeNames {
		if strings.ReplaceAll(name, "-", "") == norm {
			return m, nil
		}
	}
	return 0, NewValidationError("unknown focus mode", FieldError{Field: "mode", Message: s})
}

// MarshalText implements encoding.TextMarshaler so modes read well in YAML and JSON.
func (m FocusMode) MarshalText() ([]byte, error) {
	if m.Known() {
		return []byte(m.String()), nil
	}
	return []byte(strconv.Itoa(int(m))), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *FocusMode) UnmarshalText(b []byte) error {
	v, err := ParseFocusMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
