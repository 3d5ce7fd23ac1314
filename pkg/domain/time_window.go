package domain

import (
	domainerrors "compass/pkg/domain-errors"
)

// TimeWindow is the observation period behavioral signals are computed over.
// Only the two values below are recognized; anything else is a validation
// error, never a silent default.
type TimeWindow string

const (
	TimeWindowShort TimeWindow = "short"
	TimeWindowLong  TimeWindow = "long"
)

// ParseTimeWindow validates and converts a raw string into a TimeWindow.
func ParseTimeWindow(s string) (TimeWindow, error) {
	switch TimeWindow(s) {
	case TimeWindowShort, TimeWindowLong:
		return TimeWindow(s), nil
	default:
		return "", domainerrors.Newf(domainerrors.CodeValidation, "time_window must be %q or %q, got %q", TimeWindowShort, TimeWindowLong, s)
	}
}

// Validate reports whether the window holds one of the recognized values.
func (w TimeWindow) Validate() error {
	_, err := ParseTimeWindow(string(w))
	return err
}

func (w TimeWindow) String() string { return string(w) }

// TimeWindows lists the recognized windows in a stable order.
func TimeWindows() []TimeWindow {
	return []TimeWindow{TimeWindowShort, TimeWindowLong}
}
