// Package tools implements the agent's callable tools.
package tools

import (
	"encoding/json"
	"fmt"
	"time"
)

// decodeInput converts a tool invocation's raw input map into a typed
// struct via a JSON round trip.
func decodeInput(input map[string]interface{}, dst interface{}) error {
	raw, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to parse input: %w", err)
	}
	return nil
}

// parseDateTime accepts ISO 8601 datetimes with or without a zone
// offset. Naive values are interpreted in loc.
func parseDateTime(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", value, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", value, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q, expected ISO 8601", value)
}

// CalendarIDResolver returns the calendar a chat's events go to.
type CalendarIDResolver interface {
	CalendarID(phone string) string
}
