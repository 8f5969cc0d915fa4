package errors

import (
	"fmt"
	"unicode"
)

// ValidateRoomName rejects room-type names that carry control characters.
// Catalog membership is not checked here: blank, over-long and unknown names
// reach the graph builder, which drops them with a warning.
func ValidateRoomName(name string) error {
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "room name %q contains control characters", name)
		}
	}
	return nil
}

// ValidateRequest checks every name of a layout request. Request size is not
// limited, and an empty request is left to the graph builder, which reports
// EMPTY_REQUEST.
func ValidateRequest(names []string) error {
	for i, name := range names {
		if err := ValidateRoomName(name); err != nil {
			return fmt.Errorf("room %d: %w", i, err)
		}
	}
	return nil
}
