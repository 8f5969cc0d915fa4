package errors

import (
	"strings"
	"testing"
)

func TestValidateRoomName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid snake", "living_room", false},
		{"valid spaced", "dining room", false},
		{"unknown but well-formed", "sauna", false},
		{"empty", "", false},
		{"whitespace", "   ", false},
		{"long", strings.Repeat("a", 200), false},

		{"null byte", "bed\x00room", true},
		{"newline", "bed\nroom", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRoomName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRoomName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateRoomName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateRequest(t *testing.T) {
	if err := ValidateRequest(nil); err != nil {
		t.Errorf("empty request should be left to the builder: %v", err)
	}

	large := make([]string, 100)
	for i := range large {
		large[i] = "bedroom"
	}
	if err := ValidateRequest(append(large, "", "sauna")); err != nil {
		t.Errorf("large request with blank and unknown names should pass: %v", err)
	}

	err := ValidateRequest([]string{"kitchen", "bath\troom"})
	if err == nil {
		t.Fatal("request with control characters should fail")
	}
	if !Is(err, ErrCodeInvalidInput) {
		t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
	}
	if got := err.Error(); strings.Count(got, string(ErrCodeInvalidInput)) != 1 || !strings.HasPrefix(got, "room 1: ") {
		t.Errorf("Error() = %q, want one code after the room prefix", got)
	}
}
