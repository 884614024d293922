package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestLocationError(t *testing.T) {
	err := New("delete", "[0,1]:2", ErrInvalidLocation)

	if got, want := err.Error(), "delete [0,1]:2: invalid location"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if err.Unwrap() != ErrInvalidLocation {
		t.Error("Unwrap() should return the error kind")
	}

	bare := New("trace", nil, ErrExpectedText)
	if got, want := bare.Error(), "trace: expected text node"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		err      error
		rejected bool
		internal bool
	}{
		{ErrInvalidLocation, false, true},
		{ErrInvalidRange, false, true},
		{ErrExpectedContainer, false, true},
		{ErrExpectedText, false, true},
		{ErrOperationRejected, true, false},
		{fmt.Errorf("wrapped: %w", New("break", "[]:0", ErrOperationRejected)), true, false},
		{fmt.Errorf("wrapped: %w", ErrInvalidRange), false, true},
		{errors.New("other"), false, false},
	}

	for _, tt := range tests {
		if got := IsRejected(tt.err); got != tt.rejected {
			t.Errorf("IsRejected(%v) = %v, want %v", tt.err, got, tt.rejected)
		}
		if got := IsInternal(tt.err); got != tt.internal {
			t.Errorf("IsInternal(%v) = %v, want %v", tt.err, got, tt.internal)
		}
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	all := []error{
		ErrInvalidLocation,
		ErrInvalidRange,
		ErrExpectedContainer,
		ErrExpectedText,
		ErrOperationRejected,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v should not match %v", a, b)
			}
		}
	}
}
