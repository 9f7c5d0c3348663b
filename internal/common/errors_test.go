package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	inner := errors.New("boom")
	err := NewUserError("could not process client 7", inner)

	assert.Equal(t, "could not process client 7: boom", err.Error())
	assert.ErrorIs(t, err, inner)

	var userErr *UserError
	assert.ErrorAs(t, err, &userErr)
	assert.Equal(t, "could not process client 7", userErr.UserMessage)
}

func TestUserErrorWithoutCause(t *testing.T) {
	err := NewUserError("nothing to do", nil)
	assert.Equal(t, "nothing to do", err.Error())
}

func TestIsClientSkippable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unknown client", err: fmt.Errorf("client 9: %w", ErrUnknownClient), want: true},
		{name: "missing client data", err: ErrMissingClientData, want: true},
		{name: "missing population data", err: ErrMissingPopulationData, want: false},
		{name: "arbitrary error", err: errors.New("disk on fire"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsClientSkippable(tt.err))
		})
	}
}
