package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrMissingAskService(t *testing.T) {
	assert.Equal(t, "tui: ask service is required", ErrMissingAskService.Error())
}
