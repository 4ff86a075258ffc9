package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReturnsATerminal(t *testing.T) {
	var tm Terminal = New()
	assert.NotNil(t, tm)
}
