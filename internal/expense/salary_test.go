package expense

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPercentage(t *testing.T) {
	assert.Equal(t, 0.0, clampPercentage(-5))
	assert.Equal(t, 0.0, clampPercentage(0))
	assert.Equal(t, 40.0, clampPercentage(40))
	assert.Equal(t, 100.0, clampPercentage(100))
	assert.Equal(t, 100.0, clampPercentage(250))
}
