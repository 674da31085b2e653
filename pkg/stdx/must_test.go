package stdx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMust1(t *testing.T) {
	t.Run("returns the value", func(t *testing.T) {
		assert.Equal(t, 42, Must1(42, nil))
	})

	t.Run("panics with the error", func(t *testing.T) {
		errBoom := errors.New("boom")
		assert.PanicsWithError(t, "boom", func() {
			Must1("ignored", errBoom)
		})
	})
}
