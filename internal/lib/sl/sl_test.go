package sl_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/destipicker/internal/lib/sl"
)

func TestErr_ReturnsCorrectAttr(t *testing.T) {
	attr := sl.Err(errors.New("places: request timed out"))

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.StringValue("places: request timed out"), attr.Value)
}

func TestErr_NilError(t *testing.T) {
	assert.NotPanics(t, func() {
		attr := sl.Err(nil)
		assert.Equal(t, "", attr.Value.String())
	})
}

func TestUser(t *testing.T) {
	attr := sl.User("6a1f")
	assert.Equal(t, "user_id", attr.Key)
	assert.Equal(t, "6a1f", attr.Value.String())
}
