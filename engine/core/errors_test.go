package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	fatal := ErrorFatal("Point count (%d) above limit (%d)!", 70000, 65000)
	ignorable := ErrorIgnorable("I only understand scale as point attributes!")

	assert.True(t, IsFatal(fatal))
	assert.False(t, IsIgnorable(fatal))
	assert.True(t, IsIgnorable(ignorable))
	assert.False(t, IsFatal(ignorable))
	assert.Equal(t, "hapi fatal error: Point count (70000) above limit (65000)!", fatal.Error())

	wrapped := fmt.Errorf("object 3: %w", ignorable)
	assert.True(t, IsIgnorable(wrapped))

	plain := errors.New("plain")
	assert.False(t, IsFatal(plain))
	assert.False(t, IsIgnorable(plain))
}

func TestWrapFatal(t *testing.T) {
	assert.Nil(t, WrapFatal(nil, "nothing"))

	err := WrapFatal(ErrPartNotFound, "get part of object %d", 4)
	assert.True(t, IsFatal(err))
	assert.ErrorIs(t, err, ErrPartNotFound)
	assert.Contains(t, err.Error(), "get part of object 4")
	assert.Equal(t, "ignorable", ErrorKindIgnorable.String())
}
