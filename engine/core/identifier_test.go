package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifierReuse(t *testing.T) {
	a, b := &struct{ n int }{1}, &struct{ n int }{2}
	idA := IdentifierAcquireNewID(a)
	idB := IdentifierAcquireNewID(b)
	assert.NotEqual(t, idA, idB)
	assert.Same(t, a, IdentifierOwner(idA))

	require.NoError(t, IdentifierReleaseID(idA))
	assert.Nil(t, IdentifierOwner(idA))
	c := &struct{ n int }{3}
	assert.Equal(t, idA, IdentifierAcquireNewID(c))

	assert.Error(t, IdentifierReleaseID(1<<30))
	require.NoError(t, IdentifierReleaseID(idA))
	require.NoError(t, IdentifierReleaseID(idB))
}
