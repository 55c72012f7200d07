package errl

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pkgerrors "github.com/pkg/errors"
)

func TestErrorfKeepsWrappedCause(t *testing.T) {
	err := Errorf("reading body: %w", io.ErrUnexpectedEOF)

	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, "reading body: unexpected EOF", err.Error())
}

func TestErrorNil(t *testing.T) {
	assert.NoError(t, Error(nil))
}

func TestErrorDoesNotStackTwice(t *testing.T) {
	first := Error(io.EOF)
	second := Error(first)

	assert.Same(t, first, second)
}

func TestWhere(t *testing.T) {
	err := Errorf("boom")
	assert.True(t, strings.HasPrefix(Where(err), "errl_test.go:"), Where(err))

	assert.Empty(t, Where(io.EOF))
	assert.NotEmpty(t, Where(pkgerrors.New("x")))
}
