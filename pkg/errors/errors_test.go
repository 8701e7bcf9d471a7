package errors

import (
	"context"
	stderrors "errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapHelpersPreserveNil(t *testing.T) {
	assert.NoError(t, WrapIO("read", "packs/anvil.md", nil))
	assert.NoError(t, WrapParse("yaml", "anvil.yaml", nil))
	assert.NoError(t, WrapSource("maps", nil))
}

func TestWrapIO(t *testing.T) {
	err := WrapIO("read", "packs/anvil.md", fs.ErrNotExist)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var ioErr *IOError
	assert.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "read", ioErr.Operation)
	assert.Contains(t, err.Error(), "packs/anvil.md")
}

func TestWrapSource(t *testing.T) {
	err := WrapSource("load", ErrNoUsableSource)
	assert.ErrorIs(t, err, ErrNoUsableSource)

	var srcErr *SourceError
	assert.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "load", srcErr.Source)
}

func TestValidationErrorIsInvalidInput(t *testing.T) {
	err := NewValidationError("fuzzy threshold", 1.5, "must be in (0,1]")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "fuzzy threshold")
}

func TestSentinelChecks(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound))
	assert.True(t, IsNotFound(WrapSource("wiki", ErrNotFound)))
	assert.False(t, IsNotFound(ErrNoCatalog))

	assert.True(t, IsNoCatalog(ErrNoCatalog))
	assert.False(t, IsNoCatalog(ErrNotFound))

	assert.True(t, IsTimeout(context.DeadlineExceeded))
	assert.True(t, IsTimeout(ErrTimeout))
	assert.True(t, IsCanceled(context.Canceled))
	assert.True(t, IsCanceled(ErrCanceled))
	assert.False(t, IsCanceled(stderrors.New("other")))
}
