package domain

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("batch: %w", NewError(KindDecodeError, "a.heic", errors.New("bad header")))

	assert.Equal(t, KindDecodeError, KindOf(err))
	assert.True(t, errors.Is(err, ErrDecode))
	assert.False(t, errors.Is(err, ErrEncode))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
}

func TestErrorKeepsCauseMessage(t *testing.T) {
	e := NewError(KindInputNotFound, "missing.heic", os.ErrNotExist)

	assert.Equal(t, "InputNotFound: missing.heic: file does not exist", e.Error())
	assert.ErrorIs(t, e, os.ErrNotExist)
}

func TestOutcomeFirstSuccess(t *testing.T) {
	o := Outcome{Results: []Result{
		Failed("x.heic", NewError(KindInputNotFound, "x.heic", nil)),
		Succeeded("a.heic", "/out/a.jpg"),
		Succeeded("b.jpg", "/out/b.jpg"),
	}}

	path, ok := o.FirstSuccess()
	assert.True(t, ok)
	assert.Equal(t, "/out/a.jpg", path)

	okCount, failed := o.Counts()
	assert.Equal(t, 2, okCount)
	assert.Equal(t, 1, failed)

	_, ok = Outcome{}.FirstSuccess()
	assert.False(t, ok)
}
