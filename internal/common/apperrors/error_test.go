package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	ErrBase := New("template error")
	assert.Equal(t, "template error", ErrBase.Error())
	assert.Equal(t, "derived", ErrBase.New("derived").Error())
	assert.ErrorIs(t, ErrBase, ErrBase)

	ErrNotFound := ErrBase.New("template not found")
	assert.Equal(t, "template not found", ErrNotFound.Error())
	assert.ErrorIs(t, ErrNotFound, ErrBase)

	ErrLoad := New("load failed")
	ErrLoadMsg := ErrLoad.Msg("manifest rejected")
	ErrWrapped := ErrNotFound.Err(ErrLoadMsg)
	assert.Equal(t, "template not found", ErrWrapped.Error())
	assert.ErrorIs(t, ErrWrapped, ErrBase)
	assert.ErrorIs(t, ErrWrapped, ErrNotFound)
	assert.ErrorIs(t, ErrWrapped, ErrLoad)
	assert.ErrorIs(t, ErrWrapped, ErrLoadMsg)

	plain := errors.New("connection refused")
	ErrWrapped = ErrNotFound.Err(plain)
	assert.Equal(t, "template not found", ErrWrapped.Error())
	assert.ErrorIs(t, ErrWrapped, plain)

	ErrWrapped = ErrNotFound.MsgErr("lookup aborted", plain)
	assert.Equal(t, "lookup aborted", ErrWrapped.Error())
	assert.ErrorIs(t, ErrWrapped, ErrNotFound)
	assert.ErrorIs(t, ErrWrapped, plain)

	errA := fmt.Errorf("first cause")
	errB := fmt.Errorf("second cause")
	multi := ErrNotFound.Err(errA, errB)
	assert.ErrorIs(t, multi, errA)
	assert.ErrorIs(t, multi, errB)
}

func TestErrorStatusCode(t *testing.T) {
	base := New("base").SetStatusCode(http.StatusInternalServerError)
	derived := base.New("missing slug").SetStatusCode(http.StatusBadRequest)

	assert.Equal(t, http.StatusInternalServerError, base.StatusCode())
	assert.Equal(t, http.StatusBadRequest, derived.StatusCode())

	// Msg and Err inherit the code of the error they derive from.
	assert.Equal(t, http.StatusBadRequest, derived.Msg("field empty").StatusCode())
	assert.Equal(t, http.StatusBadRequest, derived.Err(errors.New("x")).StatusCode())
}

func TestErrorAll(t *testing.T) {
	base := New("load failed").SetExpandError(true)
	wrapped := base.Err(errors.New("bad yaml"), errors.New("bad uuid"))
	assert.Equal(t, "load failed; load failed; bad yaml; bad uuid", wrapped.ErrorAll())

	collapsed := wrapped.SetExpandError(false)
	assert.Equal(t, "load failed", collapsed.ErrorAll())
	assert.Len(t, wrapped.UnwrapAll(), 3)
}
