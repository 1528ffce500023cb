package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	err := Error(EMALFORMED, "cannot parse %q", "1,a")
	if Code(err) != EMALFORMED {
		t.Errorf("expected code %d, have %d", EMALFORMED, Code(err))
	}
	assert.Equal(t, `cannot parse "1,a"`, UserMessage(err))
	assert.Equal(t, NOERROR, Code(nil))
	assert.Equal(t, EINTERNAL, Code(errors.New("plain")))
}

func TestWrapError(t *testing.T) {
	inner := errors.New("boom")
	err := WrapError(inner, EMISSING, "element %s not found", "#p1")
	assert.True(t, errors.Is(err, inner))
	assert.Equal(t, EMISSING, Code(err))
}

func TestErrorList(t *testing.T) {
	el := &ErrorList{}
	Report(el, nil)
	Report(el, Error(EINVALID, "x"))
	Report(nil, Error(EINVALID, "y"))
	assert.Equal(t, 1, el.Len())
	assert.Contains(t, el.String(), "[123] x")
	el.Reset()
	assert.Equal(t, 0, el.Len())
}
