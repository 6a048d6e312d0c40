package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCodeThroughWrapping(t *testing.T) {
	base := New(CodeStorage, "write failed").WithMeta("key", "ideas")
	wrapped := fmt.Errorf("save idea: %w", base)

	assert.True(t, IsCode(wrapped, CodeStorage))
	assert.False(t, IsCode(wrapped, CodeInvalid))
	assert.Equal(t, CodeStorage, CodeOf(wrapped))
	assert.Equal(t, "ideas", base.Meta["key"])
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, CodeUnknown, CodeOf(fmt.Errorf("boom")))
	assert.Equal(t, CodeUnknown, CodeOf(nil))
}

func TestWrapNil(t *testing.T) {
	err := Wrap(nil, CodeInternal, "nothing underneath")
	assert.Nil(t, err.Err)
	assert.Equal(t, "internal: nothing underneath", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeInvalid:     http.StatusBadRequest,
		CodeConflict:    http.StatusConflict,
		CodeUpstream:    http.StatusBadGateway,
		CodeBadResponse: http.StatusBadGateway,
		CodeStorage:     http.StatusInternalServerError,
		CodeUnavailable: http.StatusServiceUnavailable,
		CodeUnknown:     http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatus(code), string(code))
	}
}
