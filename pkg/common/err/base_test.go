package err

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "full",
			err:  New("aar", CodeInvalidFormat, "open", "not a zip file", errors.New("zip: not a valid zip file")),
			want: "[aar][INVALID_ARCHIVE_FORMAT]: open: not a zip file: zip: not a valid zip file",
		},
		{
			name: "no message",
			err:  New("repackager", CodeWriteFailed, "write", "", os.ErrPermission),
			want: "[repackager][WRITE_FAILED]: write: permission denied",
		},
		{
			name: "only wrapped",
			err:  &Error{Err: os.ErrNotExist},
			want: "file does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_IsMatchesCode(t *testing.T) {
	sentinel := New("repackager", CodeInputNotFound, "", "input archive not found", nil)
	actual := New("repackager", CodeInputNotFound, "stat", "", os.ErrNotExist)

	assert.True(t, errors.Is(actual, sentinel))
	assert.True(t, errors.Is(actual, os.ErrNotExist))
	assert.False(t, errors.Is(actual, New("repackager", CodeWriteFailed, "", "", nil)))
	assert.False(t, errors.Is(&Error{}, &Error{}), "empty codes never match")
}

func TestIsCode_WalksChain(t *testing.T) {
	inner := New("aar", CodeInvalidFormat, "open", "", nil)
	outer := WrapWithCode(inner, "repackager", CodeExtractionFailed, "extract")
	wrapped := fmt.Errorf("batch: %w", outer)

	assert.True(t, IsCode(wrapped, CodeExtractionFailed))
	assert.True(t, IsCode(wrapped, CodeInvalidFormat))
	assert.False(t, IsCode(wrapped, CodeWriteFailed))
	assert.Equal(t, CodeExtractionFailed, GetCode(wrapped))
	assert.Equal(t, "repackager", GetPackage(wrapped))
	assert.Equal(t, "extract", GetOp(wrapped))
}

func TestWrapWithCode_Nil(t *testing.T) {
	assert.NoError(t, WrapWithCode(nil, "aar", CodeInternal, "open"))
}

func TestError_Context(t *testing.T) {
	e := New("aar", CodeInvalidFormat, "extract", "", nil).
		WithContext("entry", "../evil").
		WithContext("index", 3)

	require.NotNil(t, e.Context)
	assert.Equal(t, "../evil", e.GetContext("entry"))
	assert.Equal(t, 3, e.GetContext("index"))
	assert.Nil(t, e.GetContext("missing"))
	assert.Nil(t, (&Error{}).GetContext("any"))
}
