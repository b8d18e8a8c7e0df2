package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsInnermostCode(t *testing.T) {
	base := UnknownColumn("region")
	wrapped := Wrap(fmt.Errorf("render: %w", base), "filter failed")

	assert.Equal(t, CodeUnknownColumn, GetCode(wrapped))
	assert.True(t, HasCode(wrapped, CodeUnknownColumn))
	assert.Contains(t, wrapped.Error(), `unknown column "region"`)
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	wrapped := Wrap(stderrors.New("boom"), "context")
	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Equal(t, "context: boom", wrapped.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Nil(t, Wrapf(nil, "ignored %d", 1))
}

func TestGetCodeUnknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
	assert.False(t, HasCode(nil, CodeParseError))
	assert.False(t, IsAppError(stderrors.New("plain")))
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		err  *AppError
		code string
	}{
		{ParseError("bad csv", stderrors.New("quote")), CodeParseError},
		{ParseErrorf("row %d has %d fields", 3, 2), CodeParseError},
		{EmptyDataset("sales.csv"), CodeEmptyDataset},
		{EmptyDataset(""), CodeEmptyDataset},
		{NoApplicableChart("histogram", "no numeric column selected"), CodeNoApplicableChart},
		{InvalidFilter("val", "min greater than max"), CodeInvalidFilter},
		{NotFound("dataset"), CodeNotFound},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.Code)
		assert.NotEmpty(t, tt.err.Error())
		assert.NotEmpty(t, UserMessage(tt.err))
	}
}

func TestParseErrorUnwrap(t *testing.T) {
	cause := stderrors.New("wrong number of fields")
	err := ParseError("failed to read CSV", cause)
	assert.True(t, stderrors.Is(err, cause))
}
