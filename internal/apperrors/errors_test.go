package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSheetError(t *testing.T) {
	t.Parallel()

	err := NewSheetError("A1 Grid", ErrSheetMalformed)
	assert.ErrorIs(t, err, ErrSheetMalformed)
	assert.Contains(t, err.Error(), "A1 Grid")

	var sheetErr *SheetError
	assert.ErrorAs(t, fmt.Errorf("ingest: %w", err), &sheetErr)
	assert.Equal(t, "A1 Grid", sheetErr.Sheet)
}

func TestTransportError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := NewTransportError("fetch rows", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "fetch rows")
}
