package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/luzi-app/luzi/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidExpense = errors.New("invalid expense")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateDraft validates an expense draft before writing it.
func validateDraft(draft *model.ExpenseDraft) error {
	if draft == nil {
		return fmt.Errorf("%w: draft", ErrNilParameter)
	}
	if err := draft.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidExpense, err)
	}
	return nil
}
