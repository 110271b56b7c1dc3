package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/itemquery/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrEmptyCatalog = errors.New("catalog has no stat groups")
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

// validateCatalog checks a catalog before it is written.
func validateCatalog(cat *model.Catalog) error {
	if cat == nil {
		return fmt.Errorf("%w: catalog", ErrNilParameter)
	}
	if len(cat.Groups) == 0 {
		return ErrEmptyCatalog
	}
	for gi, g := range cat.Groups {
		for ei, e := range g.Entries {
			if strings.TrimSpace(e.ID) == "" {
				return fmt.Errorf("%w: stat id of entry %d in group %d", ErrEmptyString, ei, gi)
			}
		}
	}
	return nil
}
