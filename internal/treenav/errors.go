package treenav

import (
	"errors"
	"fmt"

	"github.com/themizzi/simplecom/internal/locator"
)

var (
	// ErrNotFound is returned when a category or subcategory name matches
	// nothing.
	ErrNotFound = locator.ErrNotFound
	// ErrTimeout is returned when the tree does not become ready, or a
	// panel does not settle, in time.
	ErrTimeout = locator.ErrTimeout
	// ErrNoCollapsePanel is returned for panel operations on a category
	// that has no toggle or no collapsible body.
	ErrNoCollapsePanel = errors.New("no collapse panel")
)

// LookupError reports a failed name based operation.
type LookupError struct {
	// Kind is "category" or "subcategory".
	Kind     string
	Name     string
	Category string
	Err      error
}

func (e *LookupError) Error() string {
	if e.Kind == "subcategory" {
		return fmt.Sprintf("subcategory %q in category %q: %v", e.Name, e.Category, e.Err)
	}
	return fmt.Sprintf("category %q: %v", e.Name, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func categoryError(name string, err error) error {
	return &LookupError{Kind: "category", Name: name, Category: name, Err: err}
}

func subcategoryError(category, name string, err error) error {
	return &LookupError{Kind: "subcategory", Name: name, Category: category, Err: err}
}
