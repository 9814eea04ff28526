// Package locator defines the element lookup and interaction capability that
// page objects and the category tree navigator drive. Implementations wrap a
// browser automation library (see FromPage) or a static HTML snapshot (see
// package locatortest).
package locator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Lookup and wait failures. Implementations wrap these so callers can use
// errors.Is regardless of the automation library underneath.
var (
	ErrNotFound = errors.New("element not found")
	ErrTimeout  = errors.New("timed out")
)

// Query selects descendants of a scope by CSS selector and, optionally, by
// exact text. Text is compared against the element text after NormalizeSpace.
type Query struct {
	CSS  string
	Text string
}

// CSS returns a query matching selector.
func CSS(selector string) Query {
	return Query{CSS: selector}
}

// WithText narrows q to elements whose normalized text equals the normalized
// text.
func (q Query) WithText(text string) Query {
	q.Text = NormalizeSpace(text)
	return q
}

func (q Query) String() string {
	if q.Text == "" {
		return q.CSS
	}
	return fmt.Sprintf("%s[text=%q]", q.CSS, q.Text)
}

// Element is a lazily resolved reference to the first node matched by a
// chain of queries. Nothing is looked up until an operation runs, so an
// Element stays valid across re-renders of the page.
type Element interface {
	// Find returns the first descendant matching q.
	Find(q Query) Element
	// FindAll resolves every descendant matching q, in document order.
	FindAll(ctx context.Context, q Query) ([]Element, error)
	// Root returns the page-level scope the element belongs to.
	Root() Element

	Count(ctx context.Context) (int, error)
	// Attribute returns the attribute value and whether it is present.
	Attribute(ctx context.Context, name string) (string, bool, error)
	Text(ctx context.Context) (string, error)
	Click(ctx context.Context) error
	Fill(ctx context.Context, value string) error
	IsVisible(ctx context.Context) (bool, error)
	WaitVisible(ctx context.Context, timeout time.Duration) error
}

// Exists reports whether e currently resolves to at least one node.
func Exists(ctx context.Context, e Element) (bool, error) {
	n, err := e.Count(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// NormalizeSpace trims s and collapses every inner whitespace run to one space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TrimmedText returns the text of e with whitespace normalized.
func TrimmedText(ctx context.Context, e Element) (string, error) {
	text, err := e.Text(ctx)
	if err != nil {
		return "", err
	}
	return NormalizeSpace(text), nil
}

// HasClass reports whether the space separated class list contains name.
func HasClass(classList, name string) bool {
	for _, c := range strings.Fields(classList) {
		if c == name {
			return true
		}
	}
	return false
}
