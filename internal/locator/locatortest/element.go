package locatortest

import (
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/themizzi/simplecom/internal/locator"
)

const pollInterval = 5 * time.Millisecond

// element is either the document root, a node bound by FindAll, or a lazy
// first-match query below a parent element.
type element struct {
	doc    *Document
	parent *element
	query  locator.Query
	node   *html.Node
	desc   string
}

// resolve returns the current matches. Callers hold doc.mu.
func (e *element) resolve() *goquery.Selection {
	switch {
	case e.node != nil:
		return e.doc.selection(e.node)
	case e.parent == nil:
		return e.doc.doc.Selection
	}
	return match(e.parent.resolve(), e.query).First()
}

func match(scope *goquery.Selection, q locator.Query) *goquery.Selection {
	found := scope.Find(q.CSS)
	if q.Text == "" {
		return found
	}
	return found.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return locator.NormalizeSpace(s.Text()) == q.Text
	})
}

// first resolves the element to a single node or fails with ErrNotFound.
// Callers hold doc.mu.
func (e *element) first() (*html.Node, error) {
	e.doc.advance()
	sel := e.resolve()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%s: %w", e.desc, locator.ErrNotFound)
	}
	return sel.Nodes[0], nil
}

func (e *element) Find(q locator.Query) locator.Element {
	return &element{
		doc:    e.doc,
		parent: e,
		query:  q,
		desc:   e.desc + " >> " + q.String(),
	}
}

func (e *element) FindAll(ctx context.Context, q locator.Query) ([]locator.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.doc.advance()

	found := match(e.resolve(), q)
	elements := make([]locator.Element, 0, found.Length())
	for i, n := range found.Nodes {
		elements = append(elements, &element{
			doc:  e.doc,
			node: n,
			desc: fmt.Sprintf("%s >> %s[%d]", e.desc, q, i),
		})
	}
	return elements, nil
}

func (e *element) Root() locator.Element {
	return e.doc.Root()
}

func (e *element) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.doc.advance()
	return e.resolve().Length(), nil
}

func (e *element) Attribute(ctx context.Context, name string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	node, err := e.first()
	if err != nil {
		return "", false, err
	}
	for _, a := range node.Attr {
		if a.Key == name {
			return a.Val, true, nil
		}
	}
	return "", false, nil
}

func (e *element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	node, err := e.first()
	if err != nil {
		return "", err
	}
	return e.doc.selection(node).Text(), nil
}

func (e *element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	node, err := e.first()
	if err != nil {
		return err
	}
	if !visible(node) {
		return fmt.Errorf("click %s: element is not visible: %w", e.desc, locator.ErrTimeout)
	}
	e.doc.click(node)
	return nil
}

func (e *element) Fill(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	node, err := e.first()
	if err != nil {
		return err
	}
	e.doc.selection(node).SetAttr("value", value)
	return nil
}

func (e *element) IsVisible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.doc.advance()
	sel := e.resolve()
	if sel.Length() == 0 {
		return false, nil
	}
	return visible(sel.Nodes[0]), nil
}

func (e *element) WaitVisible(ctx context.Context, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		ok, err := e.IsVisible(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return fmt.Errorf("%s not visible after %s: %w", e.desc, timeout, locator.ErrTimeout)
		case <-ticker.C:
		}
	}
}
