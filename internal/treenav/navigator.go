// Package treenav drives a collapsible category tree rendered as accordion
// panels: one header per category, each optionally owning a toggle and a
// collapsible body of subcategory links.
//
// State is read from the page on every call. A Navigator must be driven by
// one goroutine at a time, the same as the page it wraps.
package treenav

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/themizzi/simplecom/internal/locator"
)

// Options configure a Navigator. The zero value uses Bootstrap markup, a
// PollSettler with default timings and the global logger.
type Options struct {
	Markup  Markup
	Settler Settler
	Logger  *zerolog.Logger
}

// Navigator reads and changes a category tree below a root scope.
type Navigator struct {
	root    locator.Element
	markup  Markup
	settler Settler
	log     zerolog.Logger
}

// New returns a Navigator for the tree enclosed by root.
func New(root locator.Element, opts Options) *Navigator {
	n := &Navigator{
		root:    root,
		markup:  opts.Markup.withDefaults(),
		settler: opts.Settler,
		log:     log.Logger,
	}
	if n.settler == nil {
		n.settler = PollSettler{}
	}
	if opts.Logger != nil {
		n.log = *opts.Logger
	}
	n.log = n.log.With().Str("component", "treenav").Logger()
	return n
}

func (n *Navigator) container() locator.Element {
	return n.root.Find(locator.CSS(n.markup.Container))
}

// WaitUntilReady blocks until the tree container is visible.
func (n *Navigator) WaitUntilReady(ctx context.Context, timeout time.Duration) error {
	if err := n.container().WaitVisible(ctx, timeout); err != nil {
		if errors.Is(err, locator.ErrTimeout) {
			return fmt.Errorf("category tree not ready: %w", err)
		}
		return err
	}
	return nil
}

// IsReady reports whether the tree container is visible right now.
func (n *Navigator) IsReady(ctx context.Context) (bool, error) {
	return n.container().IsVisible(ctx)
}

// IsCategoryExpanded reports whether the named category's body is expanded.
func (n *Navigator) IsCategoryExpanded(ctx context.Context, name string) (bool, error) {
	p, err := n.collapsible(ctx, name)
	if err != nil {
		return false, err
	}
	state, err := p.State(ctx)
	if err != nil {
		return false, categoryError(name, err)
	}
	return state == Expanded, nil
}

// ExpandCategory expands the named category. It does nothing when the
// category is already expanded.
func (n *Navigator) ExpandCategory(ctx context.Context, name string) error {
	return n.setState(ctx, name, Expanded)
}

// CollapseCategory collapses the named category. It does nothing when the
// category is already collapsed.
func (n *Navigator) CollapseCategory(ctx context.Context, name string) error {
	return n.setState(ctx, name, Collapsed)
}

func (n *Navigator) setState(ctx context.Context, name string, want PanelState) error {
	p, err := n.collapsible(ctx, name)
	if err != nil {
		return err
	}
	if _, err := p.set(ctx, want); err != nil {
		return categoryError(name, err)
	}
	return nil
}

// Subcategories expands the named category and returns its subcategories.
// The category is left expanded.
func (n *Navigator) Subcategories(ctx context.Context, name string) ([]Subcategory, error) {
	p, err := n.collapsible(ctx, name)
	if err != nil {
		return nil, err
	}
	if _, err := p.set(ctx, Expanded); err != nil {
		return nil, categoryError(name, err)
	}
	subs, err := p.links(ctx)
	if err != nil {
		return nil, categoryError(name, err)
	}
	return subs, nil
}

// Toggle clicks the named category's toggle once and waits for the panel to
// settle in the opposite state.
func (n *Navigator) Toggle(ctx context.Context, name string) error {
	p, err := n.collapsible(ctx, name)
	if err != nil {
		return err
	}
	state, err := p.State(ctx)
	if err != nil {
		return categoryError(name, err)
	}
	if err := p.flip(ctx, state.Flip()); err != nil {
		return categoryError(name, err)
	}
	return nil
}

// Open expands the named category if needed and clicks the subcategory link
// whose text is exactly subcategory. The click usually navigates away.
func (n *Navigator) Open(ctx context.Context, name, subcategory string) error {
	p, err := n.collapsible(ctx, name)
	if err != nil {
		return err
	}
	if _, err := p.set(ctx, Expanded); err != nil {
		return categoryError(name, err)
	}
	link := p.body.Find(locator.CSS(n.markup.Link).WithText(subcategory))
	ok, err := locator.Exists(ctx, link)
	if err != nil {
		return subcategoryError(name, subcategory, err)
	}
	if !ok {
		return subcategoryError(name, subcategory, ErrNotFound)
	}
	n.log.Debug().Str("category", name).Str("subcategory", subcategory).Msg("open subcategory")
	if err := link.Click(ctx); err != nil {
		return subcategoryError(name, subcategory, err)
	}
	return nil
}

// Click toggles the named category, or opens one of its subcategories when
// a subcategory name is given.
func (n *Navigator) Click(ctx context.Context, name string, subcategory ...string) error {
	switch len(subcategory) {
	case 0:
		return n.Toggle(ctx, name)
	case 1:
		return n.Open(ctx, name, subcategory[0])
	}
	return fmt.Errorf("click %q: at most one subcategory, got %d", name, len(subcategory))
}

// lookup finds the first header whose trimmed text is name.
func (n *Navigator) lookup(ctx context.Context, name string) (*panel, error) {
	header := n.container().Find(locator.CSS(n.markup.Header).WithText(name))
	ok, err := locator.Exists(ctx, header)
	if err != nil {
		return nil, categoryError(name, err)
	}
	if !ok {
		return nil, categoryError(name, ErrNotFound)
	}
	p, err := n.panelOf(ctx, name, header)
	if err != nil {
		return nil, categoryError(name, err)
	}
	return p, nil
}

// collapsible is lookup for operations that need a toggle and a body.
func (n *Navigator) collapsible(ctx context.Context, name string) (*panel, error) {
	p, err := n.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if p.leaf() {
		return nil, categoryError(name, ErrNoCollapsePanel)
	}
	return p, nil
}

// panelOf resolves the toggle and body of a header. Either is left nil when
// the header has no toggle, the toggle names no body, or the named body is
// not in the document.
func (n *Navigator) panelOf(ctx context.Context, name string, header locator.Element) (*panel, error) {
	p := &panel{nav: n, name: name}

	toggle := header.Find(locator.CSS(n.markup.Toggle))
	ok, err := locator.Exists(ctx, toggle)
	if err != nil || !ok {
		return p, err
	}
	p.toggle = toggle

	ref, err := n.bodyRef(ctx, toggle)
	if err != nil || ref == "" {
		return p, err
	}
	body := n.root.Root().Find(locator.CSS(ref))
	ok, err = locator.Exists(ctx, body)
	if err != nil || !ok {
		return p, err
	}
	p.body = body
	return p, nil
}

func (n *Navigator) bodyRef(ctx context.Context, toggle locator.Element) (string, error) {
	for _, attr := range n.markup.BodyRefAttrs {
		v, ok, err := toggle.Attribute(ctx, attr)
		if err != nil {
			return "", err
		}
		v = strings.TrimSpace(v)
		if !ok || len(v) < 2 {
			continue
		}
		if strings.HasPrefix(v, "#") || strings.HasPrefix(v, ".") {
			return v, nil
		}
	}
	return "", nil
}
