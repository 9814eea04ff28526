package treenav

import (
	"context"
	"fmt"

	"github.com/themizzi/simplecom/internal/locator"
)

// Category is one top level entry of the tree, identified by its display text.
type Category struct {
	Name          string        `json:"name"`
	Subcategories []Subcategory `json:"subcategories"`
}

// Subcategory is a link inside a category body.
type Subcategory struct {
	Name string `json:"name"`
}

// ExtractTree reads every category and its subcategories in document order.
// Collapsed categories are expanded to be read and collapsed again, so the
// tree is left as it was found. Headers with empty text are skipped and leaf
// headers are reported with no subcategories.
//
// An empty tree is not an error.
func (n *Navigator) ExtractTree(ctx context.Context) ([]Category, error) {
	headers, err := n.container().FindAll(ctx, locator.CSS(n.markup.Header))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	tree := make([]Category, 0, len(headers))
	for _, header := range headers {
		name, err := locator.TrimmedText(ctx, header)
		if err != nil {
			return nil, fmt.Errorf("read category header: %w", err)
		}
		if name == "" {
			continue
		}
		cat, err := n.readCategory(ctx, name, header)
		if err != nil {
			return nil, categoryError(name, err)
		}
		tree = append(tree, cat)
	}
	n.log.Debug().Int("categories", len(tree)).Msg("extracted tree")
	return tree, nil
}

func (n *Navigator) readCategory(ctx context.Context, name string, header locator.Element) (Category, error) {
	cat := Category{Name: name, Subcategories: []Subcategory{}}
	p, err := n.panelOf(ctx, name, header)
	if err != nil {
		return cat, err
	}
	if p.leaf() {
		return cat, nil
	}

	before, err := p.set(ctx, Expanded)
	if err != nil {
		return cat, err
	}
	subs, err := p.links(ctx)
	if err != nil {
		return cat, err
	}
	cat.Subcategories = subs
	if before == Collapsed {
		if err := p.flip(ctx, Collapsed); err != nil {
			return cat, err
		}
	}
	return cat, nil
}
