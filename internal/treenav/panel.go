package treenav

import (
	"context"
	"strconv"
	"strings"

	"github.com/themizzi/simplecom/internal/locator"
)

// PanelState is the expand/collapse state of one category body.
type PanelState int

const (
	Collapsed PanelState = iota
	Expanded
)

func (s PanelState) String() string {
	if s == Expanded {
		return "expanded"
	}
	return "collapsed"
}

// Flip returns the state a toggle click leads to.
func (s PanelState) Flip() PanelState {
	if s == Expanded {
		return Collapsed
	}
	return Expanded
}

// PanelSignals are the raw state indicators of a toggle and its body.
type PanelSignals struct {
	// AriaExpanded is nil when the attribute is absent or not a boolean.
	AriaExpanded *bool
	// BodyShown is nil when the body carries neither the shown nor the
	// hidden marker, as during a transition.
	BodyShown *bool
	// ClassCollapsed reports whether the toggle carries the collapsed
	// marker class.
	ClassCollapsed bool
}

// State derives the panel state. aria-expanded decides; without it the body
// markers decide, and the toggle's collapsed class is the last resort.
func (p PanelSignals) State() PanelState {
	expanded := !p.ClassCollapsed
	switch {
	case p.AriaExpanded != nil:
		expanded = *p.AriaExpanded
	case p.BodyShown != nil:
		expanded = *p.BodyShown
	}
	if expanded {
		return Expanded
	}
	return Collapsed
}

// Diverged reports whether aria-expanded is present and another signal
// disagrees with it.
func (p PanelSignals) Diverged() bool {
	if p.AriaExpanded == nil {
		return false
	}
	aria := *p.AriaExpanded
	return aria == p.ClassCollapsed || (p.BodyShown != nil && *p.BodyShown != aria)
}

// panel is one category header with its toggle and body. A leaf has neither.
type panel struct {
	nav    *Navigator
	name   string
	toggle locator.Element
	body   locator.Element
}

func (p *panel) leaf() bool {
	return p.toggle == nil || p.body == nil
}

func (p *panel) signals(ctx context.Context) (PanelSignals, error) {
	var sig PanelSignals
	aria, ok, err := p.toggle.Attribute(ctx, p.nav.markup.ExpandedAttr)
	if err != nil {
		return sig, err
	}
	if ok {
		if v, err := strconv.ParseBool(strings.TrimSpace(aria)); err == nil {
			sig.AriaExpanded = &v
		}
	}
	class, _, err := p.toggle.Attribute(ctx, "class")
	if err != nil {
		return sig, err
	}
	sig.ClassCollapsed = locator.HasClass(class, p.nav.markup.CollapsedClass)

	body, _, err := p.body.Attribute(ctx, "class")
	if err != nil {
		return sig, err
	}
	switch m := p.nav.markup; {
	case locator.HasClass(body, m.ShownClass):
		shown := true
		sig.BodyShown = &shown
	case locator.HasClass(body, m.HiddenClass):
		shown := false
		sig.BodyShown = &shown
	}
	return sig, nil
}

// State reads the signals once and logs when they disagree.
func (p *panel) State(ctx context.Context) (PanelState, error) {
	sig, err := p.signals(ctx)
	if err != nil {
		return Collapsed, err
	}
	state := sig.State()
	if sig.Diverged() {
		p.nav.log.Debug().
			Str("category", p.name).
			Bool("aria_expanded", *sig.AriaExpanded).
			Bool("class_collapsed", sig.ClassCollapsed).
			Interface("body_shown", sig.BodyShown).
			Stringer("state", state).
			Msg("panel state signals disagree")
	}
	return state, nil
}

func (p *panel) Transitioning(ctx context.Context) (bool, error) {
	class, _, err := p.body.Attribute(ctx, "class")
	if err != nil {
		return false, err
	}
	return locator.HasClass(class, p.nav.markup.TransitionClass), nil
}

// set clicks the toggle when the panel is not in want and waits for it to
// settle. It reports the state found before any click.
func (p *panel) set(ctx context.Context, want PanelState) (PanelState, error) {
	before, err := p.State(ctx)
	if err != nil {
		return before, err
	}
	if before == want {
		return before, nil
	}
	return before, p.flip(ctx, want)
}

func (p *panel) flip(ctx context.Context, want PanelState) error {
	p.nav.log.Debug().Str("category", p.name).Stringer("want", want).Msg("toggle panel")
	if err := p.toggle.Click(ctx); err != nil {
		return err
	}
	return p.nav.settler.Settle(ctx, p, want)
}

// links reads the trimmed, non-empty link texts of the body in document order.
func (p *panel) links(ctx context.Context) ([]Subcategory, error) {
	found, err := p.body.FindAll(ctx, locator.CSS(p.nav.markup.Link))
	if err != nil {
		return nil, err
	}
	subs := make([]Subcategory, 0, len(found))
	for _, link := range found {
		text, err := locator.TrimmedText(ctx, link)
		if err != nil {
			return nil, err
		}
		if text == "" {
			continue
		}
		subs = append(subs, Subcategory{Name: text})
	}
	return subs, nil
}
