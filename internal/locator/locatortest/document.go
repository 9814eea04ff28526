// Package locatortest provides a locator.Element implementation over a static
// HTML snapshot, for exercising page objects without a browser.
//
// The document understands just enough of the Bootstrap collapse plugin to
// behave like the rendered shop: clicking an element with
// data-toggle="collapse" flips aria-expanded and the "collapsed" class on
// every toggle of the same panel, and moves the panel body through
// "collapsing" to "collapse in" or "collapse". Clicking any other link with a
// non-fragment href records a navigation.
package locatortest

import (
	"bytes"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/themizzi/simplecom/internal/locator"
)

// Option configures a Document.
type Option func(*Document)

// WithTransition sets how long a panel body stays in the "collapsing" state
// after a toggle. Toggle clicks during a transition are ignored, as the
// Bootstrap plugin does.
func WithTransition(d time.Duration) Option {
	return func(doc *Document) {
		doc.transition = d
	}
}

// WithClock replaces the time source used to finish transitions.
func WithClock(now func() time.Time) Option {
	return func(doc *Document) {
		doc.now = now
	}
}

type transition struct {
	until time.Time
	show  bool
}

// Document is a parsed HTML page with simulated collapse behaviour.
type Document struct {
	mu          sync.Mutex
	doc         *goquery.Document
	transition  time.Duration
	now         func() time.Time
	pending     map[*html.Node]transition
	clicks      map[*html.Node]int
	navigations []string
}

// Parse builds a Document from an HTML string.
func Parse(src string, opts ...Option) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	d := &Document{
		doc:     doc,
		now:     time.Now,
		pending: make(map[*html.Node]transition),
		clicks:  make(map[*html.Node]int),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// TB is the part of testing.TB that MustParse needs. It is also satisfied by
// *rapid.T.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// MustParse is Parse for tests.
func MustParse(tb TB, src string, opts ...Option) *Document {
	tb.Helper()
	d, err := Parse(src, opts...)
	if err != nil {
		tb.Fatalf("parse document: %v", err)
	}
	return d
}

// Root returns the document scope.
func (d *Document) Root() locator.Element {
	return &element{doc: d, desc: ":root"}
}

// Scope returns the first element matching css.
func (d *Document) Scope(css string) locator.Element {
	return d.Root().Find(locator.CSS(css))
}

// Navigations returns the hrefs of the non-toggle links clicked so far.
func (d *Document) Navigations() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.navigations...)
}

// Clicks returns how many clicks landed on elements matching css.
func (d *Document) Clicks(css string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	total := 0
	d.doc.Find(css).Each(func(_ int, s *goquery.Selection) {
		total += d.clicks[s.Nodes[0]]
	})
	return total
}

// TotalClicks returns the number of clicks on any element.
func (d *Document) TotalClicks() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	total := 0
	for _, n := range d.clicks {
		total += n
	}
	return total
}

// Attr returns an attribute of the first element matching css, after
// finishing due transitions. It is meant for assertions.
func (d *Document) Attr(css, name string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.advance()
	return d.doc.Find(css).First().Attr(name)
}

// HTML renders the current document state.
func (d *Document) HTML() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.advance()
	var buf bytes.Buffer
	for _, n := range d.doc.Nodes {
		_ = html.Render(&buf, n)
	}
	return buf.String()
}

// advance finishes every transition whose deadline has passed. Callers hold mu.
func (d *Document) advance() {
	now := d.now()
	for node, tr := range d.pending {
		if now.Before(tr.until) {
			continue
		}
		d.finish(node, tr.show)
		delete(d.pending, node)
	}
}

func (d *Document) finish(body *html.Node, show bool) {
	sel := d.selection(body)
	sel.RemoveClass("collapsing")
	if show {
		sel.AddClass("collapse", "in")
		return
	}
	sel.AddClass("collapse")
}

// click applies the effect of a user click on node. Callers hold mu.
func (d *Document) click(node *html.Node) {
	d.clicks[node]++
	sel := d.selection(node)

	if toggle, _ := sel.Attr("data-toggle"); toggle == "collapse" {
		d.toggle(sel)
		return
	}
	if goquery.NodeName(sel) != "a" {
		return
	}
	if href, ok := sel.Attr("href"); ok && href != "" && !strings.HasPrefix(href, "#") {
		d.navigations = append(d.navigations, href)
	}
}

func (d *Document) toggle(toggle *goquery.Selection) {
	target := targetOf(toggle)
	if target == "" {
		return
	}
	body := d.doc.Find(target).First()
	if body.Length() == 0 {
		return
	}
	node := body.Nodes[0]
	if _, busy := d.pending[node]; busy {
		return
	}

	show := !body.HasClass("in")
	d.doc.Find(`[data-toggle="collapse"]`).Each(func(_ int, s *goquery.Selection) {
		if targetOf(s) != target {
			return
		}
		if show {
			s.RemoveClass("collapsed")
			s.SetAttr("aria-expanded", "true")
		} else {
			s.AddClass("collapsed")
			s.SetAttr("aria-expanded", "false")
		}
	})

	body.RemoveClass("collapse", "in")
	body.AddClass("collapsing")
	if d.transition <= 0 {
		d.finish(node, show)
		return
	}
	d.pending[node] = transition{until: d.now().Add(d.transition), show: show}
}

func (d *Document) selection(node *html.Node) *goquery.Selection {
	return d.doc.Selection.FindNodes(node)
}

func targetOf(toggle *goquery.Selection) string {
	if t, ok := toggle.Attr("data-target"); ok && t != "" {
		return t
	}
	if href, ok := toggle.Attr("href"); ok && strings.HasPrefix(href, "#") && len(href) > 1 {
		return href
	}
	return ""
}

// visible reports whether node and its ancestors are all rendered. Callers hold mu.
func visible(node *html.Node) bool {
	for n := node; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		var class, style string
		for _, a := range n.Attr {
			switch a.Key {
			case "hidden":
				return false
			case "class":
				class = a.Val
			case "style":
				style = strings.ReplaceAll(a.Val, " ", "")
			}
		}
		if locator.HasClass(class, "collapse") && !locator.HasClass(class, "in") {
			return false
		}
		if strings.Contains(style, "display:none") {
			return false
		}
	}
	return true
}
