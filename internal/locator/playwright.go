package locator

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// playwrightElement adapts a playwright-go Locator to Element.
type playwrightElement struct {
	page playwright.Page
	loc  playwright.Locator
	desc string
}

// FromPage returns the first element of page matching css.
func FromPage(page playwright.Page, css string) Element {
	return &playwrightElement{
		page: page,
		loc:  page.Locator(css).First(),
		desc: css,
	}
}

// PageRoot returns the document scope of page.
func PageRoot(page playwright.Page) Element {
	return &playwrightElement{
		page: page,
		loc:  page.Locator(":root"),
		desc: ":root",
	}
}

func (e *playwrightElement) child(q Query) playwright.Locator {
	if q.Text == "" {
		return e.loc.Locator(q.CSS)
	}
	return e.loc.Locator(q.CSS, playwright.LocatorLocatorOptions{
		HasText: exactText(q.Text),
	})
}

func (e *playwrightElement) Find(q Query) Element {
	return &playwrightElement{
		page: e.page,
		loc:  e.child(q).First(),
		desc: e.desc + " >> " + q.String(),
	}
}

func (e *playwrightElement) FindAll(ctx context.Context, q Query) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all, err := e.child(q).All()
	if err != nil {
		return nil, e.wrap("find all "+q.String(), err)
	}
	elements := make([]Element, 0, len(all))
	for i, loc := range all {
		elements = append(elements, &playwrightElement{
			page: e.page,
			loc:  loc,
			desc: fmt.Sprintf("%s >> %s[%d]", e.desc, q, i),
		})
	}
	return elements, nil
}

func (e *playwrightElement) Root() Element {
	return PageRoot(e.page)
}

func (e *playwrightElement) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := e.loc.Count()
	if err != nil {
		return 0, e.wrap("count", err)
	}
	return n, nil
}

func (e *playwrightElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	if err := e.require(ctx); err != nil {
		return "", false, err
	}
	// GetAttribute flattens a missing attribute to "", so ask the DOM directly.
	v, err := e.loc.Evaluate("(el, name) => el.getAttribute(name)", name, playwright.LocatorEvaluateOptions{
		Timeout: timeoutFor(ctx),
	})
	if err != nil {
		return "", false, e.wrap("attribute "+name, err)
	}
	s, ok := v.(string)
	return s, ok, nil
}

func (e *playwrightElement) Text(ctx context.Context) (string, error) {
	if err := e.require(ctx); err != nil {
		return "", err
	}
	text, err := e.loc.TextContent(playwright.LocatorTextContentOptions{
		Timeout: timeoutFor(ctx),
	})
	if err != nil {
		return "", e.wrap("text", err)
	}
	return text, nil
}

func (e *playwrightElement) Click(ctx context.Context) error {
	if err := e.require(ctx); err != nil {
		return err
	}
	if err := e.loc.Click(playwright.LocatorClickOptions{
		Timeout: timeoutFor(ctx),
	}); err != nil {
		return e.wrap("click", err)
	}
	return nil
}

func (e *playwrightElement) Fill(ctx context.Context, value string) error {
	if err := e.require(ctx); err != nil {
		return err
	}
	if err := e.loc.Fill(value, playwright.LocatorFillOptions{
		Timeout: timeoutFor(ctx),
	}); err != nil {
		return e.wrap("fill", err)
	}
	return nil
}

func (e *playwrightElement) IsVisible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	visible, err := e.loc.IsVisible()
	if err != nil {
		return false, e.wrap("visibility", err)
	}
	return visible, nil
}

func (e *playwrightElement) WaitVisible(ctx context.Context, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := e.loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(Millis(ctx, timeout)),
	})
	if err != nil {
		return e.wrap("wait visible", err)
	}
	return nil
}

// require fails fast with ErrNotFound instead of letting playwright wait
// for the element up to its default timeout.
func (e *playwrightElement) require(ctx context.Context) error {
	ok, err := Exists(ctx, e)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", e.desc, ErrNotFound)
	}
	return nil
}

func (e *playwrightElement) wrap(op string, err error) error {
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%s %s: %w: %v", op, e.desc, ErrTimeout, err)
	}
	return fmt.Errorf("%s %s: %w", op, e.desc, err)
}

// timeoutFor converts the context deadline into a playwright timeout in
// milliseconds. Without a deadline playwright applies its own default.
func timeoutFor(ctx context.Context) *float64 {
	deadline, ok := ctx.Deadline()
	if !ok {
		return nil
	}
	ms := float64(time.Until(deadline).Milliseconds())
	if ms < 1 {
		ms = 1
	}
	return playwright.Float(ms)
}

// Millis returns timeout in playwright milliseconds, shortened to the
// context deadline when that comes first.
func Millis(ctx context.Context, timeout time.Duration) float64 {
	ms := float64(timeout.Milliseconds())
	if t := timeoutFor(ctx); t != nil && *t < ms {
		ms = *t
	}
	return ms
}

// exactText matches text exactly, allowing any whitespace run where text has
// a single space and around it.
func exactText(text string) *regexp.Regexp {
	words := strings.Fields(text)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`^\s*` + strings.Join(words, `\s+`) + `\s*$`)
}
