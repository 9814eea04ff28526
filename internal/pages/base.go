// Package pages holds the page objects of the shop: reusable components
// built on locator.Element and pages bound to a playwright.Page.
package pages

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/simplecom/internal/locator"
)

// DefaultTimeout bounds page navigations and visibility waits
const DefaultTimeout = 4 * time.Second

// basePage carries what every shop page shares
type basePage struct {
	page    playwright.Page
	url     string
	timeout time.Duration

	Header *Header
}

func newBasePage(page playwright.Page, url string, timeout time.Duration) basePage {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return basePage{
		page:    page,
		url:     url,
		timeout: timeout,
		Header:  NewHeader(locator.PageRoot(page)),
	}
}

// Goto opens the page and waits for the DOM to be loaded
func (p *basePage) Goto(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.Goto(p.url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(locator.Millis(ctx, p.timeout)),
	})
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", p.url, err)
	}
	return nil
}

// VerifyTitle waits for the document title to equal expected
func (p *basePage) VerifyTitle(expected string) error {
	return playwright.NewPlaywrightAssertions(float64(p.timeout.Milliseconds())).Page(p.page).ToHaveTitle(expected)
}

// VerifyURL waits for the page URL to equal expected
func (p *basePage) VerifyURL(expected string) error {
	return playwright.NewPlaywrightAssertions(float64(p.timeout.Milliseconds())).Page(p.page).ToHaveURL(expected)
}

// Page returns the underlying playwright page
func (p *basePage) Page() playwright.Page {
	return p.page
}

// URL returns the address Goto opens
func (p *basePage) URL() string {
	return p.url
}

// Timeout returns the bound applied to navigations and waits
func (p *basePage) Timeout() time.Duration {
	return p.timeout
}
