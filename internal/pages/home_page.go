package pages

import (
	"context"

	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/simplecom/internal/config"
	"github.com/themizzi/simplecom/internal/locator"
	"github.com/themizzi/simplecom/internal/treenav"
)

// HomePage is the landing page of the shop with the category sidebar
type HomePage struct {
	basePage
	features locator.Element
	sidebar  locator.Element

	CategoryFilter *treenav.Navigator
}

// NewHomePage creates the home page of shop on page
func NewHomePage(page playwright.Page, shop *config.ShopConfig, opts ...Option) *HomePage {
	o := newOptions(opts)
	sidebar := locator.FromPage(page, ".left-sidebar")
	return &HomePage{
		basePage:       newBasePage(page, shop.URL("/"), o.timeout),
		features:       locator.FromPage(page, ".features_items"),
		sidebar:        sidebar,
		CategoryFilter: treenav.New(sidebar, o.navigator),
	}
}

// WaitForPageLoad blocks until the product listing is shown
func (p *HomePage) WaitForPageLoad(ctx context.Context) error {
	return p.features.WaitVisible(ctx, p.timeout)
}

// IsCategorySectionVisible reports whether the category sidebar is shown
func (p *HomePage) IsCategorySectionVisible(ctx context.Context) (bool, error) {
	return p.sidebar.IsVisible(ctx)
}
