package treenav_test

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/themizzi/simplecom/internal/locator/locatortest"
	"github.com/themizzi/simplecom/internal/treenav"
)

type fixtureCategory struct {
	name     string
	subs     []string
	expanded bool
	leaf     bool
}

// renderSidebar renders categories the way the shop's home page does.
func renderSidebar(cats []fixtureCategory) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="left-sidebar"><h2>Category</h2>`)
	b.WriteString(`<div class="panel-group category-products" id="accordian">`)
	for i, c := range cats {
		id := fmt.Sprintf("cat-%d", i)
		name := html.EscapeString(c.name)
		b.WriteString(`<div class="panel panel-default"><div class="panel-heading"><h4 class="panel-title">`)
		if c.leaf {
			fmt.Fprintf(&b, `<a href="/brand_products/%d">%s</a></h4></div></div>`, i, name)
			continue
		}
		class, aria, body := "collapsed", "false", "panel-collapse collapse"
		if c.expanded {
			class, aria, body = "", "true", "panel-collapse collapse in"
		}
		fmt.Fprintf(&b, `<a data-toggle="collapse" href="#%s" class="%s" aria-expanded="%s">`, id, class, aria)
		fmt.Fprintf(&b, `<span class="badge pull-right"><i class="fa fa-plus"></i></span>%s</a></h4></div>`, name)
		fmt.Fprintf(&b, `<div id="%s" class="%s"><div class="panel-body"><ul>`, id, body)
		for j, s := range c.subs {
			fmt.Fprintf(&b, `<li><a href="/category_products/%d-%d">%s </a></li>`, i, j, html.EscapeString(s))
		}
		b.WriteString(`</ul></div></div></div>`)
	}
	b.WriteString(`</div></div></body></html>`)
	return b.String()
}

func newNavigator(t locatortest.TB, cats []fixtureCategory, opts ...locatortest.Option) (*treenav.Navigator, *locatortest.Document) {
	t.Helper()
	doc := locatortest.MustParse(t, renderSidebar(cats), opts...)
	nav := treenav.New(doc.Scope(".left-sidebar"), quiet(treenav.Options{
		Settler: treenav.PollSettler{Interval: 2 * time.Millisecond},
	}))
	return nav, doc
}

// quiet discards the navigator's debug output.
func quiet(opts treenav.Options) treenav.Options {
	nop := zerolog.Nop()
	opts.Logger = &nop
	return opts
}

// shopTree is the tree used by the scenarios.
func shopTree() []fixtureCategory {
	return []fixtureCategory{
		{name: "Women", subs: []string{"Dress", "Tops"}},
		{name: "Men", subs: []string{"Tshirts"}},
	}
}

func toggleSelector(i int) string {
	return fmt.Sprintf(`a[href="#cat-%d"]`, i)
}

func bodySelector(i int) string {
	return fmt.Sprintf("#cat-%d", i)
}
