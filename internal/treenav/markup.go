package treenav

// Markup names the selectors and attributes the navigator reads. Selectors
// are CSS and are evaluated relative to the enclosing element: Container
// under the root scope, Header under Container, Toggle under a header, Link
// under a category body.
type Markup struct {
	Container string
	Header    string
	Toggle    string
	// BodyRefAttrs are the toggle attributes checked, in order, for the
	// selector of the collapsible body.
	BodyRefAttrs []string
	Link         string

	ExpandedAttr string
	// CollapsedClass marks a collapsed toggle.
	CollapsedClass string
	// HiddenClass and ShownClass mark a settled body; a shown body carries
	// ShownClass, a hidden one only HiddenClass.
	HiddenClass     string
	ShownClass      string
	TransitionClass string
}

// Bootstrap returns the markup of a Bootstrap 3 collapse accordion, as
// rendered by the shop's category sidebar.
func Bootstrap() Markup {
	return Markup{
		Container:       ".panel-group",
		Header:          ".panel-heading",
		Toggle:          `a[data-toggle="collapse"]`,
		BodyRefAttrs:    []string{"href", "data-target"},
		Link:            "li a",
		ExpandedAttr:    "aria-expanded",
		CollapsedClass:  "collapsed",
		HiddenClass:     "collapse",
		ShownClass:      "in",
		TransitionClass: "collapsing",
	}
}

func (m Markup) withDefaults() Markup {
	def := Bootstrap()
	if m.Container == "" {
		m.Container = def.Container
	}
	if m.Header == "" {
		m.Header = def.Header
	}
	if m.Toggle == "" {
		m.Toggle = def.Toggle
	}
	if len(m.BodyRefAttrs) == 0 {
		m.BodyRefAttrs = def.BodyRefAttrs
	}
	if m.Link == "" {
		m.Link = def.Link
	}
	if m.ExpandedAttr == "" {
		m.ExpandedAttr = def.ExpandedAttr
	}
	if m.CollapsedClass == "" {
		m.CollapsedClass = def.CollapsedClass
	}
	if m.HiddenClass == "" {
		m.HiddenClass = def.HiddenClass
	}
	if m.ShownClass == "" {
		m.ShownClass = def.ShownClass
	}
	if m.TransitionClass == "" {
		m.TransitionClass = def.TransitionClass
	}
	return m
}
