package pages

import (
	"context"
	"strings"
	"time"

	"github.com/themizzi/simplecom/internal/locator"
)

const loggedInPrefix = "Logged in as"

// Header is the shop navigation bar present on every page
type Header struct {
	loggedInAs locator.Element
	login      locator.Element
	logout     locator.Element
	home       locator.Element
}

// NewHeader creates a Header within root, usually the page root
func NewHeader(root locator.Element) *Header {
	return &Header{
		loggedInAs: root.Find(locator.CSS("a.logged-in-as")),
		login:      root.Find(locator.CSS(`a[href="/login"]`)),
		logout:     root.Find(locator.CSS(`a[href="/logout"]`)),
		home:       root.Find(locator.CSS(`a[href="/"]`)),
	}
}

// IsLoggedIn reports whether the "Logged in as" indicator is shown
func (h *Header) IsLoggedIn(ctx context.Context) (bool, error) {
	return h.loggedInAs.IsVisible(ctx)
}

// WaitLoggedIn blocks until the "Logged in as" indicator is shown
func (h *Header) WaitLoggedIn(ctx context.Context, timeout time.Duration) error {
	return h.loggedInAs.WaitVisible(ctx, timeout)
}

// LoggedInUsername returns the name of the logged in account, or "" when
// nobody is logged in
func (h *Header) LoggedInUsername(ctx context.Context) (string, error) {
	loggedIn, err := h.IsLoggedIn(ctx)
	if err != nil || !loggedIn {
		return "", err
	}
	text, err := locator.TrimmedText(ctx, h.loggedInAs)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.TrimPrefix(text, loggedInPrefix)), nil
}

func (h *Header) ClickLogin(ctx context.Context) error {
	return h.login.Click(ctx)
}

func (h *Header) ClickLogout(ctx context.Context) error {
	return h.logout.Click(ctx)
}

func (h *Header) ClickHome(ctx context.Context) error {
	return h.home.Click(ctx)
}
