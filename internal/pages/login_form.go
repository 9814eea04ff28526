package pages

import (
	"context"
	"fmt"
	"time"

	"github.com/themizzi/simplecom/internal/locator"
)

// LoginForm is the email and password form of the login page
type LoginForm struct {
	heading  locator.Element
	email    locator.Element
	password locator.Element
	submit   locator.Element
	message  locator.Element
}

// NewLoginForm creates a LoginForm within scope, the .login-form element
func NewLoginForm(scope locator.Element) *LoginForm {
	return &LoginForm{
		heading:  scope.Find(locator.CSS("h2")),
		email:    scope.Find(locator.CSS(`input[data-qa="login-email"]`)),
		password: scope.Find(locator.CSS(`input[data-qa="login-password"]`)),
		submit:   scope.Find(locator.CSS(`button[data-qa="login-button"]`)),
		message:  scope.Find(locator.CSS(".login-error")),
	}
}

// WaitForVisible blocks until the form heading is shown
func (f *LoginForm) WaitForVisible(ctx context.Context, timeout time.Duration) error {
	return f.heading.WaitVisible(ctx, timeout)
}

// IsVisible reports whether the form heading is shown
func (f *LoginForm) IsVisible(ctx context.Context) (bool, error) {
	return f.heading.IsVisible(ctx)
}

// Login fills in the credentials and submits the form
func (f *LoginForm) Login(ctx context.Context, email, password string) error {
	if err := f.email.Fill(ctx, email); err != nil {
		return fmt.Errorf("fill email: %w", err)
	}
	if err := f.password.Fill(ctx, password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	if err := f.submit.Click(ctx); err != nil {
		return fmt.Errorf("submit login: %w", err)
	}
	return nil
}

// ErrorMessage returns the rejection message of the last submission, or ""
func (f *LoginForm) ErrorMessage(ctx context.Context) (string, error) {
	ok, err := locator.Exists(ctx, f.message)
	if err != nil || !ok {
		return "", err
	}
	return locator.TrimmedText(ctx, f.message)
}
