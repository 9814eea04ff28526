package pages

import (
	"time"

	"github.com/themizzi/simplecom/internal/treenav"
)

type options struct {
	timeout   time.Duration
	navigator treenav.Options
}

// Option tunes a page object
type Option func(*options)

// WithTimeout bounds navigations and visibility waits of the page
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithNavigator configures the category navigator of the home page
func WithNavigator(opts treenav.Options) Option {
	return func(o *options) { o.navigator = opts }
}

func newOptions(opts []Option) options {
	o := options{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
