package formstate

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/strategy"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Option customises a Form at construction time.
type Option func(*Form)

// WithStrategy selects the initial validation strategy. The default is
// onSubmitOnly.
func WithStrategy(s strategy.Strategy) Option {
	return func(f *Form) {
		if s.Valid() {
			f.initialStrategy = s
		}
	}
}

// WithLocale sets the locale handed to every validator invocation.
func WithLocale(locale string) Option {
	return func(f *Form) {
		f.locale = locale
	}
}

// WithTranslator installs the message catalogue validators resolve their
// error strings through. Without one, validators fall back to their built-in
// messages.
func WithTranslator(t validation.Translator) Option {
	return func(f *Form) {
		f.translator = t
	}
}

// WithDebounceDelay overrides the debounce window for
// UpdateFieldWithDebounce. The default is debounce.DefaultDelay.
func WithDebounceDelay(d time.Duration) Option {
	return func(f *Form) {
		if d > 0 {
			f.debounceDelay = d
		}
	}
}

// WithLogger installs a zap logger for debug-level event tracing. The
// default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(f *Form) {
		if log != nil {
			f.log = log
		}
	}
}
