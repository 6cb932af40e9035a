package sessions

import "context"

var localeCtxKey = &contextKey{"locale"}

type contextKey struct {
	name string
}

// DefaultLocale is used when the caller did not attach one to the context.
const DefaultLocale = "en"

// WithLocale sets the caller's locale in the given context. The Manager reads
// it once per operation; there is no process wide locale state.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeCtxKey, locale)
}

// LocaleFromContext finds the locale from the context, falling back to
// DefaultLocale.
func LocaleFromContext(ctx context.Context) string {
	if locale, ok := ctx.Value(localeCtxKey).(string); ok && locale != "" {
		return locale
	}
	return DefaultLocale
}
