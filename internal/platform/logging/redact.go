package logging

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// secretFields are attribute names whose values never reach a log.
var secretFields = []string{
	"password", "secret", "token", "auth", "authorization", "credentials", "cookie",
	"apiKey", "apikey", "api_key", "APIKey", "accessToken", "access_token",
	"x-goog-api-key",
}

// secretValues match values that are secrets whatever the attribute is called.
var secretValues = []*regexp.Regexp{
	regexp.MustCompile(`^AIza[0-9A-Za-z_-]{35}$`),        // Google API key
	regexp.MustCompile(`[?&]key=[^&\s]+`),                // Gemini REST URL with ?key=
	regexp.MustCompile(`(?i)^bearer\s+.+$`),              // Authorization header
	regexp.MustCompile(`^eyJ[\w-]*\.eyJ[\w-]*\.[\w-]*$`), // JWT
}

// DefaultRedactOptions returns the masq options NewReplaceAttr always applies.
func DefaultRedactOptions() []masq.Option {
	opts := []masq.Option{
		masq.WithFieldPrefix("secret"),
		masq.WithFieldPrefix("private"),
	}

	for _, name := range secretFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	for _, re := range secretValues {
		opts = append(opts, masq.WithRegex(re))
	}

	return opts
}

// NewReplaceAttr returns a slog ReplaceAttr that masks secrets, extended by opts.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), opts...)...)
}

// redactingHandler applies a ReplaceAttr function in front of handlers that
// do not accept slog.HandlerOptions, such as the charm pretty handler.
type redactingHandler struct {
	next    slog.Handler
	replace func(groups []string, a slog.Attr) slog.Attr
	groups  []string
}

func newRedactingHandler(next slog.Handler, replace func([]string, slog.Attr) slog.Attr) slog.Handler {
	return &redactingHandler{next: next, replace: replace}
}

func (h *redactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactingHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.replace(h.groups, a))
		return true
	})

	return h.next.Handle(ctx, out)
}

func (h *redactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.replace(h.groups, a)
	}

	return &redactingHandler{next: h.next.WithAttrs(redacted), replace: h.replace, groups: h.groups}
}

func (h *redactingHandler) WithGroup(name string) slog.Handler {
	groups := append(append([]string{}, h.groups...), name)
	return &redactingHandler{next: h.next.WithGroup(name), replace: h.replace, groups: groups}
}
