// Package desktop adapts the local machine's clipboard and default browser
// for the CLI. The HTTP service never uses it.
package desktop

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/atotto/clipboard"
	"github.com/cli/browser"

	"github.com/jsamuelsen/zenquote/internal/domain"
)

// Package-level indirection so tests never touch the real clipboard or browser.
var (
	clipboardWriteAll = clipboard.WriteAll
	clipboardReadAll  = clipboard.ReadAll
	browserOpenURL    = browser.OpenURL
)

// Clipboard implements ports.Clipboard with the system clipboard.
type Clipboard struct{}

// NewClipboard returns the system clipboard adapter.
func NewClipboard() *Clipboard {
	return &Clipboard{}
}

// WriteText implements ports.Clipboard.
func (Clipboard) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if clipboard.Unsupported {
		return domain.NewUnavailableError("clipboard", "no clipboard utility found")
	}

	if err := clipboardWriteAll(text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}

	return nil
}

// ReadText returns the clipboard contents. Used to confirm a copy.
func (Clipboard) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	return clipboardReadAll()
}

// Browser implements ports.URLOpener with the default browser.
type Browser struct{}

// NewBrowser returns the browser adapter. Output from the launched process
// goes to out; pass io.Discard to silence it.
func NewBrowser(out io.Writer) *Browser {
	browser.Stdout = out
	browser.Stderr = out

	return &Browser{}
}

// OpenURL implements ports.URLOpener. Only http and https URLs are opened.
func (Browser) OpenURL(ctx context.Context, raw string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return domain.NewValidationErrorWithValue("url", "must be an http(s) URL", raw)
	}

	if err := browserOpenURL(raw); err != nil {
		return fmt.Errorf("opening browser: %w", err)
	}

	return nil
}
