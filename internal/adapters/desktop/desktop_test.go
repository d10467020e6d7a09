package desktop

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/atotto/clipboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/zenquote/internal/domain"
	"github.com/jsamuelsen/zenquote/internal/ports"
)

var (
	_ ports.Clipboard = (*Clipboard)(nil)
	_ ports.URLOpener = (*Browser)(nil)
)

func stubClipboard(t *testing.T) *string {
	t.Helper()

	var written string
	origWrite, origRead := clipboardWriteAll, clipboardReadAll
	clipboardWriteAll = func(s string) error { written = s; return nil }
	clipboardReadAll = func() (string, error) { return written, nil }
	t.Cleanup(func() { clipboardWriteAll, clipboardReadAll = origWrite, origRead })

	return &written
}

func TestClipboard_WriteText(t *testing.T) {
	if clipboard.Unsupported {
		t.Skip("no clipboard utility on this machine")
	}

	written := stubClipboard(t)
	c := NewClipboard()

	require.NoError(t, c.WriteText(context.Background(), "\"Be kind.\" — Anon"))
	assert.Equal(t, "\"Be kind.\" — Anon", *written)

	got, err := c.ReadText(context.Background())
	require.NoError(t, err)
	assert.Equal(t, *written, got)
}

func TestClipboard_WriteError(t *testing.T) {
	if clipboard.Unsupported {
		t.Skip("no clipboard utility on this machine")
	}

	orig := clipboardWriteAll
	clipboardWriteAll = func(string) error { return errors.New("xclip exited 1") }
	t.Cleanup(func() { clipboardWriteAll = orig })

	err := NewClipboard().WriteText(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xclip exited 1")
}

func TestClipboard_CanceledContext(t *testing.T) {
	stubClipboard(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, NewClipboard().WriteText(ctx, "x"), context.Canceled)
}

func TestBrowser_OpenURL(t *testing.T) {
	var opened []string
	orig := browserOpenURL
	browserOpenURL = func(u string) error { opened = append(opened, u); return nil }
	t.Cleanup(func() { browserOpenURL = orig })

	b := NewBrowser(io.Discard)
	ctx := context.Background()

	require.NoError(t, b.OpenURL(ctx, "https://twitter.com/intent/tweet?text=hi"))
	assert.Equal(t, []string{"https://twitter.com/intent/tweet?text=hi"}, opened)

	for _, bad := range []string{"file:///etc/passwd", "javascript:alert(1)", "::"} {
		err := b.OpenURL(ctx, bad)
		require.Error(t, err, bad)
		assert.True(t, domain.IsValidation(err))
	}
	assert.Len(t, opened, 1)
}
