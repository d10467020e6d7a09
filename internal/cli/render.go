package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/jsamuelsen/zenquote/internal/domain"
)

const quoteWidth = 60

type palette struct {
	text   lipgloss.Color
	author lipgloss.Color
	accent lipgloss.Color
	muted  lipgloss.Color
}

var palettes = map[domain.Theme]palette{
	domain.ThemeLight: {text: "236", author: "240", accent: "62", muted: "245"},
	domain.ThemeDark:  {text: "252", author: "248", accent: "212", muted: "241"},
}

// printer writes command output. On a terminal quotes are boxed and
// coloured by theme; anywhere else each quote is one FormatQuote line so the
// output pipes cleanly.
type printer struct {
	out   io.Writer
	fancy bool

	box    lipgloss.Style
	text   lipgloss.Style
	author lipgloss.Style
	accent lipgloss.Style
	muted  lipgloss.Style
}

func newPrinter(out io.Writer, theme domain.Theme, plain bool) *printer {
	p := &printer{out: out, fancy: !plain && isTerminal(out)}

	pal, ok := palettes[theme]
	if !ok {
		pal = palettes[domain.DefaultTheme]
	}

	r := lipgloss.NewRenderer(out)
	p.box = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(pal.accent).
		Padding(0, 1).
		Width(quoteWidth)
	p.text = r.NewStyle().Foreground(pal.text).Italic(true)
	p.author = r.NewStyle().Foreground(pal.author).Align(lipgloss.Right).Width(quoteWidth - 2)
	p.accent = r.NewStyle().Foreground(pal.accent).Bold(true)
	p.muted = r.NewStyle().Foreground(pal.muted)

	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Quote prints q with an optional status line such as the category.
func (p *printer) Quote(q *domain.Quote, status ...string) {
	if !p.fancy {
		fmt.Fprintln(p.out, domain.FormatQuote(q))
		return
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		p.text.Render("“"+q.Text+"”"),
		p.author.Render("— "+q.Author),
	)
	fmt.Fprintln(p.out, p.box.Render(body))

	if len(status) > 0 {
		fmt.Fprintln(p.out, p.muted.Render(" "+strings.Join(status, " · ")))
	}
}

// Bookmark prints one bookmark row with its id.
func (p *printer) Bookmark(i int, q *domain.Quote) {
	if !p.fancy {
		fmt.Fprintf(p.out, "%s\t%s\n", q.ID, domain.FormatQuote(q))
		return
	}

	fmt.Fprintf(p.out, "%s %s\n   %s\n",
		p.accent.Render(fmt.Sprintf("%2d.", i+1)),
		domain.FormatQuote(q),
		p.muted.Render(q.ID),
	)
}

// Line prints an informational line.
func (p *printer) Line(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Highlight prints a line in the accent colour.
func (p *printer) Highlight(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.fancy {
		msg = p.accent.Render(msg)
	}

	fmt.Fprintln(p.out, msg)
}
