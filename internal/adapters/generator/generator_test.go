package generator

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/zenquote/internal/domain"
)

func TestPrompt(t *testing.T) {
	general := Prompt(domain.CategoryGeneral)
	assert.Contains(t, general, "topic of your choosing")
	assert.NotContains(t, general, "general")

	for _, c := range domain.Categories() {
		if c.IsGeneral() {
			continue
		}
		t.Run(c.String(), func(t *testing.T) {
			p := Prompt(c)
			assert.Contains(t, p, "about "+strings.ToLower(c.String()))
			assert.Contains(t, p, "Attribute it")
		})
	}
}

func TestSchema_RequiresTextAndAuthor(t *testing.T) {
	s := Schema()

	assert.Equal(t, "OBJECT", s["type"])
	assert.ElementsMatch(t, []string{"text", "author"}, s["required"])

	props, ok := s["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "text")
	assert.Contains(t, props, "author")
}

func TestDecode(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name       string
		raw        string
		wantText   string
		wantAuthor string
		wantErr    bool
	}{
		{
			name:       "plain object",
			raw:        `{"text":"Be here now.","author":"Ram Dass"}`,
			wantText:   "Be here now.",
			wantAuthor: "Ram Dass",
		},
		{
			name:       "fenced with language",
			raw:        "```json\n{\"text\":\"Hope is a waking dream.\",\"author\":\"Aristotle\"}\n```",
			wantText:   "Hope is a waking dream.",
			wantAuthor: "Aristotle",
		},
		{
			name:       "fields are trimmed",
			raw:        `{"text":"  Courage is grace under pressure. ","author":" Ernest Hemingway\n"}`,
			wantText:   "Courage is grace under pressure.",
			wantAuthor: "Ernest Hemingway",
		},
		{name: "empty", raw: "   ", wantErr: true},
		{name: "not json", raw: "Here is a quote for you!", wantErr: true},
		{name: "array", raw: `[{"text":"a","author":"b"}]`, wantErr: true},
		{name: "missing author", raw: `{"text":"Alone."}`, wantErr: true},
		{name: "blank text", raw: `{"text":"   ","author":"Nobody"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Decode("gemini", tt.raw, now)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, domain.IsInvalidResponse(err))
				assert.Nil(t, q)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantText, q.Text)
			assert.Equal(t, tt.wantAuthor, q.Author)
			assert.Equal(t, now, q.Timestamp)
			assert.NotEmpty(t, q.ID)
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```json{\"a\":1}```", `{"a":1}`},
		{"  \n{\"a\":1}\n  ", `{"a":1}`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StripCodeFence(tt.in))
	}
}
