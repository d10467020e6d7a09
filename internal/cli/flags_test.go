package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/zenquote/internal/app"
	"github.com/jsamuelsen/zenquote/internal/domain"
)

func TestCategoryValue(t *testing.T) {
	var c domain.Category
	v := newCategoryValue(&c)

	assert.Equal(t, domain.CategoryGeneral, c, "defaults to General")
	assert.Equal(t, "category", v.Type())

	require.NoError(t, v.Set("friendship"))
	assert.Equal(t, domain.CategoryFriendship, c)
	assert.Equal(t, "Friendship", v.String())

	err := v.Set("weather")
	require.Error(t, err)
	assert.Contains(t, err.Error(), strings.Join(categoryNames(), ", "))
	assert.Equal(t, domain.CategoryFriendship, c, "unchanged after a bad value")
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"json", app.FormatJSON, false},
		{"YAML", app.FormatYAML, false},
		{"yml", app.FormatYAML, false},
		{"toml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var v formatValue

			err := v.Set(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestCompleteCategories(t *testing.T) {
	got, _ := completeCategories(nil, nil, "")

	assert.Len(t, got, 10)
	assert.Equal(t, "General", got[0])
}

func TestPrinter_Plain(t *testing.T) {
	var buf bytes.Buffer
	q := &domain.Quote{ID: "id-1", Text: "Be here now.", Author: "Ram Dass"}

	p := newPrinter(&buf, domain.ThemeDark, false)
	require.False(t, p.fancy, "a buffer is not a terminal")

	p.Quote(q, "Wisdom")
	p.Bookmark(0, q)

	assert.Equal(t, "\"Be here now.\" — Ram Dass\nid-1\t\"Be here now.\" — Ram Dass\n", buf.String())
}

func TestPrinter_Fancy(t *testing.T) {
	var buf bytes.Buffer
	q := &domain.Quote{ID: "id-1", Text: "Be here now.", Author: "Ram Dass"}

	p := newPrinter(&buf, domain.Theme("unknown"), false)
	p.fancy = true

	p.Quote(q, "Wisdom", "★ bookmarked")
	p.Bookmark(2, q)

	out := buf.String()
	assert.Contains(t, out, "╭")
	assert.Contains(t, out, "Be here now.")
	assert.Contains(t, out, "— Ram Dass")
	assert.Contains(t, out, "Wisdom · ★ bookmarked")
	assert.Contains(t, out, " 3.")
	assert.Contains(t, out, "id-1")
}
