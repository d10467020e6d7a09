package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/zenquote/internal/adapters/storage/memory"
	"github.com/jsamuelsen/zenquote/internal/domain"
	"github.com/jsamuelsen/zenquote/internal/mocks"
)

func TestPreferences_DefaultTheme(t *testing.T) {
	p := NewPreferences(PreferencesConfig{Store: memory.New(), Logger: discardLogger()})

	assert.Equal(t, domain.ThemeLight, p.Theme(context.Background()))
}

func TestPreferences_SetTheme(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	p := NewPreferences(PreferencesConfig{Store: kv, Logger: discardLogger()})

	require.NoError(t, p.SetTheme(ctx, domain.ThemeDark))
	assert.Equal(t, domain.ThemeDark, p.Theme(ctx))

	raw, err := kv.Get(ctx, DefaultThemeKey)
	require.NoError(t, err)
	assert.Equal(t, "dark", string(raw))

	err = p.SetTheme(ctx, domain.Theme("sepia"))
	assert.True(t, domain.IsValidation(err))
}

func TestPreferences_SetTheme_StoresCanonicalName(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	p := NewPreferences(PreferencesConfig{Store: kv, Logger: discardLogger()})

	require.NoError(t, p.SetTheme(ctx, domain.Theme(" DARK ")))

	raw, err := kv.Get(ctx, DefaultThemeKey)
	require.NoError(t, err)
	assert.Equal(t, "dark", string(raw))
}

func TestPreferences_ToggleTheme(t *testing.T) {
	ctx := context.Background()
	p := NewPreferences(PreferencesConfig{Store: memory.New(), Logger: discardLogger()})

	got, err := p.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, got)

	got, err = p.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, got)
}

func TestPreferences_InvalidStoredValue(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	require.NoError(t, kv.Set(ctx, "theme", []byte("neon")))

	p := NewPreferences(PreferencesConfig{Store: kv, Key: "theme", Logger: discardLogger()})

	assert.Equal(t, domain.ThemeLight, p.Theme(ctx))
}

func TestPreferences_ReadError(t *testing.T) {
	kv := mocks.NewMockKeyValueStore(t)
	kv.EXPECT().Get(mock.Anything, DefaultThemeKey).Return(nil, errors.New("locked"))

	p := NewPreferences(PreferencesConfig{Store: kv, Logger: discardLogger()})

	assert.Equal(t, domain.ThemeLight, p.Theme(context.Background()))
}

func TestPreferences_WriteError(t *testing.T) {
	kv := mocks.NewMockKeyValueStore(t)
	kv.EXPECT().Set(mock.Anything, DefaultThemeKey, []byte("dark")).Return(errors.New("read-only"))

	p := NewPreferences(PreferencesConfig{Store: kv, Logger: discardLogger()})

	err := p.SetTheme(context.Background(), domain.ThemeDark)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "persisting theme")
}
