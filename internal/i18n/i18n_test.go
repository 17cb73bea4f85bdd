package i18n

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTranslator(t *testing.T) {
	translator := NewTranslator(LanguageJapanese)
	require.NotNil(t, translator)
	assert.Equal(t, LanguageJapanese, translator.GetLanguage())
}

func TestBundledLocales(t *testing.T) {
	translator, err := New(LanguageEnglish)
	require.NoError(t, err)

	assert.Equal(t, "Mute", translator.Translate("menu.mute"))
	assert.Equal(t, "Unmute", translator.Translate("menu.unmute"))
	assert.Equal(t, "Microphone off", translator.Translate("overlay.muted"))
	assert.Equal(t, "Microphone on", translator.Translate("overlay.unmuted"))

	translator.SetLanguage(LanguageJapanese)
	assert.Equal(t, "終了", translator.Translate("menu.quit"))
}

func TestBundledLocalesHaveSameKeys(t *testing.T) {
	translator, err := New(LanguageEnglish)
	require.NoError(t, err)

	en := translator.Keys(LanguageEnglish)
	ja := translator.Keys(LanguageJapanese)
	sort.Strings(en)
	sort.Strings(ja)
	assert.NotEmpty(t, en)
	assert.Equal(t, en, ja)
}

func TestLoadTranslationsJSON(t *testing.T) {
	translator := NewTranslator(LanguageJapanese)

	err := translator.LoadTranslations(LanguageJapanese, []byte(`{"menu.quit": "終了"}`))
	require.NoError(t, err)
	assert.Equal(t, "終了", translator.Translate("menu.quit"))
}

func TestLoadTranslationsMerges(t *testing.T) {
	translator := NewTranslator(LanguageEnglish)

	require.NoError(t, translator.LoadTranslations(LanguageEnglish, []byte("a: one\nb: two\n")))
	require.NoError(t, translator.LoadTranslations(LanguageEnglish, []byte("b: deux\n")))

	assert.Equal(t, "one", translator.Translate("a"))
	assert.Equal(t, "deux", translator.Translate("b"))
}

func TestLoadTranslationsInvalid(t *testing.T) {
	translator := NewTranslator(LanguageEnglish)
	assert.Error(t, translator.LoadTranslations(LanguageEnglish, []byte("- not\n- a map\n")))
}

func TestLoadTranslationsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.yaml")
	require.NoError(t, os.WriteFile(path, []byte("menu.quit: Leave\n"), 0644))

	translator := NewTranslator(LanguageEnglish)
	require.NoError(t, translator.LoadTranslationsFromFile(LanguageEnglish, path))
	assert.Equal(t, "Leave", translator.Translate("menu.quit"))

	assert.Error(t, translator.LoadTranslationsFromFile(LanguageEnglish, filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestTranslateFallback(t *testing.T) {
	translator := NewTranslator(LanguageJapanese)

	// Only load English translations
	require.NoError(t, translator.LoadTranslations(LanguageEnglish, []byte(`menu.quit: Quit`)))

	assert.Equal(t, "Quit", translator.Translate("menu.quit"))
	assert.False(t, translator.HasTranslation("menu.quit"))
}

func TestTranslateNotFound(t *testing.T) {
	translator := NewTranslator(LanguageEnglish)
	assert.Equal(t, "nonexistent.key", translator.Translate("nonexistent.key"))
}

func TestTranslateWithFormat(t *testing.T) {
	translator, err := New(LanguageEnglish)
	require.NoError(t, err)

	text := translator.TranslateWithFormat("notification.hotkey_conflict", map[string]string{
		"hotkey": "⇧⌘A",
		"name":   "Zoom",
	})
	assert.Equal(t, "⇧⌘A is also used by Zoom", text)

	translator.SetLanguage(LanguageJapanese)
	text = translator.TranslateWithFormat("menu.devices", map[string]string{"count": "2"})
	assert.Equal(t, "入力デバイス (2)", text)
}

func TestValidateLanguage(t *testing.T) {
	assert.True(t, ValidateLanguage("ja"))
	assert.True(t, ValidateLanguage("en"))
	assert.False(t, ValidateLanguage("fr"))
	assert.False(t, ValidateLanguage(""))
}

func TestGetSupportedLanguages(t *testing.T) {
	assert.ElementsMatch(t, []Language{LanguageJapanese, LanguageEnglish}, GetSupportedLanguages())
}
