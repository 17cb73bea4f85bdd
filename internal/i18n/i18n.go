package i18n

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var locales embed.FS

// Language represents a supported language
type Language string

const (
	// Japanese language
	LanguageJapanese Language = "ja"
	// English language
	LanguageEnglish Language = "en"
)

// Translator manages translations for the application
type Translator struct {
	currentLanguage Language
	translations    map[Language]map[string]string
	mu              sync.RWMutex
}

// NewTranslator creates an empty translator
func NewTranslator(language Language) *Translator {
	return &Translator{
		currentLanguage: language,
		translations:    make(map[Language]map[string]string),
	}
}

// New creates a translator preloaded with the bundled locales
func New(language Language) (*Translator, error) {
	t := NewTranslator(language)
	for _, lang := range GetSupportedLanguages() {
		data, err := locales.ReadFile("locales/" + string(lang) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("failed to read bundled locale %s: %w", lang, err)
		}
		if err := t.LoadTranslations(lang, data); err != nil {
			return nil, fmt.Errorf("locale %s: %w", lang, err)
		}
	}
	return t, nil
}

// LoadTranslations loads translations from YAML (or JSON) data,
// merging over any already loaded for the language
func (t *Translator) LoadTranslations(language Language, data []byte) error {
	var translations map[string]string
	if err := yaml.Unmarshal(data, &translations); err != nil {
		return fmt.Errorf("failed to unmarshal translations: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.translations[language]
	if !ok {
		existing = make(map[string]string, len(translations))
		t.translations[language] = existing
	}
	for k, v := range translations {
		existing[k] = v
	}
	return nil
}

// LoadTranslationsFromFile loads translations from a YAML or JSON file
func (t *Translator) LoadTranslationsFromFile(language Language, filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read translation file: %w", err)
	}

	return t.LoadTranslations(language, data)
}

// SetLanguage sets the current language
func (t *Translator) SetLanguage(language Language) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.currentLanguage = language
}

// GetLanguage returns the current language
func (t *Translator) GetLanguage() Language {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.currentLanguage
}

// Translate translates a key in the current language
func (t *Translator) Translate(key string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if text, ok := t.translations[t.currentLanguage][key]; ok {
		return text
	}

	// Fallback to English if translation not found
	if text, ok := t.translations[LanguageEnglish][key]; ok {
		return text
	}

	// Return key itself if no translation found
	return key
}

// TranslateWithFormat translates a key and fills {name} placeholders
func (t *Translator) TranslateWithFormat(key string, params map[string]string) string {
	text := t.Translate(key)

	for param, value := range params {
		text = strings.ReplaceAll(text, "{"+param+"}", value)
	}

	return text
}

// HasTranslation checks if a translation key exists in the current language
func (t *Translator) HasTranslation(key string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.translations[t.currentLanguage][key]
	return ok
}

// Keys returns the keys defined for language
func (t *Translator) Keys(language Language) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	keys := make([]string, 0, len(t.translations[language]))
	for k := range t.translations[language] {
		keys = append(keys, k)
	}
	return keys
}

// ValidateLanguage validates that a language is supported
func ValidateLanguage(language string) bool {
	return language == string(LanguageJapanese) || language == string(LanguageEnglish)
}

// GetSupportedLanguages returns a list of supported languages
func GetSupportedLanguages() []Language {
	return []Language{LanguageJapanese, LanguageEnglish}
}
