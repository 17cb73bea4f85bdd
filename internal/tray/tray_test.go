package tray

import (
	"bytes"
	"image/png"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yok-tottii/MuteBar/internal/i18n"
	"github.com/yok-tottii/MuteBar/internal/overlay"
	"github.com/yok-tottii/MuteBar/internal/trigger"
)

func newTestManager(t *testing.T, lang i18n.Language) *Manager {
	t.Helper()
	translator, err := i18n.New(lang)
	require.NoError(t, err)
	return NewManager(Config{Labels: translator, Muted: true})
}

func TestNewManager(t *testing.T) {
	m := newTestManager(t, i18n.LanguageEnglish)

	assert.True(t, m.Muted())
	assert.NotEmpty(t, m.iconMuted)
	assert.NotEmpty(t, m.iconUnmuted)
	assert.NotNil(t, m.Events())
}

func TestToggleLabelFollowsState(t *testing.T) {
	m := newTestManager(t, i18n.LanguageEnglish)

	assert.Equal(t, "Unmute", m.ToggleLabel())
	m.SetMuted(false)
	assert.Equal(t, "Mute", m.ToggleLabel())
	assert.False(t, m.Muted())
}

func TestTooltipCountsDevices(t *testing.T) {
	m := newTestManager(t, i18n.LanguageJapanese)

	m.SetDevices([]string{"MacBook Pro Microphone", "USB Audio"})
	assert.Equal(t, "MuteBar - ミュート中 (2台)", m.Tooltip())

	m.SetMuted(false)
	assert.Equal(t, "MuteBar - オン (2台)", m.Tooltip())
}

func TestSetDevicesCopies(t *testing.T) {
	m := newTestManager(t, i18n.LanguageEnglish)

	names := []string{"a", "b"}
	m.SetDevices(names)
	names[0] = "changed"

	assert.Equal(t, []string{"a", "b"}, m.devices)
}

func TestTitleSurface(t *testing.T) {
	m := newTestManager(t, i18n.LanguageEnglish)
	var surface overlay.Surface = m

	surface.Show("Microphone on", overlay.Rect{X: 1})
	assert.Equal(t, "Microphone on", m.Title())

	surface.Move(overlay.Rect{X: 2})
	assert.Equal(t, "Microphone on", m.Title())

	surface.Hide()
	assert.Empty(t, m.Title())
}

func TestRenderIcon(t *testing.T) {
	for _, muted := range []bool{true, false} {
		data := renderIcon(muted)
		require.NotEmpty(t, data)

		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, iconSize, img.Bounds().Dx())
		assert.Equal(t, iconSize, img.Bounds().Dy())
	}

	assert.False(t, bytes.Equal(renderIcon(true), renderIcon(false)))
}

func TestMicAndSlashPixels(t *testing.T) {
	assert.True(t, micPixel(11, 8), "capsule centre")
	assert.False(t, micPixel(1, 1), "corner")
	assert.True(t, slashPixel(10, 10))
	assert.False(t, slashPixel(3, 18))
}

func TestLoadIconDataFallback(t *testing.T) {
	fallback := []byte("fallback")
	assert.Equal(t, fallback, loadIconData("does-not-exist.png", fallback))
}

func TestConcurrentStateUpdates(t *testing.T) {
	m := newTestManager(t, i18n.LanguageEnglish)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.SetMuted(i%2 == 0)
			_ = m.Tooltip()
			_ = m.ToggleLabel()
		}(i)
	}
	wg.Wait()

	assert.True(t, strings.HasPrefix(m.Tooltip(), "MuteBar - "))
}

func TestRequestQuit(t *testing.T) {
	m := newTestManager(t, i18n.LanguageEnglish)

	assert.True(t, m.RequestQuit())
	assert.Equal(t, trigger.QuitRequested, <-m.Events())
}
