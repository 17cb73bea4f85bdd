package main

import (
	"github.com/yok-tottii/MuteBar/internal/loop"
)

// indicator is the persistent state display (the tray icon and menu)
type indicator interface {
	SetMuted(muted bool)
}

// statusUI fans loop updates out to the tray and the overlay
type statusUI struct {
	indicator indicator
	overlay   loop.UI
}

func (u *statusUI) Update(muted bool) {
	u.indicator.SetMuted(muted)
	u.overlay.Update(muted)
}

func (u *statusUI) Hide() {
	u.overlay.Hide()
}

func (u *statusUI) DetectAndReposition() {
	u.overlay.DetectAndReposition()
}
