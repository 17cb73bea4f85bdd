package hotkey

import (
	"fmt"
	"strings"

	"golang.design/x/hotkey"
)

// ConflictInfo represents information about a known shortcut conflict
type ConflictInfo struct {
	Name        string
	Description string
	Modifiers   []hotkey.Modifier
	Key         hotkey.Key
}

// knownConflicts lists system and conferencing-app shortcuts a mute hotkey
// is likely to collide with
var knownConflicts = []ConflictInfo{
	{
		Name:        "Spotlight",
		Description: "macOS Spotlight search",
		Modifiers:   []hotkey.Modifier{hotkey.ModCmd},
		Key:         hotkey.KeySpace,
	},
	{
		Name:        "Force Quit",
		Description: "macOS Force Quit",
		Modifiers:   []hotkey.Modifier{hotkey.ModCmd, hotkey.ModOption},
		Key:         hotkey.KeyEscape,
	},
	{
		Name:        "Zoom",
		Description: "Zoom mute/unmute audio",
		Modifiers:   []hotkey.Modifier{hotkey.ModShift, hotkey.ModCmd},
		Key:         hotkey.KeyA,
	},
	{
		Name:        "Microsoft Teams",
		Description: "Teams mute/unmute",
		Modifiers:   []hotkey.Modifier{hotkey.ModShift, hotkey.ModCmd},
		Key:         hotkey.KeyM,
	},
	{
		Name:        "Google Meet",
		Description: "Meet microphone on/off",
		Modifiers:   []hotkey.Modifier{hotkey.ModCmd},
		Key:         hotkey.KeyD,
	},
	{
		Name:        "Screenshot",
		Description: "macOS screenshot and recording toolbar",
		Modifiers:   []hotkey.Modifier{hotkey.ModShift, hotkey.ModCmd},
		Key:         hotkey.Key5,
	},
}

// CheckConflicts returns the known shortcuts the binding collides with.
// A conflict is a warning only; registration may still succeed.
func CheckConflicts(b Binding) []ConflictInfo {
	var conflicts []ConflictInfo

	for _, known := range knownConflicts {
		if hotkeyMatches(b.Modifiers, b.Key, known.Modifiers, known.Key) {
			conflicts = append(conflicts, known)
		}
	}

	return conflicts
}

// hotkeyMatches checks if two hotkey combinations are identical
func hotkeyMatches(mods1 []hotkey.Modifier, key1 hotkey.Key, mods2 []hotkey.Modifier, key2 hotkey.Key) bool {
	if key1 != key2 {
		return false
	}
	return modifierMask(mods1) == modifierMask(mods2)
}

func modifierMask(mods []hotkey.Modifier) hotkey.Modifier {
	var mask hotkey.Modifier
	for _, mod := range mods {
		mask |= mod
	}
	return mask
}

// keyNames maps configuration key names to key codes.
// Key codes are not contiguous on macOS, so no arithmetic on them.
var keyNames = map[string]hotkey.Key{
	"Space":  hotkey.KeySpace,
	"Escape": hotkey.KeyEscape,
	"Return": hotkey.KeyReturn,
	"Tab":    hotkey.KeyTab,
	"Delete": hotkey.KeyDelete,
	"A":      hotkey.KeyA,
	"B":      hotkey.KeyB,
	"C":      hotkey.KeyC,
	"D":      hotkey.KeyD,
	"E":      hotkey.KeyE,
	"F":      hotkey.KeyF,
	"G":      hotkey.KeyG,
	"H":      hotkey.KeyH,
	"I":      hotkey.KeyI,
	"J":      hotkey.KeyJ,
	"K":      hotkey.KeyK,
	"L":      hotkey.KeyL,
	"M":      hotkey.KeyM,
	"N":      hotkey.KeyN,
	"O":      hotkey.KeyO,
	"P":      hotkey.KeyP,
	"Q":      hotkey.KeyQ,
	"R":      hotkey.KeyR,
	"S":      hotkey.KeyS,
	"T":      hotkey.KeyT,
	"U":      hotkey.KeyU,
	"V":      hotkey.KeyV,
	"W":      hotkey.KeyW,
	"X":      hotkey.KeyX,
	"Y":      hotkey.KeyY,
	"Z":      hotkey.KeyZ,
	"0":      hotkey.Key0,
	"1":      hotkey.Key1,
	"2":      hotkey.Key2,
	"3":      hotkey.Key3,
	"4":      hotkey.Key4,
	"5":      hotkey.Key5,
	"6":      hotkey.Key6,
	"7":      hotkey.Key7,
	"8":      hotkey.Key8,
	"9":      hotkey.Key9,
}

// keyAliases are accepted on input but never produced by keyToString
var keyAliases = map[string]string{
	"ESC":   "Escape",
	"ENTER": "Return",
}

// ParseKey converts a configured key name (case-insensitive) to a key code
func ParseKey(name string) (hotkey.Key, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if alias, ok := keyAliases[upper]; ok {
		upper = strings.ToUpper(alias)
	}
	for k, code := range keyNames {
		if strings.ToUpper(k) == upper {
			return code, nil
		}
	}
	return 0, fmt.Errorf("unknown hotkey key %q", name)
}

// FormatHotkey returns a human-readable string representation of the hotkey
func FormatHotkey(modifiers []hotkey.Modifier, key hotkey.Key) string {
	var sb strings.Builder

	for _, mod := range modifiers {
		switch mod {
		case hotkey.ModCtrl:
			sb.WriteString("⌃")
		case hotkey.ModShift:
			sb.WriteString("⇧")
		case hotkey.ModOption:
			sb.WriteString("⌥")
		case hotkey.ModCmd:
			sb.WriteString("⌘")
		}
	}

	sb.WriteString(keyToString(key))
	return sb.String()
}

// keyToString converts a hotkey.Key to a display string
func keyToString(key hotkey.Key) string {
	if key == hotkey.KeyEscape {
		return "Esc"
	}
	for name, code := range keyNames {
		if code == key {
			return name
		}
	}
	return "Unknown"
}
