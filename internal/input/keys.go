package input

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var namedKeys = map[string]string{
	"enter":      "enter",
	"return":     "enter",
	"tab":        "tab",
	" ":          "space",
	"space":      "space",
	"backspace":  "backspace",
	"delete":     "delete",
	"escape":     "esc",
	"esc":        "esc",
	"up":         "up",
	"arrowup":    "up",
	"down":       "down",
	"arrowdown":  "down",
	"left":       "left",
	"arrowleft":  "left",
	"right":      "right",
	"arrowright": "right",
	"home":       "home",
	"end":        "end",
	"pageup":     "pageup",
	"pagedown":   "pagedown",
	"shift":      "shift",
	"control":    "ctrl",
	"ctrl":       "ctrl",
	"alt":        "alt",
	"option":     "alt",
	"meta":       "cmd",
	"command":    "cmd",
	"cmd":        "cmd",
	"f1":         "f1",
	"f2":         "f2",
	"f3":         "f3",
	"f4":         "f4",
	"f5":         "f5",
	"f6":         "f6",
	"f7":         "f7",
	"f8":         "f8",
	"f9":         "f9",
	"f10":        "f10",
	"f11":        "f11",
	"f12":        "f12",
}

// NormalizeKey maps a local key name to the shared vocabulary: named control
// keys plus single printable characters. ok is false for anything else, and
// such keys are dropped rather than sent.
func NormalizeKey(name string) (key string, ok bool) {
	if k, found := namedKeys[strings.ToLower(name)]; found {
		return k, true
	}
	if utf8.RuneCountInString(name) != 1 {
		return "", false
	}
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || !unicode.IsPrint(r) || unicode.IsSpace(r) {
		return "", false
	}
	return string(unicode.ToLower(r)), true
}

// IsKnownKey reports whether name is already a vocabulary entry.
func IsKnownKey(name string) bool {
	k, ok := NormalizeKey(name)
	return ok && k == name
}
