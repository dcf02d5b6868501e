// Package permissions checks the privacy grants the host needs before it
// can capture the screen or inject input.
package permissions

import (
	"errors"
	"fmt"
	"strings"
)

// Permission names an OS privacy grant.
type Permission string

const (
	ScreenRecording Permission = "Screen Recording"
	Accessibility   Permission = "Accessibility"
)

// ErrNotGranted is returned by Preflight when a grant is missing.
var ErrNotGranted = errors.New("permission not granted")

// Preflight checks screen recording, and accessibility when input injection
// is wanted. Missing grants trigger the OS prompt and are reported together;
// the process has to be restarted once they are granted.
func Preflight(injectInput bool) error {
	needed := []Permission{ScreenRecording}
	if injectInput {
		needed = append(needed, Accessibility)
	}

	var missing []string
	for _, p := range needed {
		if granted(p) {
			continue
		}
		request(p)
		missing = append(missing, string(p))
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s (grant it in System Settings and restart)",
			ErrNotGranted, strings.Join(missing, ", "))
	}
	return nil
}
