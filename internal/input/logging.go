//go:build !cgo

package input

import (
	"github.com/junsooki/airdesk/internal/protocol"
	"github.com/junsooki/airdesk/internal/util"
)

// LoggingInjector records input at debug level instead of injecting it.
// robotgo needs cgo, so CGO_ENABLED=0 builds fall back to it.
type LoggingInjector struct{}

// NewSystemInjector returns the injector for this build.
func NewSystemInjector() Injector {
	util.LogWarning("input injection disabled: this binary was built without cgo")
	return LoggingInjector{}
}

func (LoggingInjector) MoveCursor(x, y int) error {
	util.LogDebug("move cursor to (%d, %d)", x, y)
	return nil
}

func (LoggingInjector) Click(x, y int, button protocol.Button, count int) error {
	util.LogDebug("click %s x%d at (%d, %d)", button, count, x, y)
	return nil
}

func (LoggingInjector) KeyDown(name string) error {
	util.LogDebug("key down %q", name)
	return nil
}

func (LoggingInjector) KeyUp(name string) error {
	util.LogDebug("key up %q", name)
	return nil
}
