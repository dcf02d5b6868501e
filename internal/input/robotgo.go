//go:build cgo

package input

import (
	"github.com/go-vgo/robotgo"

	"github.com/junsooki/airdesk/internal/protocol"
)

// RobotInjector injects through robotgo.
type RobotInjector struct{}

// NewSystemInjector returns the injector for this build.
func NewSystemInjector() Injector {
	return &RobotInjector{}
}

func (RobotInjector) MoveCursor(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

func (RobotInjector) Click(x, y int, button protocol.Button, count int) error {
	robotgo.Move(x, y)
	if count == 2 {
		robotgo.Click(button.String(), true)
		return nil
	}
	for i := 0; i < count; i++ {
		robotgo.Click(button.String())
	}
	return nil
}

func (RobotInjector) KeyDown(name string) error {
	return robotgo.KeyToggle(name, "down")
}

func (RobotInjector) KeyUp(name string) error {
	return robotgo.KeyToggle(name, "up")
}
