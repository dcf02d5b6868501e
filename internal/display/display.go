// Package display renders the remote screen on the viewer and turns local
// interaction into relayed input.
package display

import "github.com/junsooki/airdesk/internal/peer"

// Display renders frames and captures user input. Run blocks until the
// window closes.
type Display interface {
	peer.Presenter
	Run() error
}
