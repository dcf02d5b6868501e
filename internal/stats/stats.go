// Package stats counts session traffic and exposes it as log lines and
// Prometheus metrics.
package stats

import "sync/atomic"

// Stats holds process-wide counters. All fields are safe for concurrent use.
type Stats struct {
	Sessions       atomic.Int64 // authenticated sessions since start
	ActiveSessions atomic.Int64
	AuthFailures   atomic.Int64
	FramesSent     atomic.Int64
	FramesReceived atomic.Int64
	FramesDropped  atomic.Int64 // capture, encode or decode failures
	BytesSent      atomic.Int64 // frame payload bytes written
	BytesReceived  atomic.Int64 // frame payload bytes read
	WireSent       atomic.Int64 // channel bytes written, framing and crypto included
	WireReceived   atomic.Int64 // channel bytes read, framing and crypto included
	InputApplied   atomic.Int64
	InputDropped   atomic.Int64
	CorruptMsgs    atomic.Int64 // decrypt or envelope failures
}

func New() *Stats {
	return &Stats{}
}

func (s *Stats) SessionStarted() {
	s.Sessions.Add(1)
	s.ActiveSessions.Add(1)
}

func (s *Stats) SessionEnded() { s.ActiveSessions.Add(-1) }

// AddWire adds a finished session's channel byte counts.
func (s *Stats) AddWire(sent, received uint64) {
	s.WireSent.Add(int64(sent))
	s.WireReceived.Add(int64(received))
}

func (s *Stats) FrameSent(n int) {
	s.FramesSent.Add(1)
	s.BytesSent.Add(int64(n))
}

func (s *Stats) FrameReceived(n int) {
	s.FramesReceived.Add(1)
	s.BytesReceived.Add(int64(n))
}

// Snapshot is a point-in-time copy of Stats.
type Snapshot struct {
	Sessions       int64
	ActiveSessions int64
	AuthFailures   int64
	FramesSent     int64
	FramesReceived int64
	FramesDropped  int64
	BytesSent      int64
	BytesReceived  int64
	WireSent       int64
	WireReceived   int64
	InputApplied   int64
	InputDropped   int64
	CorruptMsgs    int64
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Sessions:       s.Sessions.Load(),
		ActiveSessions: s.ActiveSessions.Load(),
		AuthFailures:   s.AuthFailures.Load(),
		FramesSent:     s.FramesSent.Load(),
		FramesReceived: s.FramesReceived.Load(),
		FramesDropped:  s.FramesDropped.Load(),
		BytesSent:      s.BytesSent.Load(),
		BytesReceived:  s.BytesReceived.Load(),
		WireSent:       s.WireSent.Load(),
		WireReceived:   s.WireReceived.Load(),
		InputApplied:   s.InputApplied.Load(),
		InputDropped:   s.InputDropped.Load(),
		CorruptMsgs:    s.CorruptMsgs.Load(),
	}
}
