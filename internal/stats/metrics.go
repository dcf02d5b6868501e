package stats

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "airdesk"

// Register exposes s on reg. Counters are read at scrape time, so nothing
// else has to be kept in sync.
func Register(reg prometheus.Registerer, s *Stats, namespace string) error {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	counter := func(name, help string, v interface{ Load() int64 }) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(v.Load()) })
	}

	collectors := []prometheus.Collector{
		counter("sessions_total", "Authenticated sessions since start.", &s.Sessions),
		counter("auth_failures_total", "Rejected authentication attempts.", &s.AuthFailures),
		counter("frames_sent_total", "Frames written to the channel.", &s.FramesSent),
		counter("frames_received_total", "Frames decoded and delivered.", &s.FramesReceived),
		counter("frames_dropped_total", "Frames lost to capture, encode or decode errors.", &s.FramesDropped),
		counter("frame_bytes_sent_total", "Frame payload bytes written.", &s.BytesSent),
		counter("frame_bytes_received_total", "Frame payload bytes read.", &s.BytesReceived),
		counter("wire_bytes_sent_total", "Channel bytes written by finished sessions.", &s.WireSent),
		counter("wire_bytes_received_total", "Channel bytes read by finished sessions.", &s.WireReceived),
		counter("input_applied_total", "Input events injected or relayed.", &s.InputApplied),
		counter("input_dropped_total", "Input events discarded as unmappable.", &s.InputDropped),
		counter("corrupt_messages_total", "Messages that failed decryption or decoding.", &s.CorruptMsgs),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions currently running.",
		}, func() float64 { return float64(s.ActiveSessions.Load()) }),
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
