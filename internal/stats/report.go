package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/junsooki/airdesk/internal/util"
)

// DefaultReportInterval is how often StartReporter logs throughput.
const DefaultReportInterval = 10 * time.Second

// StartReporter logs frame throughput every interval while anything moves.
// It stops when ctx is cancelled.
func StartReporter(ctx context.Context, s *Stats, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultReportInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		prev := s.Snapshot()
		for {
			select {
			case <-ticker.C:
				cur := s.Snapshot()
				if line, ok := formatReport(prev, cur, interval); ok {
					util.LogInfo("%s", line)
				}
				prev = cur
			case <-ctx.Done():
				return
			}
		}
	}()
}

func formatReport(prev, cur Snapshot, interval time.Duration) (string, bool) {
	secs := interval.Seconds()
	out := float64(cur.BytesSent-prev.BytesSent) / secs
	in := float64(cur.BytesReceived-prev.BytesReceived) / secs
	fpsOut := float64(cur.FramesSent-prev.FramesSent) / secs
	fpsIn := float64(cur.FramesReceived-prev.FramesReceived) / secs
	dropped := cur.FramesDropped - prev.FramesDropped

	if fpsOut == 0 && fpsIn == 0 && dropped == 0 {
		return "", false
	}
	return fmt.Sprintf("Out: %s/s %4.1f fps | In: %s/s %4.1f fps | Dropped: %d",
		formatBytes(out), fpsOut, formatBytes(in), fpsIn, dropped), true
}

var byteUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB"}

// formatBytes renders b in exactly 8 characters, e.g. " 1.5 KiB".
func formatBytes(b float64) string {
	unit := 0
	for b > 99 && unit < len(byteUnits)-1 {
		b /= 1024
		unit++
	}
	return fmt.Sprintf("%4.1f %3s", b, byteUnits[unit])
}
