package remote

import (
	"context"
	"net"
	"time"
)

// Probe reports whether the network is reachable by dialing a well-known
// TCP endpoint. It never returns an error: unreachable simply means the
// engine stays in offline mode until the next tick.
type Probe struct {
	addr    string
	timeout time.Duration
}

// NewProbe creates a probe against addr, for example "8.8.8.8:53".
func NewProbe(addr string, timeout time.Duration) *Probe {
	return &Probe{addr: addr, timeout: timeout}
}

// Online dials the probe address and reports success.
func (p *Probe) Online(ctx context.Context) bool {
	d := net.Dialer{Timeout: p.timeout}
	conn, err := d.DialContext(ctx, "tcp", p.addr)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
