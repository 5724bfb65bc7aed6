package nets

import (
	"fmt"
	"net"

	"github.com/reusee/tutor/logs"
	"golang.org/x/net/netutil"
)

// Listen opens a TCP listener. maxConns > 0 caps the connections served at the
// same time, further accepts block until one closes.
type Listen func(addr string, maxConns int) (net.Listener, error)

func (Module) Listen(
	isLocal IsLocalAddr,
	logger logs.Logger,
) Listen {
	return func(addr string, maxConns int) (net.Listener, error) {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("listen %s: %w", addr, err)
		}
		if local, _ := isLocal(addr); !local {
			logger.Warn("listening on a non-local address", "addr", ln.Addr().String())
		}
		if maxConns > 0 {
			ln = netutil.LimitListener(ln, maxConns)
		}
		logger.Info("listening", "addr", ln.Addr().String(), "max_conns", maxConns)
		return ln, nil
	}
}
