package nets

import "net"

// IsLocalAddr reports whether addr resolves only to loopback or private addresses.
// An empty host, as in ":3001", listens on every interface and is not local.
type IsLocalAddr func(addr string) (bool, error)

func (Module) IsLocalAddr() IsLocalAddr {
	return isLocalAddr
}

func isLocalAddr(addr string) (bool, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		// no port
		host = addr
	}
	if host == "" {
		return false, nil
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback() || ip.IsPrivate(), nil
	}
	ips, err := net.LookupIP(host)
	if err != nil {
		return false, nil
	}
	if len(ips) == 0 {
		return false, nil
	}
	for _, ip := range ips {
		if !ip.IsLoopback() && !ip.IsPrivate() {
			return false, nil
		}
	}
	return true, nil
}
