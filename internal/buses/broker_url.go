package buses

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	defaultPlainPort = 1883
	defaultTLSPort   = 8883
)

// ParseBrokerURL normalizes a broker address into the tcp:// or ssl:// form
// the transport dials. Accepted schemes: mqtt, tcp (plain, default port
// 1883), mqtts, ssl, tls (TLS, default port 8883). A bare host:port or host
// is treated as plain. Anything else is a configuration error and fatal at
// startup.
func ParseBrokerURL(raw string) (string, error) {
	if !strings.Contains(raw, "://") {
		host, port := splitHostPort(raw, defaultPlainPort)
		return fmt.Sprintf("tcp://%s:%d", host, port), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("unparseable broker URL %q: %w", raw, err)
	}

	switch u.Scheme {
	case "mqtt", "tcp":
		host, port := hostPortOf(u, defaultPlainPort)
		return fmt.Sprintf("tcp://%s:%d", host, port), nil
	case "mqtts", "ssl", "tls":
		host, port := hostPortOf(u, defaultTLSPort)
		return fmt.Sprintf("ssl://%s:%d", host, port), nil
	default:
		return "", fmt.Errorf("unsupported broker URL scheme %q", u.Scheme)
	}
}

func hostPortOf(u *url.URL, defaultPort int) (string, int) {
	host := u.Hostname()
	if host == "" {
		host = u.Host
	}
	if p := u.Port(); p != "" {
		var port int
		if _, err := fmt.Sscanf(p, "%d", &port); err == nil {
			return host, port
		}
	}
	return host, defaultPort
}

func splitHostPort(raw string, defaultPort int) (string, int) {
	if idx := strings.LastIndex(raw, ":"); idx > 0 {
		var port int
		if _, err := fmt.Sscanf(raw[idx+1:], "%d", &port); err == nil {
			return raw[:idx], port
		}
	}
	return raw, defaultPort
}
