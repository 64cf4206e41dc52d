package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/xy-planning-network/outpost"
)

// InjectIPAddress grabs the IP address of the client
// and promotes it to the request context under outpost.IpAddrKey.
func InjectIPAddress() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := GetIPAddress(r.Header)
			if ip == unknownIP {
				if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
					ip = host
				}
			}

			h.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), outpost.IpAddrKey, ip)))
		})
	}
}

const unknownIP = "0.0.0.0"

// GetIPAddress parses "X-Forwarded-For" and "X-Real-Ip" headers for the IP address of the client.
// Addresses from private and non-global ranges are skipped.
func GetIPAddress(hm http.Header) string {
	for _, h := range []string{"X-Forwarded-For", "X-Real-Ip"} {
		addresses := strings.Split(hm.Get(h), ",")
		// the right-most public address is the one right before our proxy
		for i := len(addresses) - 1; i >= 0; i-- {
			ip := net.ParseIP(strings.TrimSpace(addresses[i]))
			if ip == nil || !ip.IsGlobalUnicast() || ip.IsPrivate() {
				continue
			}

			return ip.String()
		}
	}

	return unknownIP
}
