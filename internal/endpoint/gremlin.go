// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package endpoint

import (
	"net"
	"net/url"
	"strconv"
	"strings"
)

// GremlinResolver handles Gremlin Server WebSocket addresses.
//
// Accepted forms are host, host:port, ws://host:port/path, wss://... and
// gremlin://... (an alias of ws). Userinfo is split off into User and
// Password and never appears in the normalized URL.
type GremlinResolver struct{}

// NewGremlinResolver creates a new Gremlin resolver
func NewGremlinResolver() *GremlinResolver {
	return &GremlinResolver{}
}

// Parse parses a Gremlin endpoint
func (r *GremlinResolver) Parse(input string) (*Info, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return nil, NewParseError(input, "empty endpoint", "provide a server address such as ws://localhost:8182/gremlin")
	}

	scheme := DefaultScheme
	remainder := raw
	if i := strings.Index(raw, "://"); i >= 0 {
		scheme = strings.ToLower(raw[:i])
		remainder = raw[i+3:]
	}
	switch scheme {
	case "ws", "wss":
	case "gremlin":
		scheme = "ws"
	case "http", "https":
		return nil, NewParseError(input, "unsupported scheme "+scheme, "Gremlin Server speaks WebSocket: use ws:// or wss://")
	default:
		return nil, NewParseError(input, "unsupported scheme "+scheme, "use ws://, wss:// or gremlin://")
	}

	info := &Info{
		Kind:     KindGremlin,
		Scheme:   scheme,
		Original: input,
	}

	// The last @ separates userinfo so passwords may contain unencoded @.
	if at := strings.LastIndex(remainder, "@"); at >= 0 {
		auth := remainder[:at]
		remainder = remainder[at+1:]
		user, pass, _ := strings.Cut(auth, ":")
		info.User = unescape(user)
		info.Password = unescape(pass)
	}

	hostPort := remainder
	rest := ""
	if i := strings.IndexAny(remainder, "/?"); i >= 0 {
		hostPort = remainder[:i]
		rest = remainder[i:]
	}

	host, port, err := splitHostPort(input, hostPort)
	if err != nil {
		return nil, err
	}
	info.Host = host
	info.Port = port
	if info.Port == "" {
		info.Port = DefaultPort
	}

	path, query, _ := strings.Cut(rest, "?")
	if path == "" || path == "/" {
		path = DefaultPath
	}
	info.Path = path
	info.Query = query

	return info, nil
}

func splitHostPort(input, hostPort string) (string, string, error) {
	host, port := hostPort, ""
	if strings.HasPrefix(hostPort, "[") {
		end := strings.Index(hostPort, "]")
		if end < 0 {
			return "", "", NewParseError(input, "unterminated IPv6 address", "wrap IPv6 hosts in brackets, e.g. ws://[::1]:8182/gremlin")
		}
		host = hostPort[1:end]
		after := hostPort[end+1:]
		if after != "" {
			if !strings.HasPrefix(after, ":") {
				return "", "", NewParseError(input, "unexpected text after IPv6 address", "")
			}
			port = after[1:]
		}
	} else if i := strings.LastIndex(hostPort, ":"); i >= 0 {
		host = hostPort[:i]
		port = hostPort[i+1:]
	}

	if strings.TrimSpace(host) == "" {
		return "", "", NewParseError(input, "missing host", "provide host in format ws://host:8182/gremlin")
	}
	if port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n < 1 || n > 65535 {
			return "", "", NewParseError(input, "invalid port number: "+port, "port must be numeric (1-65535)")
		}
	}
	return host, port, nil
}

// Normalize renders info as a WebSocket URL without credentials
func (r *GremlinResolver) Normalize(info *Info) (string, error) {
	if info == nil {
		return "", NewParseError("", "nil endpoint info", "")
	}
	if info.Host == "" {
		return "", NewParseError(info.Original, "missing host", "")
	}
	u := url.URL{
		Scheme:   info.Scheme,
		Host:     net.JoinHostPort(info.Host, info.Port),
		Path:     info.Path,
		RawQuery: info.Query,
	}
	if u.Scheme == "" {
		u.Scheme = DefaultScheme
	}
	return u.String(), nil
}

func unescape(s string) string {
	if v, err := url.PathUnescape(s); err == nil {
		return v
	}
	return s
}
