// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package gremlin

import (
	"crypto/tls"
	"net/http"
	"time"

	"cyphergremlin/cli/internal/logging"

	"github.com/pterm/pterm"
)

// Observer receives request lifecycle notifications, typically to feed
// metrics. Implementations must be safe for concurrent use.
type Observer interface {
	RequestStarted(processor string)
	RequestFinished(processor string, code StatusCode, elapsed time.Duration)
}

// Option configures a Conn or Client.
type Option func(*options)

type options struct {
	serializer       Serializer
	username         string
	password         string
	handshakeTimeout time.Duration
	writeTimeout     time.Duration
	pingInterval     time.Duration
	tlsConfig        *tls.Config
	header           http.Header
	observer         Observer
	logger           *pterm.Logger
}

func defaultOptions() options {
	return options{
		serializer:       NewGraphSONSerializer(3),
		handshakeTimeout: 10 * time.Second,
		writeTimeout:     10 * time.Second,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.L()
	}
	return o
}

// WithSerializer selects the wire serializer.
func WithSerializer(s Serializer) Option {
	return func(o *options) {
		if s != nil {
			o.serializer = s
		}
	}
}

// WithCredentials enables SASL PLAIN authentication.
func WithCredentials(username, password string) Option {
	return func(o *options) {
		o.username = username
		o.password = password
	}
}

// WithHandshakeTimeout bounds the WebSocket opening handshake.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(o *options) { o.handshakeTimeout = d }
}

// WithWriteTimeout bounds each frame write when the context has no deadline.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) { o.writeTimeout = d }
}

// WithPingInterval sends WebSocket pings at the given interval. Zero disables.
func WithPingInterval(d time.Duration) Option {
	return func(o *options) { o.pingInterval = d }
}

// WithTLSConfig sets the TLS configuration for wss:// endpoints.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(o *options) { o.tlsConfig = cfg }
}

// WithHeader adds headers to the opening handshake.
func WithHeader(h http.Header) Option {
	return func(o *options) { o.header = h }
}

// WithObserver attaches a request observer.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithLogger overrides the package logger.
func WithLogger(l *pterm.Logger) Option {
	return func(o *options) { o.logger = l }
}
