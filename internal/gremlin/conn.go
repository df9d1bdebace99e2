// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package gremlin

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Conn is a single WebSocket connection to Gremlin Server. Requests are
// multiplexed over it and matched to responses by request ID.
type Conn struct {
	ws   *websocket.Conn
	url  string
	opts options

	writeMu sync.Mutex

	mu       sync.Mutex
	pending  map[string]*ResultSet
	closed   bool
	closeErr error

	done      chan struct{}
	closeOnce sync.Once
}

// Dial opens a connection and starts its reader.
func Dial(ctx context.Context, url string, opts ...Option) (*Conn, error) {
	o := buildOptions(opts)
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: o.handshakeTimeout,
		TLSClientConfig:  o.tlsConfig,
	}
	ws, resp, err := dialer.DialContext(ctx, url, o.header)
	if err != nil {
		if resp != nil {
			err = fmt.Errorf("handshake rejected with %s: %w", resp.Status, err)
		}
		return nil, &TransportError{Op: "dial", Err: err}
	}

	c := &Conn{
		ws:      ws,
		url:     url,
		opts:    o,
		pending: make(map[string]*ResultSet),
		done:    make(chan struct{}),
	}
	o.logger.Debug("gremlin connection opened", o.logger.Args("url", url, "serializer", o.serializer.MimeType()))

	go c.readLoop()
	if o.pingInterval > 0 {
		go c.pingLoop(o.pingInterval)
	}
	return c, nil
}

// Submit sends req and returns a result set that fills as responses arrive.
func (c *Conn) Submit(ctx context.Context, req RequestMessage) (*ResultSet, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	payload, err := c.opts.serializer.SerializeRequest(req)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.closed {
		cause := c.closeErr
		c.mu.Unlock()
		if cause == nil {
			cause = ErrConnClosed
		}
		return nil, &TransportError{Op: "submit", Err: cause}
	}
	rs := newResultSet(req.RequestID, req.Processor, c.opts.observer)
	id := req.RequestID
	rs.release = func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}
	c.pending[id] = rs
	c.mu.Unlock()

	c.opts.logger.Trace("gremlin request", c.opts.logger.Args("request_id", id, "op", req.Op, "processor", req.Processor))

	if err := c.write(ctx, payload); err != nil {
		terr := &TransportError{Op: "write", Err: err}
		rs.abandon(terr)
		return nil, terr
	}
	return rs, nil
}

// Closed reports whether the connection can no longer be used.
func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close sends a close frame, tears down the socket and fails pending requests.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.ws.Close()
		<-c.done
		c.fail(ErrConnClosed)
	})
	return err
}

func (c *Conn) write(ctx context.Context, payload []byte) error {
	deadline, ok := ctx.Deadline()
	if !ok && c.opts.writeTimeout > 0 {
		deadline = time.Now().Add(c.opts.writeTimeout)
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.ws.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.BinaryMessage, payload)
}

func (c *Conn) readLoop() {
	defer close(c.done)
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			c.fail(&TransportError{Op: "read", Err: err})
			return
		}
		resp, err := c.opts.serializer.DeserializeResponse(data)
		if err != nil {
			c.opts.logger.Warn("dropping undecodable response", c.opts.logger.Args("error", err.Error()))
			continue
		}
		c.dispatch(resp)
	}
}

func (c *Conn) dispatch(resp ResponseMessage) {
	c.mu.Lock()
	rs, ok := c.pending[resp.RequestID]
	c.mu.Unlock()
	if !ok {
		c.opts.logger.Debug("response for unknown request", c.opts.logger.Args("request_id", resp.RequestID, "code", int(resp.Status.Code)))
		return
	}

	switch code := resp.Status.Code; code {
	case StatusPartialContent:
		rs.push(resp.Items())
	case StatusSuccess:
		rs.push(resp.Items())
		c.complete(rs, code, resp.Status.Attributes, nil)
	case StatusNoContent:
		c.complete(rs, code, resp.Status.Attributes, nil)
	case StatusAuthenticate:
		if err := c.authenticate(resp.RequestID); err != nil {
			c.complete(rs, StatusUnauthorized, resp.Status.Attributes, err)
		}
	default:
		c.complete(rs, code, resp.Status.Attributes, &ResponseError{
			RequestID:  resp.RequestID,
			Code:       code,
			Message:    resp.Status.Message,
			Attributes: resp.Status.Attributes,
		})
	}
}

func (c *Conn) complete(rs *ResultSet, code StatusCode, attrs map[string]any, err error) {
	c.mu.Lock()
	delete(c.pending, rs.requestID)
	c.mu.Unlock()
	rs.finish(code, attrs, err)
}

// authenticate answers a 407 challenge with SASL PLAIN under the challenged
// request ID.
func (c *Conn) authenticate(requestID string) error {
	if c.opts.username == "" {
		return &ResponseError{
			RequestID: requestID,
			Code:      StatusUnauthorized,
			Message:   "server requires authentication but no credentials are configured",
		}
	}
	token := "\x00" + c.opts.username + "\x00" + c.opts.password
	payload, err := c.opts.serializer.SerializeRequest(RequestMessage{
		RequestID: requestID,
		Op:        OpAuthentication,
		Args: map[string]any{
			ArgSASL:          base64.StdEncoding.EncodeToString([]byte(token)),
			ArgSASLMechanism: "PLAIN",
		},
	})
	if err != nil {
		return err
	}
	c.opts.logger.Debug("answering authentication challenge", c.opts.logger.Args("request_id", requestID, "user", c.opts.username))
	if err := c.write(context.Background(), payload); err != nil {
		return &TransportError{Op: "authenticate", Err: err}
	}
	return nil
}

func (c *Conn) fail(err error) {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		c.closeErr = err
	}
	pending := c.pending
	c.pending = make(map[string]*ResultSet)
	c.mu.Unlock()

	if !IsTransport(err) {
		err = &TransportError{Op: "read", Err: err}
	}
	for _, rs := range pending {
		rs.finish(StatusTransportFailure, nil, err)
	}
}

func (c *Conn) pingLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(interval))
			c.writeMu.Unlock()
			if err != nil {
				c.opts.logger.Debug("keep-alive ping failed", c.opts.logger.Args("error", err.Error()))
				return
			}
		}
	}
}
