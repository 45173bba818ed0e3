package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const inboundQueueSize = 256

var (
	wsConn *websocket.Conn
	connMu sync.Mutex

	// inbound buffers text frames between the reader goroutine and the
	// render thread, which drains it non-blockingly every frame.
	inbound = make(chan []byte, inboundQueueSize)

	bytesReceived  atomic.Uint64
	framesReceived atomic.Uint64
	framesDropped  atomic.Uint64

	connectedSince time.Time
	lastPingSent   time.Time
	netLatency     time.Duration
	latencyMu      sync.Mutex
)

var errNotConnected = errors.New("not connected")

// sendFrame writes one outbound text frame. A variable so tests and
// fake mode can capture outbound traffic.
var sendFrame = wsSend

func wsSend(data []byte) error {
	connMu.Lock()
	conn := wsConn
	var err error
	if conn != nil {
		err = conn.WriteMessage(websocket.TextMessage, data)
	}
	connMu.Unlock()
	if conn == nil {
		return errNotConnected
	}
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	logDebug("send %d bytes: %.120s", len(data), data)
	return nil
}

func isConnected() bool {
	connMu.Lock()
	defer connMu.Unlock()
	return wsConn != nil
}

// connectionUptime reports how long the current connection has been
// up, zero when disconnected.
func connectionUptime() time.Duration {
	connMu.Lock()
	defer connMu.Unlock()
	if wsConn == nil || connectedSince.IsZero() {
		return 0
	}
	return time.Since(connectedSince)
}

// dialWithRetry attempts the websocket dial with a short backoff until
// the context ends.
func dialWithRetry(ctx context.Context, wsURL string) (*websocket.Conn, error) {
	if !strings.HasPrefix(wsURL, "ws://") && !strings.HasPrefix(wsURL, "wss://") {
		return nil, fmt.Errorf("invalid ws url: %s", wsURL)
	}
	var lastErr error
	for attempt := 0; attempt < 12; attempt++ {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	return nil, lastErr
}

// connectLoop keeps a connection to the server alive for the lifetime
// of the process: dial, handshake, read until failure, back off,
// repeat. Reconnection resets nothing client-side; the world stays
// until fresh snapshots replace it.
func connectLoop(ctx context.Context, wsURL, clientName, version string) {
	backoff := time.Second
	for {
		conn, err := dialWithRetry(ctx, wsURL)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logError("connect %s: %v", wsURL, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		connMu.Lock()
		wsConn = conn
		connectedSince = time.Now()
		connMu.Unlock()
		logDebug("connected to %s", wsURL)

		if err := sendFrame(handshakeMessage(clientName, version)); err != nil {
			logWarn("handshake: %v", err)
		}

		readLoop(ctx, conn)

		connMu.Lock()
		wsConn = nil
		connectedSince = time.Time{}
		connMu.Unlock()
		conn.Close()
		if ctx.Err() != nil {
			return
		}
		logWarn("connection lost, reconnecting")
	}
}

// readLoop feeds inbound frames to the render thread until the
// connection fails. Frames beyond the buffer are dropped with a
// throttled warning rather than blocking the reader.
func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		if ctx.Err() != nil {
			return
		}
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				logDebug("read: %v", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			logWarnThrottled("non-text frame dropped (%d bytes)", len(data))
			continue
		}
		bytesReceived.Add(uint64(len(data)))
		framesReceived.Add(1)
		select {
		case inbound <- data:
		default:
			framesDropped.Add(1)
			logWarnThrottled("inbound queue full, frame dropped")
		}
	}
}

// drainInbound dispatches every buffered frame without blocking the
// frame. Called once per Update.
func drainInbound() {
	for {
		select {
		case data := <-inbound:
			processServerMessage(data)
		default:
			return
		}
	}
}

// pingLoop sends a keepalive ping every 30 seconds for the latency
// readout in the debug HUD.
func pingLoop(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !isConnected() {
				continue
			}
			latencyMu.Lock()
			lastPingSent = time.Now()
			latencyMu.Unlock()
			if err := sendFrame(pingMessage()); err != nil {
				logDebug("ping: %v", err)
			}
		}
	}
}

// notePongReceived records a latency sample for the debug HUD.
func notePongReceived() {
	latencyMu.Lock()
	if !lastPingSent.IsZero() {
		netLatency = time.Since(lastPingSent)
	}
	latencyMu.Unlock()
}
