// Package session owns the TCP±TLS connection lifecycle: dialing, the
// Synergy handshake, the fixed-delay reconnect loop, and feeding the wire
// into internal/protocol and internal/dispatcher. Grounded on
// _examples/aluo96078-vkvm/internal/network/ws_client.go's
// loop/connect/readPump control flow and on
// original_source/packages/pynergy_client/src/pynergy_client/client/client.py's
// _connect/run/close/stop sequence.
package session

import (
	"context"
	"crypto/tls"
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"net"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"synergyclient/internal/cursor"
	"synergyclient/internal/device"
	"synergyclient/internal/dispatcher"
	"synergyclient/internal/keycodes"
	"synergyclient/internal/protocol"
	"synergyclient/internal/tlsconfig"
)

// State is the session lifecycle described in spec.md §4.7.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateAwaitingHello
	StateGreeted
	StateActive
	StateDraining
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateAwaitingHello:
		return "awaiting_hello"
	case StateGreeted:
		return "greeted"
	case StateActive:
		return "active"
	case StateDraining:
		return "draining"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// protocolMajor/Minor is the Synergy wire version this client speaks in its
// HelloBack reply.
const protocolMajor, protocolMinor = 1, 6

const helloTimeout = 10 * time.Second
const reconnectDelay = 5 * time.Second

// calvInterval is the default CALV keep-alive cadence spec.md §4.7
// documents; heartbeatTimeout is the 3×CALV silence window after which the
// session is declared Failed.
const calvInterval = 3 * time.Second
const heartbeatTimeout = 3 * calvInterval

// Config is the subset of the client's persisted configuration a Session
// needs, grounded on original_source's config.py dataclass fields.
type Config struct {
	Server     string
	Port       int
	ClientName string

	ScreenWidth, ScreenHeight int32

	AbsoluteMouse      bool
	MoveThrottle       time.Duration
	PosResyncEveryMove int

	TLSMode        tlsconfig.Mode
	PemPath        string
	KnownHostsPath string
	TrustOnChange  bool
}

// Session drives one connection attempt and its reconnects for the
// lifetime of Run. Only one goroutine calls dispatcher methods at a time,
// matching spec.md §5's single cooperative event loop.
type Session struct {
	cfg   Config
	dev   *device.VirtualDevice
	state State

	reconnects int
}

// New builds a Session bound to an already-open virtual device.
func New(cfg Config, dev *device.VirtualDevice) *Session {
	return &Session{cfg: cfg, dev: dev, state: StateDisconnected}
}

// State reports the current lifecycle state, used by internal/diag and
// internal/tray.
func (s *Session) State() State { return s.state }

// StateString satisfies internal/diag.StatusProvider without that package
// needing to import internal/session.
func (s *Session) StateString() string { return s.state.String() }

// Reconnects reports how many reconnect attempts have been made, used by
// internal/diag's status endpoint.
func (s *Session) Reconnects() int { return s.reconnects }

// Run connects and processes messages until ctx is canceled, reconnecting
// with a fixed delay after every disconnect, mirroring ws_client.go's
// loop(). It returns only when ctx is canceled or a fatal, non-retryable
// error occurs (TLS trust failure).
func (s *Session) Run(ctx context.Context) error {
	for {
		err := s.runOnce(ctx)
		if ctx.Err() != nil {
			s.state = StateDisconnected
			return nil
		}
		var untrusted *tlsconfig.UntrustedFingerprint
		if asUntrusted(err, &untrusted) {
			s.state = StateFailed
			return err
		}
		if err != nil {
			log.Printf("session: disconnected: %v", err)
		}
		s.state = StateDisconnected
		s.reconnects++
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(reconnectDelay):
		}
	}
}

func asUntrusted(err error, target **tlsconfig.UntrustedFingerprint) bool {
	return errors.As(err, target)
}

func (s *Session) runOnce(ctx context.Context) error {
	s.state = StateConnecting
	conn, err := s.dial(ctx)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	s.state = StateAwaitingHello
	if err := s.handshake(conn); err != nil {
		return fmt.Errorf("handshake: %w", err)
	}
	s.state = StateGreeted

	ctxCursor := cursor.NewContext(s.cfg.ScreenWidth, s.cfg.ScreenHeight)
	disp := dispatcher.New(deviceAdapter{s.dev}, ctxCursor, dispatcher.Config{
		AbsoluteMouse:      s.cfg.AbsoluteMouse,
		MoveThrottle:       s.cfg.MoveThrottle,
		PosResyncEveryMove: s.cfg.PosResyncEveryMove,
	}, func(m protocol.Message) error {
		return s.send(conn, m)
	})

	return s.readLoop(ctx, conn, disp)
}

// keepaliveIdle is how long the connection may sit silent before the
// kernel starts probing it. A Synergy server can go quiet for long
// stretches between KeepAlive messages on an otherwise idle desktop, so
// this is set above that cadence but well below a user noticing a dead
// link only on their next keypress.
const keepaliveIdle = 30

func setKeepalive(network, address string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_KEEPIDLE, keepaliveIdle)
		if sockErr != nil {
			return
		}
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}

func (s *Session) dial(ctx context.Context) (net.Conn, error) {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server, s.cfg.Port)
	dialer := &net.Dialer{Timeout: helloTimeout, Control: setKeepalive}

	if s.cfg.TLSMode == tlsconfig.ModePlain {
		return dialer.DialContext(ctx, "tcp", addr)
	}

	tlsCfg, err := tlsconfig.ClientConfig(s.cfg.TLSMode, s.cfg.PemPath)
	if err != nil {
		return nil, err
	}
	conn, err := tls.DialWithDialer(dialer, "tcp", addr, tlsCfg)
	if err != nil {
		return nil, err
	}

	state := conn.ConnectionState()
	if len(state.PeerCertificates) == 0 {
		conn.Close()
		return nil, fmt.Errorf("no server certificate presented")
	}
	fingerprint := tlsconfig.Fingerprint(state.PeerCertificates[0].Raw)

	kh, err := tlsconfig.LoadKnownHosts(s.cfg.KnownHostsPath)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := kh.Verify(addr, fingerprint, s.cfg.TrustOnChange); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}

// handshake waits for the server's Hello, replies with HelloBack. Grounded
// on client.py's _connect: a 10-second deadline on the server's first
// message, after which the attempt is abandoned.
func (s *Session) handshake(conn net.Conn) error {
	conn.SetReadDeadline(time.Now().Add(helloTimeout))
	defer conn.SetReadDeadline(time.Time{})

	lenBuf := make([]byte, 4)
	if _, err := readFull(conn, lenBuf); err != nil {
		return fmt.Errorf("read hello length: %w", err)
	}
	frameLen := binary.BigEndian.Uint32(lenBuf)
	if frameLen > protocol.MaxMessageSize {
		return &protocol.ProtocolError{Reason: "hello frame too large"}
	}
	payload := make([]byte, frameLen)
	if _, err := readFull(conn, payload); err != nil {
		return fmt.Errorf("read hello payload: %w", err)
	}

	hello, err := protocol.DecodeHello(payload)
	if err != nil {
		return err
	}
	// spec.md §4.7 only rejects a major below what this client speaks; a
	// server announcing a newer major is assumed backward compatible with
	// this client's HelloBack rather than refused outright.
	if hello.Major < protocolMajor {
		return fmt.Errorf("incompatible protocol version %d.%d", hello.Major, hello.Minor)
	}

	reply := protocol.EncodeHelloBack(protocol.HelloBackMsg{
		Major:      protocolMajor,
		Minor:      protocolMinor,
		ClientName: s.cfg.ClientName,
	})
	_, err = conn.Write(reply)
	return err
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (s *Session) send(conn net.Conn, m protocol.Message) error {
	wire, err := protocol.EncodeMessage(m)
	if err != nil {
		return err
	}
	_, err = conn.Write(wire)
	return err
}

// heartbeatTimeoutError is returned by readLoop when the heartbeat watchdog
// expires, so Run's caller can tell a silent-server timeout apart from an
// ordinary transport error (spec.md §4.7: "Active | heartbeat timeout |
// Failed | close; surface timeout").
type heartbeatTimeoutError struct{ after time.Duration }

func (e *heartbeatTimeoutError) Error() string {
	return fmt.Sprintf("session: no message received for %s, heartbeat timed out", e.after)
}

// readLoop is the main per-connection loop: read bytes, feed the
// StreamParser, dispatch every complete message, until the connection
// fails or a fatal dispatch error (EBAD/EBSY/EUNK/EICV) occurs. Grounded on
// client.py's run(): `reader.read(4096)` into `parser.feed` then draining
// `next_msg()` in a loop.
//
// A read deadline of 3×CALV_interval (spec.md §4.7) is armed for the whole
// loop and reset on every successfully decoded message — the server may go
// quiet either waiting to send CIAK or afterwards, and the spec's "no
// message has been received" wording for the watchdog isn't limited to
// CALV frames specifically, so any message counts as a heartbeat.
func (s *Session) readLoop(ctx context.Context, conn net.Conn, disp *dispatcher.Dispatcher) error {
	parser := protocol.NewStreamParser()
	buf := make([]byte, 4096)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	armHeartbeat := func() error {
		return conn.SetReadDeadline(time.Now().Add(heartbeatTimeout))
	}
	if err := armHeartbeat(); err != nil {
		return err
	}

	for {
		n, err := conn.Read(buf)
		if n > 0 {
			parser.Feed(buf[:n])
			for {
				msg, decErr := parser.Next()
				if decErr != nil {
					if _, ok := decErr.(*protocol.ProtocolError); ok {
						return decErr
					}
					// Malformed payload for a known opcode: log and keep
					// reading subsequent frames (spec.md §4.8).
					log.Printf("session: dropping malformed message: %v", decErr)
					continue
				}
				if msg == nil {
					break
				}
				if _, ok := msg.(protocol.InfoAckMsg); ok && s.state == StateGreeted {
					s.state = StateActive
				}
				if err := armHeartbeat(); err != nil {
					return err
				}
				if hErr := disp.Handle(msg); hErr != nil {
					s.dev.ReleaseAll()
					return hErr
				}
			}
		}
		if err != nil {
			s.dev.ReleaseAll()
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				s.state = StateFailed
				return &heartbeatTimeoutError{after: heartbeatTimeout}
			}
			return err
		}
	}
}

// deviceAdapter satisfies dispatcher.Device by forwarding to the concrete
// *device.VirtualDevice. It exists only so internal/dispatcher can depend on
// a narrow interface instead of internal/device directly, which keeps
// dispatcher testable without a uinput node (see dispatcher_test.go's
// fakeDevice).
type deviceAdapter struct {
	dev *device.VirtualDevice
}

func (d deviceAdapter) KeyDown(c keycodes.EvCode) error         { return d.dev.KeyDown(c) }
func (d deviceAdapter) KeyUp(c keycodes.EvCode) error           { return d.dev.KeyUp(c) }
func (d deviceAdapter) KeyRepeat(c keycodes.EvCode) error       { return d.dev.KeyRepeat(c) }
func (d deviceAdapter) ButtonDown(c keycodes.EvCode) error      { return d.dev.ButtonDown(c) }
func (d deviceAdapter) ButtonUp(c keycodes.EvCode) error        { return d.dev.ButtonUp(c) }
func (d deviceAdapter) MoveRelative(dx, dy int32) error         { return d.dev.MoveRelative(dx, dy) }
func (d deviceAdapter) MoveAbsolute(x, y int32) error           { return d.dev.MoveAbsolute(x, y) }
func (d deviceAdapter) Wheel(vertical bool, ticks int32) error  { return d.dev.Wheel(vertical, ticks) }
func (d deviceAdapter) ReleaseAll() error                       { return d.dev.ReleaseAll() }
