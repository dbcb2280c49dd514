// Package session implements the TCP session surface external clients
// use: a small explicit state machine plus a Listener that accepts
// connections and runs NewSession to completion. The actual client RPC
// wire protocol beyond session establishment is out of scope.
package session

import (
	"context"
	"net"
)

// State is a Session's lifecycle state.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
	Disconnecting
	SocketError
	ErrorAuthenticationFailed
	ErrorNewSessionFailed
)

// Authenticator validates client credentials when establishing a
// session; declared locally so session doesn't depend on any particular
// user store.
type Authenticator interface {
	Authenticate(user, pass string) bool
}

// Session tracks one client connection's lifecycle.
type Session struct {
	conn  net.Conn
	state State
}

// NewSession drives conn through the connect → authenticate →
// connected lifecycle, returning the resulting Session. auth is
// consulted with (user, pass) harvested from the initial handshake
// (left to the caller to have already read, since the wire handshake
// format is out of scope here).
func NewSession(conn net.Conn, auth Authenticator, user, pass string) *Session {
	s := &Session{conn: conn, state: Connecting}

	if !auth.Authenticate(user, pass) {
		s.state = ErrorAuthenticationFailed
		return s
	}

	s.state = Connected
	return s
}

// State returns the session's current lifecycle state.
func (s *Session) State() State { return s.state }

// Disconnect transitions the session to Disconnecting then
// Disconnected, closing the underlying connection.
func (s *Session) Disconnect() error {
	s.state = Disconnecting
	err := s.conn.Close()
	s.state = Disconnected
	return err
}

// Fail marks the session SocketError, used when a transport-level read/
// write failure terminates the connection outside of an explicit
// Disconnect.
func (s *Session) Fail() {
	s.state = SocketError
}

// Listener accepts TCP connections and establishes a Session for each.
type Listener struct {
	listener net.Listener
	auth     Authenticator
	onSession func(*Session)
}

// Listen starts a TCP listener on address, calling onSession with the
// resulting Session for every accepted connection, whatever its state.
// No handshake is read from the connection: every session is
// authenticated with empty credentials.
func Listen(address string, auth Authenticator, onSession func(*Session)) (*Listener, error) {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}
	l := &Listener{listener: ln, auth: auth, onSession: onSession}
	go l.acceptLoop()
	return l, nil
}

func (l *Listener) acceptLoop() {
	for {
		conn, err := l.listener.Accept()
		if err != nil {
			return
		}
		go l.onSession(NewSession(conn, l.auth, "", ""))
	}
}

// Close stops accepting new connections.
func (l *Listener) Close() error {
	return l.listener.Close()
}

// ListenContext is a context-aware variant of Listen that stops the
// accept loop when ctx is cancelled.
func ListenContext(ctx context.Context, address string, auth Authenticator, onSession func(*Session)) (*Listener, error) {
	l, err := Listen(address, auth, onSession)
	if err != nil {
		return nil, err
	}
	go func() {
		<-ctx.Done()
		_ = l.Close()
	}()
	return l, nil
}
