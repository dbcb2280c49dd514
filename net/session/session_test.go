package session

import (
	"net"
	"testing"
)

type fakeAuth struct {
	valid map[string]string
}

func (f fakeAuth) Authenticate(user, pass string) bool {
	want, ok := f.valid[user]
	return ok && want == pass
}

func TestNewSessionConnectedOnValidCredentials(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	auth := fakeAuth{valid: map[string]string{"alice": "secret"}}
	s := NewSession(server, auth, "alice", "secret")

	if s.State() != Connected {
		t.Fatalf("expected Connected, got %v", s.State())
	}
}

func TestNewSessionAuthenticationFailed(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	auth := fakeAuth{valid: map[string]string{"alice": "secret"}}
	s := NewSession(server, auth, "alice", "wrong")

	if s.State() != ErrorAuthenticationFailed {
		t.Fatalf("expected ErrorAuthenticationFailed, got %v", s.State())
	}
}

func TestDisconnectClosesConnectionAndTransitions(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	auth := fakeAuth{valid: map[string]string{"alice": "secret"}}
	s := NewSession(server, auth, "alice", "secret")

	if err := s.Disconnect(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.State() != Disconnected {
		t.Fatalf("expected Disconnected, got %v", s.State())
	}
}

func TestFailMarksSocketError(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	auth := fakeAuth{valid: map[string]string{"alice": "secret"}}
	s := NewSession(server, auth, "alice", "secret")
	s.Fail()

	if s.State() != SocketError {
		t.Fatalf("expected SocketError, got %v", s.State())
	}
}

func TestListenAcceptsAndEstablishesSessions(t *testing.T) {
	auth := fakeAuth{valid: map[string]string{"alice": "secret"}}
	established := make(chan *Session, 1)

	ln, err := Listen("127.0.0.1:0", auth, func(s *Session) {
		established <- s
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer ln.Close()

	addr := ln.listener.Addr().String()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("unexpected dial error: %v", err)
	}
	defer conn.Close()

	s := <-established
	// Listen doesn't parse a handshake itself (out of scope), so the
	// session authenticates with empty credentials against fakeAuth,
	// which rejects them — exercising the failure path end to end.
	if s.State() != ErrorAuthenticationFailed {
		t.Fatalf("expected ErrorAuthenticationFailed, got %v", s.State())
	}
}
