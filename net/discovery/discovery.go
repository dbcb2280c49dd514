// Package discovery implements UDP server discovery: clients broadcast a
// Discover request to the server's default port and servers reply with
// their display name; a client-side table tracks every server seen,
// aging entries out after their TTL lapses.
package discovery

import (
	"encoding/binary"
	"net"
	"sync"
	"time"
)

// DefaultPort is the UDP port discovery requests are broadcast to.
const DefaultPort = 15740

const (
	commandDiscover byte = 0x01
	commandReply    byte = 0x02
)

// entryTTL is how long a discovered server is kept without a fresh
// reply, decremented once per second and removed at zero.
const entryTTL = 30 * time.Second

func buildDiscoverRequest() []byte {
	return []byte{commandDiscover}
}

func buildReply(name string) []byte {
	buf := make([]byte, 1+2+len(name))
	buf[0] = commandReply
	binary.BigEndian.PutUint16(buf[1:3], uint16(len(name)))
	copy(buf[3:], name)
	return buf
}

func parseReply(raw []byte) (name string, ok bool) {
	if len(raw) < 3 || raw[0] != commandReply {
		return "", false
	}
	n := int(binary.BigEndian.Uint16(raw[1:3]))
	if len(raw) < 3+n {
		return "", false
	}
	return string(raw[3 : 3+n]), true
}

// Responder listens for Discover requests and replies with name.
type Responder struct {
	name string
	conn *net.UDPConn
	stop chan struct{}
	done chan struct{}
}

// NewResponder constructs a responder bound to the default discovery
// port, replying with name to every Discover request it sees.
func NewResponder(name string) (*Responder, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: DefaultPort})
	if err != nil {
		return nil, err
	}
	r := &Responder{name: name, conn: conn, stop: make(chan struct{}), done: make(chan struct{})}
	go r.run()
	return r, nil
}

func (r *Responder) run() {
	defer close(r.done)
	buf := make([]byte, 256)
	for {
		select {
		case <-r.stop:
			return
		default:
		}
		n, addr, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		if n >= 1 && buf[0] == commandDiscover {
			_, _ = r.conn.WriteToUDP(buildReply(r.name), addr)
		}
	}
}

// Stop closes the responder's socket.
func (r *Responder) Stop() error {
	close(r.stop)
	err := r.conn.Close()
	<-r.done
	return err
}

// Entry is one discovered server.
type Entry struct {
	Name string
	TTL  time.Duration
}

// Table is the URL → Entry map a Client maintains, split out from the
// socket-owning Client so the aging/merge logic is testable without a
// real UDP socket.
type Table struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// NewTable constructs an empty discovery table.
func NewTable() *Table {
	return &Table{entries: make(map[string]Entry)}
}

// Reply records or refreshes url's entry with a full TTL, matching "TTL
// is reset on every reply".
func (t *Table) Reply(url, name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[url] = Entry{Name: name, TTL: entryTTL}
}

// Tick decrements every entry's TTL by one second, removing any that
// reach zero — the table's 1-second aging tick.
func (t *Table) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for url, e := range t.entries {
		e.TTL -= time.Second
		if e.TTL <= 0 {
			delete(t.entries, url)
			continue
		}
		t.entries[url] = e
	}
}

// Entries returns a snapshot of the current discovery table.
func (t *Table) Entries() map[string]Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]Entry, len(t.entries))
	for k, v := range t.entries {
		out[k] = v
	}
	return out
}

// Client broadcasts Discover requests and feeds replies into a Table —
// discovery is independent of session establishment.
type Client struct {
	table *Table
	conn  *net.UDPConn
}

// NewClient constructs a discovery client bound to an ephemeral local
// UDP port.
func NewClient() (*Client, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{})
	if err != nil {
		return nil, err
	}
	return &Client{table: NewTable(), conn: conn}, nil
}

// Table returns the client's discovery table.
func (c *Client) Table() *Table { return c.table }

// Broadcast sends a Discover request to the network broadcast address on
// DefaultPort.
func (c *Client) Broadcast() error {
	_, err := c.conn.WriteToUDP(buildDiscoverRequest(), &net.UDPAddr{IP: net.IPv4bcast, Port: DefaultPort})
	return err
}

// Listen runs a read loop parsing replies into the table until stop is
// closed.
func (c *Client) Listen(stop <-chan struct{}) {
	buf := make([]byte, 256)
	for {
		select {
		case <-stop:
			return
		default:
		}
		n, addr, err := c.conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		name, ok := parseReply(buf[:n])
		if !ok {
			continue
		}
		c.table.Reply(addr.String(), name)
	}
}

// Close closes the client's socket.
func (c *Client) Close() error {
	return c.conn.Close()
}
