// Package relay shares newly-interesting corpus entries between independent
// havoc-fuzz worker processes over QUIC, with TLS 1.3 enforced on both
// ends. It never participates in the mutation engine's own decisions: no
// feedback loop, no scheduling.
package relay

import (
	"context"
	"crypto/tls"
	"encoding/binary"
	"io"

	quic "github.com/quic-go/quic-go"
)

const alpn = "havoc-relay/1"

// maxEntrySize bounds a single relayed entry to keep a misbehaving peer from
// exhausting memory with a bogus length prefix.
const maxEntrySize = 16 << 20

func tlsConfig(base *tls.Config) *tls.Config {
	if base == nil {
		base = &tls.Config{}
	} else {
		base = base.Clone()
	}

	if base.MinVersion == 0 || base.MinVersion < tls.VersionTLS13 {
		base.MinVersion = tls.VersionTLS13
	}

	if len(base.NextProtos) == 0 {
		base.NextProtos = []string{alpn}
	}

	return base
}

// Server accepts relayed entries on a QUIC listener and hands each to Sink.
type Server struct {
	ln   *quic.Listener
	Sink func(entry []byte)
}

// Listen starts a relay server bound to addr.
func Listen(addr string, tlsCfg *tls.Config, sink func(entry []byte)) (*Server, error) {
	ln, err := quic.ListenAddr(addr, tlsConfig(tlsCfg), &quic.Config{})
	if err != nil {
		return nil, err
	}

	s := &Server{ln: ln, Sink: sink}

	go s.acceptLoop()

	return s, nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.ln.Accept(context.Background())
		if err != nil {
			return
		}

		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn *quic.Conn) {
	for {
		stream, err := conn.AcceptStream(context.Background())
		if err != nil {
			return
		}

		go s.handleStream(stream)
	}
}

func (s *Server) handleStream(stream *quic.Stream) {
	defer stream.Close()

	for {
		entry, err := readEntry(stream)
		if err != nil {
			return
		}

		if s.Sink != nil {
			s.Sink(entry)
		}
	}
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string { return s.ln.Addr().String() }

// Close stops accepting new connections.
func (s *Server) Close() error { return s.ln.Close() }

// Client forwards locally discovered entries to a relay peer.
type Client struct {
	conn   *quic.Conn
	stream *quic.Stream
}

// Dial connects to a relay peer at addr.
func Dial(ctx context.Context, addr string, tlsCfg *tls.Config) (*Client, error) {
	conn, err := quic.DialAddr(ctx, addr, tlsConfig(tlsCfg), &quic.Config{})
	if err != nil {
		return nil, err
	}

	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		_ = conn.CloseWithError(0, "open stream failed")
		return nil, err
	}

	return &Client{conn: conn, stream: stream}, nil
}

// Send forwards entry to the peer. Entries larger than maxEntrySize are
// rejected rather than silently truncated.
func (c *Client) Send(entry []byte) error {
	if len(entry) > maxEntrySize {
		return io.ErrShortBuffer
	}

	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(entry)))

	if _, err := c.stream.Write(hdr[:]); err != nil {
		return err
	}

	_, err := c.stream.Write(entry)

	return err
}

// Close closes the underlying stream and connection.
func (c *Client) Close() error {
	_ = c.stream.Close()
	return c.conn.CloseWithError(0, "")
}

func readEntry(r io.Reader) ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}

	n := binary.LittleEndian.Uint32(hdr[:])
	if n > maxEntrySize {
		return nil, io.ErrShortBuffer
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	return buf, nil
}
