// Package query fetches live status from game servers using the Source
// A2S_INFO protocol over UDP.
package query

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"time"

	"ServerDesk/entity"
	"ServerDesk/internal/lib/sl"
)

const (
	headerSimple = -1
	headerSplit  = -2

	typeInfoRequest = 0x54
	typeInfoReply   = 0x49
	typeChallenge   = 0x41

	maxPacketSize = 1400

	DefaultTimeout = 5 * time.Second
)

var infoPayload = []byte("Source Engine Query\x00")

var (
	ErrMalformed = errors.New("malformed query reply")
	ErrSplit     = errors.New("split query replies are not supported")
)

// Client performs single round-trip A2S_INFO queries.
type Client struct {
	timeout time.Duration
	log     *slog.Logger
}

func New(timeout time.Duration, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		timeout: timeout,
		log:     log.With(sl.Module("query")),
	}
}

// Query asks the server at addr:port for its name, map and player counts.
func (c *Client) Query(ctx context.Context, addr netip.Addr, port int) (*entity.QueryResult, error) {
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid query port %d", port)
	}
	target := netip.AddrPortFrom(addr, uint16(port)).String()

	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "udp", target)
	if err != nil {
		return nil, fmt.Errorf("query dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	reply, err := c.roundTrip(conn, infoRequest(nil))
	if err != nil {
		return nil, err
	}

	// Servers that enforce challenges answer the first request with a token
	// that has to be echoed back.
	if len(reply) == 5 && reply[0] == typeChallenge {
		reply, err = c.roundTrip(conn, infoRequest(reply[1:5]))
		if err != nil {
			return nil, err
		}
	}

	result, err := parseInfo(reply)
	if err != nil {
		c.log.With(
			slog.String("target", target),
			sl.Err(err),
		).Debug("parse info reply")
		return nil, err
	}
	return result, nil
}

func (c *Client) roundTrip(conn net.Conn, request []byte) ([]byte, error) {
	if _, err := conn.Write(request); err != nil {
		return nil, fmt.Errorf("query write: %w", err)
	}

	buf := make([]byte, maxPacketSize)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("query read: %w", err)
	}
	if n < 5 {
		return nil, fmt.Errorf("%w: packet of %d bytes", ErrMalformed, n)
	}

	r := reader{buf: buf[:n]}
	switch header := r.i32(); header {
	case headerSimple:
		return r.rest(), nil
	case headerSplit:
		return nil, ErrSplit
	default:
		return nil, fmt.Errorf("%w: header %#x", ErrMalformed, uint32(header))
	}
}

func infoRequest(challenge []byte) []byte {
	buf := make([]byte, 0, 5+len(infoPayload)+len(challenge))
	buf = append(buf, 0xFF, 0xFF, 0xFF, 0xFF, typeInfoRequest)
	buf = append(buf, infoPayload...)
	buf = append(buf, challenge...)
	return buf
}

// parseInfo decodes the body of an A2S_INFO reply (after the packet header).
func parseInfo(body []byte) (*entity.QueryResult, error) {
	r := reader{buf: body}
	if r.u8() != typeInfoReply {
		return nil, fmt.Errorf("%w: unexpected reply type", ErrMalformed)
	}
	_ = r.u8() // protocol version
	name := r.cstring()
	mapName := r.cstring()
	_ = r.cstring() // folder
	_ = r.cstring() // game
	_ = r.u16() // steam app id
	players := r.u8()
	maxPlayers := r.u8()
	if r.err != nil {
		return nil, r.err
	}

	return &entity.QueryResult{
		Name:       name,
		Map:        mapName,
		Players:    int(players),
		MaxPlayers: int(maxPlayers),
	}, nil
}

// reader walks a little-endian packet, remembering the first short read.
type reader struct {
	buf []byte
	pos int
	err error
}

func (r *reader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if r.pos+n > len(r.buf) {
		r.err = fmt.Errorf("%w: truncated at offset %d", ErrMalformed, r.pos)
		return false
	}
	return true
}

func (r *reader) u8() byte {
	if !r.need(1) {
		return 0
	}
	b := r.buf[r.pos]
	r.pos++
	return b
}

func (r *reader) u16() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v
}

func (r *reader) i32() int32 {
	if !r.need(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return int32(v)
}

func (r *reader) cstring() string {
	if r.err != nil {
		return ""
	}
	end := bytes.IndexByte(r.buf[r.pos:], 0)
	if end < 0 {
		r.err = fmt.Errorf("%w: unterminated string at offset %d", ErrMalformed, r.pos)
		return ""
	}
	s := string(r.buf[r.pos : r.pos+end])
	r.pos += end + 1
	return s
}

func (r *reader) rest() []byte {
	return r.buf[r.pos:]
}
