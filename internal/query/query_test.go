package query

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// a2sTestServer answers A2S_INFO requests on a loopback UDP socket.
type a2sTestServer struct {
	conn      *net.UDPConn
	challenge []byte
	reply     []byte
}

func newA2STestServer(t *testing.T, challenge, reply []byte) *a2sTestServer {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	s := &a2sTestServer{conn: conn, challenge: challenge, reply: reply}
	t.Cleanup(func() { _ = conn.Close() })
	go s.serve()
	return s
}

func (s *a2sTestServer) addrPort() (netip.Addr, int) {
	ap := s.conn.LocalAddr().(*net.UDPAddr).AddrPort()
	return ap.Addr(), int(ap.Port())
}

func (s *a2sTestServer) serve() {
	buf := make([]byte, maxPacketSize)
	for {
		n, from, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		req := buf[:n]
		if !bytes.HasPrefix(req, infoRequest(nil)) {
			continue
		}
		if s.challenge != nil && !bytes.HasSuffix(req, s.challenge) {
			packet := append([]byte{0xFF, 0xFF, 0xFF, 0xFF, typeChallenge}, s.challenge...)
			_, _ = s.conn.WriteToUDP(packet, from)
			continue
		}
		_, _ = s.conn.WriteToUDP(s.reply, from)
	}
}

func infoReply(name, mapName string, players, maxPlayers byte) []byte {
	var b bytes.Buffer
	b.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF, typeInfoReply, 17})
	for _, s := range []string{name, mapName, "ConanSandbox", "Conan Exiles"} {
		b.WriteString(s)
		b.WriteByte(0)
	}
	b.Write([]byte{0x3c, 0x5b}) // app id
	b.WriteByte(players)
	b.WriteByte(maxPlayers)
	b.Write([]byte{0, 'd', 'l', 0, 1})
	return b.Bytes()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestQuery(t *testing.T) {
	srv := newA2STestServer(t, nil, infoReply("Dad's Exiles", "ConanSandbox", 3, 10))
	addr, port := srv.addrPort()

	c := New(2*time.Second, testLogger())
	res, err := c.Query(context.Background(), addr, port)
	require.NoError(t, err)
	require.Equal(t, "Dad's Exiles", res.Name)
	require.Equal(t, "ConanSandbox", res.Map)
	require.Equal(t, 3, res.Players)
	require.Equal(t, 10, res.MaxPlayers)
}

func TestQueryWithChallenge(t *testing.T) {
	srv := newA2STestServer(t, []byte{1, 2, 3, 4}, infoReply("Siptah", "DLC_Isle_of_Siptah", 0, 40))
	addr, port := srv.addrPort()

	c := New(2*time.Second, testLogger())
	res, err := c.Query(context.Background(), addr, port)
	require.NoError(t, err)
	require.Equal(t, "Siptah", res.Name)
	require.Equal(t, 40, res.MaxPlayers)
}

func TestQueryTimeout(t *testing.T) {
	// A bound socket that never answers.
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	ap := conn.LocalAddr().(*net.UDPAddr).AddrPort()

	c := New(100*time.Millisecond, testLogger())
	_, err = c.Query(context.Background(), ap.Addr(), int(ap.Port()))
	require.Error(t, err)
}

func TestQueryMalformedReply(t *testing.T) {
	srv := newA2STestServer(t, nil, []byte{0xFF, 0xFF, 0xFF, 0xFF, typeInfoReply, 17, 'n', 'o'})
	addr, port := srv.addrPort()

	c := New(2*time.Second, testLogger())
	_, err := c.Query(context.Background(), addr, port)
	require.True(t, errors.Is(err, ErrMalformed))
}

func TestQueryRejectsBadPort(t *testing.T) {
	c := New(time.Second, testLogger())
	_, err := c.Query(context.Background(), netip.MustParseAddr("127.0.0.1"), 0)
	require.Error(t, err)
}

func TestParseInfoWrongType(t *testing.T) {
	_, err := parseInfo([]byte{typeChallenge, 1, 2, 3, 4})
	require.ErrorIs(t, err, ErrMalformed)
}
