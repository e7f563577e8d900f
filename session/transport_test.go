package session

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeConn wraps a bytes.Reader to satisfy net.Conn for feeding fixed
// byte sequences into a TCPTransport, grounded on the teacher's
// server/transport_test.go fakeConn.
type fakeConn struct {
	*bytes.Reader
	written bytes.Buffer
}

func (f *fakeConn) Write(b []byte) (int, error)       { return f.written.Write(b) }
func (f *fakeConn) Close() error                      { return nil }
func (f *fakeConn) LocalAddr() net.Addr                { return nil }
func (f *fakeConn) RemoteAddr() net.Addr               { return &net.TCPAddr{} }
func (f *fakeConn) SetDeadline(time.Time) error        { return nil }
func (f *fakeConn) SetReadDeadline(time.Time) error    { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error   { return nil }

func newTestTransport(data []byte) (*TCPTransport, *fakeConn) {
	conn := &fakeConn{Reader: bytes.NewReader(data)}
	return NewTCPTransport(conn), conn
}

func TestReadLineCRLF(t *testing.T) {
	tr, _ := newTestTransport([]byte("look\r\n"))
	line, err := tr.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "look", line)
}

func TestReadLineBareLF(t *testing.T) {
	tr, _ := newTestTransport([]byte("look\n"))
	line, err := tr.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "look", line)
}

func TestReadLineBareCR(t *testing.T) {
	tr, _ := newTestTransport([]byte("look\r"))
	line, err := tr.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "look", line)
}

func TestReadLineStripsTelnetNegotiation(t *testing.T) {
	// IAC WILL ECHO (255 251 1) followed by real text.
	data := []byte{tnIAC, tnWILL, 1, 'h', 'i', '\r', '\n'}
	tr, _ := newTestTransport(data)
	line, err := tr.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "hi", line)
}

func TestReadLineStripsSubnegotiation(t *testing.T) {
	// IAC SB <garbage> IAC SE then real text.
	data := []byte{tnIAC, tnSB, 1, 2, 3, tnIAC, tnSE, 'o', 'k', '\r', '\n'}
	tr, _ := newTestTransport(data)
	line, err := tr.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "ok", line)
}

func TestReadLineTwoLinesInSequence(t *testing.T) {
	tr, _ := newTestTransport([]byte("first\r\nsecond\r\n"))
	line, err := tr.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "first", line)

	line, err = tr.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "second", line)
}

func TestReadLinePartialLineAtEOF(t *testing.T) {
	tr, _ := newTestTransport([]byte("no newline"))
	line, err := tr.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "no newline", line)
}

func TestWriteLineAppendsCRLF(t *testing.T) {
	tr, conn := newTestTransport(nil)
	require.NoError(t, tr.WriteLine("you see a room."))
	require.Equal(t, "you see a room.\r\n", conn.written.String())
}

func TestListenServesTCPConnections(t *testing.T) {
	ln, err := Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan Transport, 1)
	go ln.Serve(func(tr Transport) { accepted <- tr })

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("hello\r\n"))
	require.NoError(t, err)

	tr := <-accepted
	line, err := tr.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "hello", line)
}
