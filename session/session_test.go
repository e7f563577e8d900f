package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	lines  []string
	closed bool
	fail   bool
}

func (f *fakeTransport) ReadLine() (string, error) { return "", errors.New("not used in these tests") }

func (f *fakeTransport) WriteLine(s string) error {
	if f.fail {
		return errors.New("write failed")
	}
	f.lines = append(f.lines, s)
	return nil
}

func (f *fakeTransport) Close() error        { f.closed = true; return nil }
func (f *fakeTransport) RemoteAddr() string  { return "fake" }

func TestBindAndIsOnline(t *testing.T) {
	table := New()
	require.False(t, table.IsOnline("player-1"))

	table.Bind("player-1", &fakeTransport{})
	require.True(t, table.IsOnline("player-1"))
}

func TestUnbindRemovesBinding(t *testing.T) {
	table := New()
	table.Bind("player-1", &fakeTransport{})
	table.Unbind("player-1")
	require.False(t, table.IsOnline("player-1"))
}

func TestNotifyWritesToBoundTransport(t *testing.T) {
	table := New()
	tr := &fakeTransport{}
	table.Bind("player-1", tr)

	require.NoError(t, table.Notify("player-1", "a message arrives"))
	require.Equal(t, []string{"a message arrives"}, tr.lines)
}

func TestNotifyOfflineIsNoOp(t *testing.T) {
	table := New()
	require.NoError(t, table.Notify("nobody", "hello?"))
}

func TestNotifyPropagatesWriteError(t *testing.T) {
	table := New()
	table.Bind("player-1", &fakeTransport{fail: true})
	require.Error(t, table.Notify("player-1", "hi"))
}

func TestOnlineObjectIDsReflectsBindings(t *testing.T) {
	table := New()
	table.Bind("player-1", &fakeTransport{})
	table.Bind("player-2", &fakeTransport{})
	table.Unbind("player-1")

	require.Equal(t, []string{"player-2"}, table.OnlineObjectIDs())
}
