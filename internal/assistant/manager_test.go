package assistant

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agrisetu/agrisetu-backend/pkg/errors"
)

// multiDialer serves a fresh stream per Dial so a manager can run several
// sessions at once.
type multiDialer struct {
	streams []*fakeStream
	next    int
}

func (m *multiDialer) Dial(context.Context) (Stream, error) {
	if m.next >= len(m.streams) {
		return nil, fmt.Errorf("no more streams")
	}
	s := m.streams[m.next]
	m.next++
	return s, nil
}

func TestManagerCloseStopsEverySession(t *testing.T) {
	streams := []*fakeStream{newFakeStream(), newFakeStream()}
	mics := []*fakeMic{newFakeMic(nil), newFakeMic(nil)}

	mgr, err := NewManager(&multiDialer{streams: streams}, nil)
	require.NoError(t, err)

	for _, mic := range mics {
		_, err := mgr.Open(context.Background(), mic, nil)
		require.NoError(t, err)
	}
	require.Equal(t, 2, mgr.ActiveSessions())

	require.NoError(t, mgr.Close())
	for i := range streams {
		require.True(t, streams[i].isClosed(), "stream %d", i)
		require.True(t, mics[i].isClosed(), "mic %d", i)
	}
}

func TestManagerUntracksStoppedSessions(t *testing.T) {
	stream := newFakeStream()
	mic := newFakeMic(nil)

	mgr, err := NewManager(&multiDialer{streams: []*fakeStream{stream}}, nil)
	require.NoError(t, err)

	session, err := mgr.Open(context.Background(), mic, nil)
	require.NoError(t, err)
	require.Equal(t, 1, mgr.ActiveSessions())

	require.NoError(t, session.Stop())
	require.Eventually(t, func() bool {
		return mgr.ActiveSessions() == 0
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, mgr.Close())
}

func TestManagerRejectsOpenAfterClose(t *testing.T) {
	mgr, err := NewManager(&multiDialer{streams: []*fakeStream{newFakeStream()}}, nil)
	require.NoError(t, err)
	require.NoError(t, mgr.Close())

	_, err = mgr.Open(context.Background(), newFakeMic(nil), nil)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	// repeated close stays clean
	require.NoError(t, mgr.Close())
}

func TestManagerCloseCombinesStopErrors(t *testing.T) {
	s1 := newFakeStream()
	s1.closeErr = fmt.Errorf("hangup one")
	s2 := newFakeStream()
	s2.closeErr = fmt.Errorf("hangup two")

	mgr, err := NewManager(&multiDialer{streams: []*fakeStream{s1, s2}}, nil)
	require.NoError(t, err)

	_, err = mgr.Open(context.Background(), newFakeMic(nil), nil)
	require.NoError(t, err)
	_, err = mgr.Open(context.Background(), newFakeMic(nil), nil)
	require.NoError(t, err)

	closeErr := mgr.Close()
	require.Error(t, closeErr)
	require.Contains(t, closeErr.Error(), "hangup one")
	require.Contains(t, closeErr.Error(), "hangup two")
}
