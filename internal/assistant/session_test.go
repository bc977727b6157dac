package assistant

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agrisetu/agrisetu-backend/pkg/errors"
)

type fakeStream struct {
	mu          sync.Mutex
	sent        [][]byte
	sendErr     error
	closed      bool
	closeErr    error
	transcripts chan string
}

func newFakeStream(transcripts ...string) *fakeStream {
	ch := make(chan string, len(transcripts))
	for _, t := range transcripts {
		ch <- t
	}
	return &fakeStream{transcripts: ch}
}

func (f *fakeStream) SendAudio(_ context.Context, chunk []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return fmt.Errorf("stream closed")
	}
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, chunk)
	return nil
}

func (f *fakeStream) Transcripts() <-chan string { return f.transcripts }

func (f *fakeStream) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.transcripts)
	}
	return f.closeErr
}

func (f *fakeStream) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakeDialer struct {
	stream  *fakeStream
	dialErr error
}

func (f *fakeDialer) Dial(context.Context) (Stream, error) {
	if f.dialErr != nil {
		return nil, f.dialErr
	}
	return f.stream, nil
}

// fakeMic serves a fixed payload then blocks until closed, like a real
// capture handle would.
type fakeMic struct {
	mu       sync.Mutex
	data     []byte
	closed   bool
	closeErr error
	unblock  chan struct{}
}

func newFakeMic(data []byte) *fakeMic {
	return &fakeMic{data: data, unblock: make(chan struct{})}
}

func (f *fakeMic) Read(p []byte) (int, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return 0, io.ErrClosedPipe
	}
	if len(f.data) > 0 {
		n := copy(p, f.data)
		f.data = f.data[n:]
		f.mu.Unlock()
		return n, nil
	}
	f.mu.Unlock()
	<-f.unblock
	return 0, io.ErrClosedPipe
}

func (f *fakeMic) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.unblock)
	}
	return f.closeErr
}

func (f *fakeMic) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func TestSessionDeliversTranscriptsAndAudio(t *testing.T) {
	stream := newFakeStream("Hello", "farmer")
	mic := newFakeMic([]byte("pcm-audio"))

	var mu sync.Mutex
	var got []string
	session, err := NewSession(&fakeDialer{stream: stream}, mic, func(text string) {
		mu.Lock()
		got = append(got, text)
		mu.Unlock()
	}, nil)
	require.NoError(t, err)

	require.NoError(t, session.Start(context.Background()))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, session.Stop())
	mu.Lock()
	require.Equal(t, []string{"Hello", "farmer"}, got)
	mu.Unlock()

	stream.mu.Lock()
	require.NotEmpty(t, stream.sent)
	stream.mu.Unlock()
}

func TestSessionStopIsIdempotentAndReleasesEverything(t *testing.T) {
	stream := newFakeStream()
	mic := newFakeMic(nil)

	session, err := NewSession(&fakeDialer{stream: stream}, mic, nil, nil)
	require.NoError(t, err)
	require.NoError(t, session.Start(context.Background()))

	require.NoError(t, session.Stop())
	require.True(t, stream.isClosed())
	require.True(t, mic.isClosed())

	// repeated stops return the same result
	require.NoError(t, session.Stop())
	require.NoError(t, session.Stop())
}

func TestSessionStopCombinesCloseErrors(t *testing.T) {
	stream := newFakeStream()
	stream.closeErr = fmt.Errorf("stream hangup failed")
	mic := newFakeMic(nil)
	mic.closeErr = fmt.Errorf("device busy")

	session, err := NewSession(&fakeDialer{stream: stream}, mic, nil, nil)
	require.NoError(t, err)
	require.NoError(t, session.Start(context.Background()))

	stopErr := session.Stop()
	require.Error(t, stopErr)
	require.Contains(t, stopErr.Error(), "stream hangup failed")
	require.Contains(t, stopErr.Error(), "device busy")

	// the first teardown result is sticky
	require.Equal(t, stopErr, session.Stop())
}

func TestSessionStartTwiceConflicts(t *testing.T) {
	stream := newFakeStream()
	mic := newFakeMic(nil)

	session, err := NewSession(&fakeDialer{stream: stream}, mic, nil, nil)
	require.NoError(t, err)
	require.NoError(t, session.Start(context.Background()))
	t.Cleanup(func() { _ = session.Stop() })

	err = session.Start(context.Background())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestSessionDialFailureReleasesDevice(t *testing.T) {
	mic := newFakeMic(nil)
	session, err := NewSession(&fakeDialer{dialErr: fmt.Errorf("connect refused")}, mic, nil, nil)
	require.NoError(t, err)

	err = session.Start(context.Background())
	require.Error(t, err)
	require.True(t, mic.isClosed())

	// never-started stop stays idempotent
	require.NoError(t, session.Stop())
}

func TestSessionStopBeforeStartReleasesDevice(t *testing.T) {
	mic := newFakeMic(nil)
	session, err := NewSession(&fakeDialer{stream: newFakeStream()}, mic, nil, nil)
	require.NoError(t, err)

	require.NoError(t, session.Stop())
	require.True(t, mic.isClosed())

	err = session.Start(context.Background())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}
