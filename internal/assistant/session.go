package assistant

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/multierr"

	pkgerrors "github.com/agrisetu/agrisetu-backend/pkg/errors"
	"github.com/agrisetu/agrisetu-backend/pkg/logger"
)

// Stream is a live bidirectional connection to the assistant provider.
// SendAudio pushes one captured chunk upstream, Transcripts delivers the
// provider's text back as it arrives.
type Stream interface {
	SendAudio(ctx context.Context, chunk []byte) error
	Transcripts() <-chan string
	Close() error
}

// Dialer opens a live stream for one session.
type Dialer interface {
	Dial(ctx context.Context) (Stream, error)
}

// AudioSource is the capture side of the session, typically a microphone
// handle. Read follows the io.Reader contract; Close releases the device.
type AudioSource interface {
	io.ReadCloser
}

// TranscriptFunc receives each transcript fragment in arrival order.
type TranscriptFunc func(text string)

const audioChunkSize = 4096

// Session is one live voice-assistant conversation. Start begins pumping
// audio upstream and transcripts back out; Stop tears everything down.
// Stop is safe to call any number of times and always releases both the
// stream and the audio device, whichever of them was opened.
type Session struct {
	dialer Dialer
	source AudioSource
	onText TranscriptFunc
	logg   *logger.Logger

	mu      sync.Mutex
	started bool
	stopped bool
	stream  Stream
	cancel  context.CancelFunc
	done    chan struct{}

	stopOnce sync.Once
	stopErr  error
}

// NewSession wires a live session over the given dialer and audio source.
func NewSession(dialer Dialer, source AudioSource, onText TranscriptFunc, logg *logger.Logger) (*Session, error) {
	if dialer == nil {
		return nil, fmt.Errorf("stream dialer is required")
	}
	if source == nil {
		return nil, fmt.Errorf("audio source is required")
	}
	return &Session{dialer: dialer, source: source, onText: onText, logg: logg}, nil
}

// Start opens the live stream and launches the pump goroutines. Calling
// Start on a running or stopped session is a state conflict.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "session already started")
	}

	stream, err := s.dialer.Dial(ctx)
	if err != nil {
		// the device is still ours to release
		closeErr := s.source.Close()
		return multierr.Append(
			pkgerrors.Wrap(pkgerrors.CodeTransient, err, "open live stream"),
			closeErr,
		)
	}

	pumpCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.started = true
	s.stream = stream
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.pump(pumpCtx)
	return nil
}

// pump moves captured audio upstream and transcripts out until either side
// fails or the session is stopped. Any failure tears the session down.
func (s *Session) pump(ctx context.Context) {
	defer close(s.done)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		buf := make([]byte, audioChunkSize)
		for {
			n, err := s.source.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				if sendErr := s.stream.SendAudio(ctx, chunk); sendErr != nil {
					if ctx.Err() == nil {
						s.failAsync(ctx, sendErr)
					}
					return
				}
			}
			if err != nil {
				// a read error during teardown is expected, not a failure
				if err != io.EOF && ctx.Err() == nil {
					s.failAsync(ctx, err)
				}
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
		}
	}()

	go func() {
		defer wg.Done()
		for {
			select {
			case text, ok := <-s.stream.Transcripts():
				if !ok {
					return
				}
				if s.onText != nil {
					s.onText(text)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
}

// failAsync tears the session down from inside a pump goroutine.
func (s *Session) failAsync(ctx context.Context, err error) {
	if s.logg != nil {
		s.logg.Error(ctx, "live session failed, stopping", err)
	}
	go func() { _ = s.Stop() }()
}

// Done is closed once the pump goroutines have exited. It is nil until
// Start succeeds.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Stop cancels the pumps and releases the stream and the audio device.
// Repeated calls return the result of the first teardown.
func (s *Session) Stop() error {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		started := s.started
		stream := s.stream
		cancel := s.cancel
		done := s.done
		s.mu.Unlock()

		if !started {
			// never started; only the device needs releasing
			s.stopErr = s.source.Close()
			return
		}

		cancel()
		// closing both ends first unblocks a pump stuck in a device read
		var closeErr error
		if stream != nil {
			closeErr = multierr.Append(closeErr, stream.Close())
		}
		closeErr = multierr.Append(closeErr, s.source.Close())
		<-done
		s.stopErr = closeErr
	})
	return s.stopErr
}
