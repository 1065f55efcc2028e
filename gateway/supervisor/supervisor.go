package supervisor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const DefaultDrainTimeout = 10 * time.Second

// ErrForcedShutdown is returned by Run when in-flight requests outlive the drain timeout.
var ErrForcedShutdown = errors.New("supervisor: drain timed out, connections force-closed")

type State int32

const (
	Running State = iota
	Draining
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

type Option func(*Supervisor)

func WithDrainTimeout(d time.Duration) Option {
	return func(s *Supervisor) {
		if d > 0 {
			s.drainTimeout = d
		}
	}
}

// WithSignals replaces the default SIGINT/SIGTERM set. No signals disables signal handling.
func WithSignals(sig ...os.Signal) Option {
	return func(s *Supervisor) {
		s.signals = sig
	}
}

// WithListener serves on ln instead of listening on the server's Addr.
func WithListener(ln net.Listener) Option {
	return func(s *Supervisor) {
		s.listener = ln
	}
}

// Supervisor runs an HTTP server until a signal, context cancellation or
// reported fault, then drains it within a bounded timeout.
type Supervisor struct {
	srv          *http.Server
	listener     net.Listener
	drainTimeout time.Duration
	signals      []os.Signal

	faults chan error
	state  atomic.Int32
}

func New(srv *http.Server, opts ...Option) *Supervisor {
	s := &Supervisor{
		srv:          srv,
		drainTimeout: DefaultDrainTimeout,
		signals:      []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		faults:       make(chan error, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Supervisor) State() State {
	return State(s.state.Load())
}

// Fault requests a drain. It never blocks; only the first fault is kept.
func (s *Supervisor) Fault(err error) {
	select {
	case s.faults <- err:
	default:
	}
}

// Run serves until a drain trigger fires and the server has shut down.
// A graceful drain returns nil; an expired drain returns ErrForcedShutdown.
func (s *Supervisor) Run(ctx context.Context) error {
	if len(s.signals) > 0 {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, s.signals...)
		defer stop()
	}

	ln := s.listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", s.srv.Addr)
		if err != nil {
			s.state.Store(int32(Terminated))
			return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
		}
	}

	s.state.Store(int32(Running))
	log.Info().Str("addr", ln.Addr().String()).Msg("server listening")

	served := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(served)
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
			log.Info().Msg("drain requested")
		case err := <-s.faults:
			log.Error().Err(err).Msg("unhandled fault, draining")
		case <-served:
		}
		return s.drain()
	})

	err := g.Wait()
	s.state.Store(int32(Terminated))
	log.Info().Err(err).Msg("server terminated")
	return err
}

func (s *Supervisor) drain() error {
	s.state.Store(int32(Draining))

	ctx, cancel := context.WithTimeout(context.Background(), s.drainTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			_ = s.srv.Close()
			return ErrForcedShutdown
		}
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
