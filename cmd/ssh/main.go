package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/google/uuid"

	"github.com/tomz197/risingtide/internal/audio"
	"github.com/tomz197/risingtide/internal/config"
	"github.com/tomz197/risingtide/internal/draw"
	"github.com/tomz197/risingtide/internal/loop"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"

	shutdownGrace = 10 * time.Second
)

// server hands each SSH session its own game.
type server struct {
	logger   *log.Logger
	tuning   config.Tuning
	shutdown chan struct{}
	sessions sync.WaitGroup
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "risingtide-ssh",
	})

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	logger.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath)

	tuning := config.DefaultTuning()
	if path := config.GetEnv("RISINGTIDE_TUNING", ""); path != "" {
		t, err := config.LoadTuning(path)
		if err != nil {
			logger.Fatal("load tuning", "err", err)
		}
		tuning = t
	}
	if tuning.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	// Sound never leaves the server.
	tuning.Music = ""

	srv := &server{
		logger:   logger,
		tuning:   tuning,
		shutdown: make(chan struct{}),
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			srv.gameMiddleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	// Every running game shows a notice and ends on its own after the grace period.
	close(srv.shutdown)
	srv.wait(shutdownGrace + 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// wait blocks until every session has ended or the timeout passes.
func (s *server) wait(timeout time.Duration) {
	ended := make(chan struct{})
	go func() {
		s.sessions.Wait()
		close(ended)
	}()
	select {
	case <-ended:
		s.logger.Info("all games ended")
	case <-time.After(timeout):
		s.logger.Warn("games still running at shutdown")
	}
}

// gameMiddleware handles SSH sessions and runs a game client for each.
func (s *server) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		s.sessions.Add(1)
		defer s.sessions.Done()

		logger := s.logger.With("session", uuid.NewString(), "user", sess.User())
		logger.Info("new game session", "terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		c := loop.NewClient(bufio.NewReader(sess), sess, loop.ClientOptions{
			TermSizeFunc:  sizeTracker.getSize,
			Audio:         audio.Silent{},
			Tuning:        s.tuning,
			Logger:        logger,
			Shutdown:      s.shutdown,
			ShutdownGrace: shutdownGrace,
		})
		if err := c.Run(sess.Context()); err != nil {
			logger.Error("game error", "err", err)
		}

		g := c.Session()
		logger.Info("session ended", "phase", g.Phase)
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
