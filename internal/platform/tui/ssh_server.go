// Package tui provides the terminal platform for the cartridge runtime:
// a Bubble Tea frame loop around the engine, a cartridge picker, and an
// SSH server via Wish so cartridges can be played remotely.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/pixelcart/pixelcart/internal/audio"
	"github.com/pixelcart/pixelcart/internal/cart"
	"github.com/pixelcart/pixelcart/internal/config"
	"github.com/pixelcart/pixelcart/internal/script"
	"github.com/pixelcart/pixelcart/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.pixelcart/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server serving cartridge sessions.
type SSHServer struct {
	config  SSHServerConfig
	runtime config.Config
	server  *ssh.Server
	store   *storage.Store
	carts   []*cart.Cartridge
	logger  *log.Logger
}

// NewSSHServer creates a new SSH server. Cartridges are loaded once at
// startup from the configured directory; the embedded demo is always
// available even with an empty directory.
func NewSSHServer(cfg SSHServerConfig, rt config.Config) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "pixelcart-ssh",
	})

	store, err := storage.Open(rt.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open database", "error", err)
		// Continue without storage
	}

	carts, err := cart.NewLoader(rt.Cartridges.Dir).LoadAll()
	if err != nil {
		logger.Warn("could not scan cartridge directory", "dir", rt.Cartridges.Dir, "error", err)
	}
	if demo, demoErr := cart.Demo(); demoErr == nil {
		carts = append(carts, demo)
	}

	srv := &SSHServer{
		config:  cfg,
		runtime: rt,
		store:   store,
		carts:   carts,
		logger:  logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".pixelcart", "host_key")
	}

	// Ensure host key directory exists
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	model := NewSessionModel(s.carts, s.store, s.runtime, audio.Nop{}, pty.Window.Width, pty.Window.Height)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "cartridges", len(s.carts))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModel manages the full session flow: picker -> play -> picker.
// It is the top-level model for SSH sessions and the local menu. SSH
// sessions run with no-op audio; there is no speaker on the far side of
// the connection.
type SessionModel struct {
	carts    []*cart.Cartridge
	store    *storage.Store
	runtime  config.Config
	audio    script.AudioManager
	width    int
	height   int
	picker   PickerModel
	play     *PlayModel
	inPlay   bool
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(carts []*cart.Cartridge, store *storage.Store, rt config.Config, audioMgr script.AudioManager, width, height int) SessionModel {
	return SessionModel{
		carts:   carts,
		store:   store,
		runtime: rt,
		audio:   audioMgr,
		width:   width,
		height:  height,
		picker:  NewPickerModel(carts, store, width, height),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.picker.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Track window size globally so new play models start correct
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	if m.inPlay && m.play != nil {
		return m.updatePlay(msg)
	}
	return m.updatePicker(msg)
}

// updatePicker handles updates while the picker is showing.
func (m SessionModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	newPicker, cmd := m.picker.Update(msg)
	if picker, ok := newPicker.(PickerModel); ok {
		m.picker = picker
	}

	if m.picker.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if selected := m.picker.Selected(); selected != nil {
		play, err := NewPlayModel(selected, PlayOptions{
			Store:    m.store,
			Config:   m.runtime,
			Audio:    m.audio,
			Seed:     time.Now().UnixNano(),
			SaveSlot: 0, // Sessions share the server-side slot 0 per cartridge
			Width:    m.width,
			Height:   m.height,
		})
		if err != nil {
			// Unplayable cartridge; stay in the picker.
			m.picker = NewPickerModel(m.carts, m.store, m.width, m.height)
			return m, nil
		}

		m.play = &play
		m.inPlay = true
		return m, m.play.Init()
	}

	return m, cmd
}

// updatePlay handles updates while a cartridge is running.
func (m SessionModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.play.Update(msg)
	if play, ok := newModel.(PlayModel); ok {
		m.play = &play
	}

	if m.play.BackToPicker() {
		m.inPlay = false
		m.play = nil
		m.picker = NewPickerModel(m.carts, m.store, m.width, m.height)
		return m, m.picker.Init()
	}

	if m.play.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	if m.inPlay && m.play != nil {
		return m.play.View()
	}

	return m.picker.View()
}
