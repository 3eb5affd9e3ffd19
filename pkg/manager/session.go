package manager

import (
	"context"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/adfharrison1/go-docsync/pkg/domain"
)

// State is the replicator session lifecycle state
type State int

const (
	StateUnconfigured State = iota
	StateConfigured
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateConfigured:
		return "CONFIGURED"
	case StateRunning:
		return "RUNNING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNCONFIGURED"
	}
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithStrictDirection makes SetType reject unknown directions with
// InvalidDirectionError instead of falling back to PULL.
func WithStrictDirection(strict bool) SessionOption {
	return func(s *Session) {
		s.strictDirection = strict
	}
}

// Session holds the replication config for the current database and drives
// the live replicator through Unconfigured, Configured, Running and Stopped.
type Session struct {
	mu         sync.Mutex
	registry   *Registry
	engine     domain.Engine
	logger     *zap.SugaredLogger
	state      State
	config     domain.ReplicatorConfig
	replicator domain.Replicator
	// lastStatus is the final status of the last stopped replicator
	lastStatus domain.ReplicatorStatus

	strictDirection bool
}

// NewSession creates an unconfigured session
func NewSession(registry *Registry, engine domain.Engine, logger *zap.SugaredLogger, options ...SessionOption) *Session {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Session{
		registry: registry,
		engine:   engine,
		logger:   logger,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Config returns a copy of the current configuration
func (s *Session) Config() domain.ReplicatorConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// Status reports the live replicator's progress, or the final status of the
// last stopped one. The zero status is returned when nothing has run since
// the endpoint was set.
func (s *Session) Status() domain.ReplicatorStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replicator == nil {
		return s.lastStatus
	}
	return s.replicator.Status()
}

// SetEndpoint parses the target URL and binds a fresh configuration to the
// current database. It returns the normalized target.
func (s *Session) SetEndpoint(rawURL string) (string, error) {
	target, err := parseEndpoint(rawURL)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRunning {
		return "", domain.Errorf(domain.KindAlreadyRunning, "setEndpoint", "stop the running replicator before reconfiguring")
	}

	handle, err := s.registry.Current()
	if err != nil {
		return "", err
	}

	s.config = domain.NewReplicatorConfig(handle, target)
	s.replicator = nil
	s.lastStatus = domain.ReplicatorStatus{}
	s.state = StateConfigured
	s.logger.Infow("Replicator endpoint set", "database", handle.Name(), "target", target.String())
	return target.String(), nil
}

// SetType sets the replication direction. Unknown values fall back to PULL
// unless the session is strict.
func (s *Session) SetType(direction string) (domain.Direction, error) {
	parsed, ok := domain.ParseDirection(direction)
	if !ok && s.strictDirection {
		return domain.DirectionPull, domain.Errorf(domain.KindInvalidDirection, "setType", "unknown replicator type %q", direction)
	}

	err := s.mutate("setType", func(cfg *domain.ReplicatorConfig) {
		cfg.Direction = parsed
	})
	if err != nil {
		return domain.DirectionPull, err
	}
	if !ok {
		s.logger.Warnw("Unknown replicator type, defaulting to PULL", "type", direction)
	}
	return parsed, nil
}

// SetBasicAuth sets a username/password authenticator and returns its
// description.
func (s *Session) SetBasicAuth(username, password string) (string, error) {
	auth := domain.BasicAuthenticator(username, password)
	if err := s.mutate("setBasicAuth", func(cfg *domain.ReplicatorConfig) {
		cfg.Authenticator = auth
	}); err != nil {
		return "", err
	}
	return auth.String(), nil
}

// SetSessionAuth sets a session authenticator and returns its description.
func (s *Session) SetSessionAuth(sessionID string) (string, error) {
	if sessionID == "" {
		return "", domain.Errorf(domain.KindMissingSessionID, "setSessionAuth", "session id is required")
	}
	auth := domain.SessionAuthenticator(sessionID)
	if err := s.mutate("setSessionAuth", func(cfg *domain.ReplicatorConfig) {
		cfg.Authenticator = auth
	}); err != nil {
		return "", err
	}
	return auth.String(), nil
}

// SetContinuous sets whether the replicator keeps running after a pass.
func (s *Session) SetContinuous(continuous bool) (bool, error) {
	if err := s.mutate("setContinuous", func(cfg *domain.ReplicatorConfig) {
		cfg.Continuous = continuous
	}); err != nil {
		return false, err
	}
	return continuous, nil
}

// Start creates a live replicator from the current configuration and starts
// it. Starting a running session fails with AlreadyRunningError.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateUnconfigured:
		return domain.Errorf(domain.KindReplicatorNotConfigured, "start", "replicator endpoint has not been set")
	case StateRunning:
		return domain.Errorf(domain.KindAlreadyRunning, "start", "replicator is already running")
	}
	if err := ctx.Err(); err != nil {
		return domain.NewError(domain.KindReplication, "start", "start cancelled", err)
	}

	replicator, err := s.engine.CreateReplicator(s.config)
	if err != nil {
		return domain.NewError(domain.KindReplication, "start", "failed to create replicator", err)
	}
	if err := replicator.Start(ctx); err != nil {
		return domain.NewError(domain.KindReplication, "start", "failed to start replicator", err)
	}

	s.replicator = replicator
	s.state = StateRunning
	s.logger.Infow("Replicator started",
		"database", s.config.Database.Name(),
		"target", s.config.Target.String(),
		"direction", s.config.Direction.String(),
		"continuous", s.config.Continuous)
	return nil
}

// StartAsync runs Start off the caller's goroutine and delivers its result
// on the returned channel.
func (s *Session) StartAsync(ctx context.Context) <-chan error {
	result := make(chan error, 1)
	go func() {
		result <- s.Start(ctx)
	}()
	return result
}

// Stop halts the live replicator and releases it, keeping its final status.
// It is a no-op unless the session is running.
func (s *Session) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return nil
	}
	if err := s.replicator.Stop(ctx); err != nil {
		return domain.NewError(domain.KindReplication, "stop", "failed to stop replicator", err)
	}

	s.lastStatus = s.replicator.Status()
	s.replicator = nil
	s.state = StateStopped
	s.logger.Infow("Replicator stopped", "database", s.config.Database.Name())
	return nil
}

// mutate applies fn to the configuration when the session is configured and
// not running.
func (s *Session) mutate(op string, fn func(cfg *domain.ReplicatorConfig)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateUnconfigured:
		return domain.Errorf(domain.KindReplicatorNotConfigured, op, "replicator endpoint has not been set")
	case StateRunning:
		return domain.Errorf(domain.KindAlreadyRunning, op, "stop the running replicator before reconfiguring")
	}
	fn(&s.config)
	return nil
}

func parseEndpoint(rawURL string) (*url.URL, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, domain.NewError(domain.KindInvalidEndpoint, "setEndpoint", "malformed endpoint URL", err)
	}
	switch target.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return nil, domain.Errorf(domain.KindInvalidEndpoint, "setEndpoint", "unsupported endpoint scheme %q", target.Scheme)
	}
	if target.Host == "" {
		return nil, domain.Errorf(domain.KindInvalidEndpoint, "setEndpoint", "endpoint %q has no host", rawURL)
	}
	return target, nil
}
