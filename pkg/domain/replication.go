package domain

import (
	"fmt"
	"net/url"
	"time"
)

// Direction is the replication direction
type Direction int

const (
	DirectionPull Direction = iota
	DirectionPush
	DirectionPushAndPull
)

func (d Direction) String() string {
	switch d {
	case DirectionPush:
		return "PUSH"
	case DirectionPushAndPull:
		return "PUSH_AND_PULL"
	default:
		return "PULL"
	}
}

// Pushes reports whether local changes are sent to the target.
func (d Direction) Pushes() bool {
	return d == DirectionPush || d == DirectionPushAndPull
}

// Pulls reports whether remote changes are fetched from the target.
func (d Direction) Pulls() bool {
	return d == DirectionPull || d == DirectionPushAndPull
}

// ParseDirection maps PUSH, PULL and PUSH_AND_PULL to a Direction.
// Unrecognized values return DirectionPull and ok=false.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "PUSH":
		return DirectionPush, true
	case "PULL":
		return DirectionPull, true
	case "PUSH_AND_PULL":
		return DirectionPushAndPull, true
	default:
		return DirectionPull, false
	}
}

// AuthKind identifies the authenticator variant
type AuthKind int

const (
	AuthNone AuthKind = iota
	AuthBasic
	AuthSession
)

// Authenticator holds the credentials presented to the sync endpoint.
type Authenticator struct {
	Kind      AuthKind
	Username  string
	Password  string
	SessionID string
}

// BasicAuthenticator returns a username/password authenticator.
func BasicAuthenticator(username, password string) Authenticator {
	return Authenticator{Kind: AuthBasic, Username: username, Password: password}
}

// SessionAuthenticator returns a session cookie authenticator.
func SessionAuthenticator(sessionID string) Authenticator {
	return Authenticator{Kind: AuthSession, SessionID: sessionID}
}

// String describes the authenticator without leaking secrets.
func (a Authenticator) String() string {
	switch a.Kind {
	case AuthBasic:
		return fmt.Sprintf("BasicAuthenticator{username=%s}", a.Username)
	case AuthSession:
		return "SessionAuthenticator{session=***}"
	default:
		return "NoAuthenticator"
	}
}

// ReplicatorConfig describes one replication between a local database and a
// remote sync endpoint.
type ReplicatorConfig struct {
	Database      Handle
	Target        *url.URL
	Direction     Direction
	Continuous    bool
	Authenticator Authenticator
}

// NewReplicatorConfig returns a config with the default PULL, one-shot,
// unauthenticated settings.
func NewReplicatorConfig(db Handle, target *url.URL) ReplicatorConfig {
	return ReplicatorConfig{
		Database:  db,
		Target:    target,
		Direction: DirectionPull,
	}
}

// Activity is the coarse state of a live replicator
type Activity int

const (
	ActivityStopped Activity = iota
	ActivityBusy
	ActivityIdle
)

func (a Activity) String() string {
	switch a {
	case ActivityBusy:
		return "BUSY"
	case ActivityIdle:
		return "IDLE"
	default:
		return "STOPPED"
	}
}

// ReplicatorStatus is a snapshot of a live replicator's progress.
type ReplicatorStatus struct {
	Activity  Activity
	Pushed    int64
	Pulled    int64
	Passes    int64
	LastPass  time.Time
	LastError error
}
