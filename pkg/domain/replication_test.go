package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
		ok   bool
	}{
		{"PUSH", DirectionPush, true},
		{"PULL", DirectionPull, true},
		{"PUSH_AND_PULL", DirectionPushAndPull, true},
		{"push", DirectionPull, false},
		{"", DirectionPull, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDirection(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestDirection_PushPull(t *testing.T) {
	assert.True(t, DirectionPush.Pushes())
	assert.False(t, DirectionPush.Pulls())
	assert.True(t, DirectionPull.Pulls())
	assert.False(t, DirectionPull.Pushes())
	assert.True(t, DirectionPushAndPull.Pushes())
	assert.True(t, DirectionPushAndPull.Pulls())
	assert.Equal(t, "PUSH_AND_PULL", DirectionPushAndPull.String())
}

func TestAuthenticator_StringHidesSecrets(t *testing.T) {
	basic := BasicAuthenticator("bob", "hunter2")
	assert.Equal(t, "BasicAuthenticator{username=bob}", basic.String())
	assert.NotContains(t, basic.String(), "hunter2")

	session := SessionAuthenticator("abc123")
	assert.NotContains(t, session.String(), "abc123")

	assert.Equal(t, "NoAuthenticator", Authenticator{}.String())
}

func TestNewReplicatorConfig_Defaults(t *testing.T) {
	cfg := NewReplicatorConfig(nil, nil)
	assert.Equal(t, DirectionPull, cfg.Direction)
	assert.False(t, cfg.Continuous)
	assert.Equal(t, AuthNone, cfg.Authenticator.Kind)
}
