package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenVerifier_RoundTrip(t *testing.T) {
	v := NewTokenVerifier("secret", "discussion-engine")

	token, err := v.Issue(Identity{UserID: "u1", Role: "admin"}, time.Hour)
	require.NoError(t, err)

	id, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)
	assert.Equal(t, "admin", id.Role)
}

func TestTokenVerifier_Rejects(t *testing.T) {
	v := NewTokenVerifier("secret", "discussion-engine")
	good, err := v.Issue(Identity{UserID: "u1"}, time.Hour)
	require.NoError(t, err)

	other, err := NewTokenVerifier("other-secret", "discussion-engine").Issue(Identity{UserID: "u1"}, time.Hour)
	require.NoError(t, err)

	wrongIssuer, err := NewTokenVerifier("secret", "someone-else").Issue(Identity{UserID: "u1"}, time.Hour)
	require.NoError(t, err)

	expired, err := v.Issue(Identity{UserID: "u1"}, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "empty", token: "", want: ErrMissingToken},
		{name: "garbage", token: "not.a.token", want: ErrInvalidToken},
		{name: "wrong secret", token: other, want: ErrInvalidToken},
		{name: "wrong issuer", token: wrongIssuer, want: ErrInvalidToken},
		{name: "expired", token: expired, want: ErrInvalidToken},
		{name: "tampered", token: good + "x", want: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestIdentityContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{UserID: "u7"})
	id, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u7", id.UserID)

	_, ok = FromContext(WithIdentity(context.Background(), Identity{}))
	assert.False(t, ok)
}

func TestSystemContext(t *testing.T) {
	assert.False(t, IsSystem(context.Background()))
	assert.True(t, IsSystem(AsSystem(context.Background())))
}
