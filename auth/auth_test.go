package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/AlexandreSaynov/tp1ADC/errors"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "MonMotDePasseTr0pSûr!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("WrongPassword", hash)
	req.NoError(err)
	req.False(match)

	_, err = ComparePassword(password, "not-a-hash")
	req.Error(err)
}

func TestRegistrationValidation(t *testing.T) {
	const password = "ComplexPass123!"
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{"Valid request", RegisterRequest{"alice_01", "alice@example.com", password, "user"}, false},
		{"Username too short", RegisterRequest{"al", "alice@example.com", password, "user"}, true},
		{"Username with spaces", RegisterRequest{"ali ce", "alice@example.com", password, "user"}, true},
		{"Username too long", RegisterRequest{strings.Repeat("a", 33), "alice@example.com", password, "user"}, true},
		{"Invalid email", RegisterRequest{"alice", "notanemail", password, "user"}, true},
		{"Missing role", RegisterRequest{"alice", "alice@example.com", password, ""}, true},
		{"Password too short", RegisterRequest{"alice", "alice@example.com", "Short1!", "user"}, true},
		{"Missing digit", RegisterRequest{"alice", "alice@example.com", "NoDigitPass!", "user"}, true},
		{"Missing special char", RegisterRequest{"alice", "alice@example.com", "NoSpecialChar123", "user"}, true},
		{"Missing uppercase", RegisterRequest{"alice", "alice@example.com", "nouppercase123!", "user"}, true},
		{"Password too long", RegisterRequest{"alice", "alice@example.com", strings.Repeat("a", 73), "user"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegister(tt.req)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestTokenIssuer(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("id-1", "alice", "user")
	req.NoError(err)

	claims, err := issuer.Validate(token)
	req.NoError(err)
	req.Equal("id-1", claims.UserID)
	req.Equal("alice", claims.Username)
	req.Equal("user", claims.Role)

	// Another secret rejects the token
	_, err = NewTokenIssuer("other-secret", time.Hour).Validate(token)
	req.ErrorIs(err, errors.ErrSessionExpired)
}

func TestTokenIssuer_Expired(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer("test-secret", time.Minute)

	// Given a token issued two minutes ago
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }
	token, err := issuer.Issue("id-1", "alice", "user")
	req.NoError(err)

	// When it is checked now
	issuer.now = time.Now
	_, err = issuer.Validate(token)

	// Then the session is over
	req.ErrorIs(err, errors.ErrSessionExpired)
}

func TestPermissions(t *testing.T) {
	req := require.New(t)
	perms := NewPermissions(map[string][]string{
		"user":  {"view_chats", "create_chat"},
		"admin": {"view_chats", "view_users", "view_status"},
	})

	req.True(perms.Allows("user", CreateChat))
	req.False(perms.Allows("user", ViewUsers))
	req.True(perms.Allows("admin", ViewStatus))
	req.False(perms.Allows("guest", ViewChats))
	req.True(perms.Allows(RootRole, ReloadLayout))
	req.True(perms.Allows("guest", ""))

	req.Equal([]string{"admin", "root", "user"}, perms.Roles())
	req.True(perms.HasRole("user"))
	req.True(perms.HasRole(RootRole))
	req.False(perms.HasRole("guest"))
	req.True(IsKnownCapability(SearchMessages))
	req.False(IsKnownCapability("fly"))
}
