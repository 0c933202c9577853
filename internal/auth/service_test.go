package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/stockroom/internal/auth"
	"github.com/MrJamesThe3rd/stockroom/internal/auth/store"
)

func seededService(t *testing.T) *auth.Service {
	t.Helper()

	s, err := store.NewSeeded()
	require.NoError(t, err)

	return auth.NewService(s)
}

func TestService_Login(t *testing.T) {
	svc := seededService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		wantRole auth.Role
		wantErr  error
	}{
		{name: "Admin", username: "admin", password: "admin123", wantRole: auth.RoleAdmin},
		{name: "Employee", username: "empleado", password: "emp123", wantRole: auth.RoleEmployee},
		{name: "WrongPassword", username: "admin", password: "admin124", wantErr: auth.ErrInvalidCredentials},
		{name: "UnknownUser", username: "nobody", password: "whatever", wantErr: auth.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := svc.Login(ctx, tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, u)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.username, u.Username)
			assert.Equal(t, tt.wantRole, u.Role)
		})
	}
}

func TestService_Register(t *testing.T) {
	svc := seededService(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		username    string
		password    string
		role        auth.Role
		wantSuccess bool
		wantMessage string
	}{
		{name: "TakenWinsOverShortPassword", username: "admin", password: "x", role: auth.RoleAdmin, wantMessage: "username already in use"},
		{name: "ShortUsername", username: "ab", password: "secret1", role: auth.RoleEmployee, wantMessage: "username must be at least 3 characters"},
		{name: "ShortUsernameBeatsShortPassword", username: "ab", password: "x", role: auth.RoleEmployee, wantMessage: "username must be at least 3 characters"},
		{name: "ShortPassword", username: "maria", password: "12345", role: auth.RoleEmployee, wantMessage: "password must be at least 6 characters"},
		{name: "PasswordTooLong", username: "maria", password: strings.Repeat("x", 73), role: auth.RoleEmployee, wantMessage: "password must be at most 72 bytes"},
		{name: "InvalidRole", username: "maria", password: "123456", role: "owner", wantMessage: "invalid role"},
		{name: "Created", username: "maria", password: "123456", role: auth.RoleEmployee, wantSuccess: true, wantMessage: "account created"},
		{name: "PasswordAtBcryptLimit", username: "lucas", password: strings.Repeat("x", 72), role: auth.RoleEmployee, wantSuccess: true, wantMessage: "account created"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Register(ctx, tt.username, tt.password, tt.role)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, res.Success)
			assert.Equal(t, tt.wantMessage, res.Message)
		})
	}

	u, err := svc.Login(ctx, "maria", "123456")
	require.NoError(t, err)
	assert.Equal(t, "3", u.ID)

	res, err := svc.Register(ctx, "maria", "123456", auth.RoleEmployee)
	require.NoError(t, err)
	assert.False(t, res.Success)

	_, err = svc.Login(ctx, "lucas", strings.Repeat("x", 72))
	require.NoError(t, err)
}

func TestService_Register_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := auth.NewMockRepository(ctrl)
	repo.EXPECT().FindByUsername(gomock.Any(), "maria").Return(nil, errors.New("connection reset"))

	_, err := auth.NewService(repo).Register(context.Background(), "maria", "123456", auth.RoleAdmin)
	assert.Error(t, err)
}

func TestService_Register_LostRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := auth.NewMockRepository(ctrl)
	repo.EXPECT().FindByUsername(gomock.Any(), "maria").Return(nil, auth.ErrUserNotFound)
	repo.EXPECT().
		CreateAccount(gomock.Any(), "maria", gomock.Any(), auth.RoleAdmin).
		Return(nil, auth.ErrUsernameTaken)

	res, err := auth.NewService(repo).Register(context.Background(), "maria", "123456", auth.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "username already in use", res.Message)
}

func TestService_SignInFederated_WithRole(t *testing.T) {
	svc := seededService(t)
	ctx := context.Background()

	u, pending, err := svc.SignInFederated(ctx, auth.Identity{Subject: "g-1", Email: "ana@example.com", Role: auth.RoleAdmin})
	require.NoError(t, err)
	assert.Nil(t, pending)
	require.NotNil(t, u)
	assert.Equal(t, "ana", u.Username)
	assert.True(t, u.Federated)

	assert.Equal(t, "federated:g-1", u.ID)

	found, err := svc.User(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, found.Role)
}

func TestService_SignInFederated_SubjectMatchingLocalID(t *testing.T) {
	svc := seededService(t)
	ctx := context.Background()

	u, _, err := svc.SignInFederated(ctx, auth.Identity{Subject: "1", Name: "Intruso", Role: auth.RoleEmployee})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.NotEqual(t, "1", u.ID)

	admin, err := svc.User(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)
	assert.Equal(t, auth.RoleAdmin, admin.Role)
	assert.False(t, admin.Federated)

	federated, err := svc.User(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Intruso", federated.Username)
	assert.Equal(t, auth.RoleEmployee, federated.Role)
}

func TestService_SignInFederated_NeedsRole(t *testing.T) {
	svc := seededService(t)
	ctx := context.Background()

	u, pending, err := svc.SignInFederated(ctx, auth.Identity{Subject: "g-2", Name: "Luis Pérez"})
	require.NoError(t, err)
	assert.Nil(t, u)
	require.NotNil(t, pending)

	_, err = svc.User(ctx, auth.FederatedIDPrefix+"g-2")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)

	_, err = svc.AssignRole(ctx, pending.ID, "owner")
	assert.ErrorIs(t, err, auth.ErrInvalidRole)

	u, err = svc.AssignRole(ctx, pending.ID, auth.RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, "Luis Pérez", u.Username)
	assert.Equal(t, auth.RoleEmployee, u.Role)
	assert.Equal(t, "federated:g-2", u.ID)

	_, err = svc.AssignRole(ctx, pending.ID, auth.RoleEmployee)
	assert.ErrorIs(t, err, auth.ErrPendingNotFound)
}

func TestIdentity_DisplayName(t *testing.T) {
	assert.Equal(t, "Ana", auth.Identity{Name: "Ana", Email: "x@y.z"}.DisplayName())
	assert.Equal(t, "x", auth.Identity{Email: "x@y.z"}.DisplayName())
	assert.Equal(t, "user", auth.Identity{}.DisplayName())
	assert.Equal(t, "user", auth.Identity{Email: "@y.z"}.DisplayName())
}

func TestTokens_RoundTrip(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)

	signed, expires, err := tokens.Issue(auth.User{ID: "1", Username: "admin", Role: auth.RoleAdmin})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.UserID())
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestTokens_Rejects(t *testing.T) {
	user := auth.User{ID: "1", Username: "admin", Role: auth.RoleAdmin}

	expired, _, err := auth.NewTokens("secret", -time.Minute).Issue(user)
	require.NoError(t, err)

	foreign, _, err := auth.NewTokens("other-secret", time.Hour).Issue(user)
	require.NoError(t, err)

	tokens := auth.NewTokens("secret", time.Hour)

	for name, tok := range map[string]string{"Expired": expired, "WrongKey": foreign, "Garbage": "not-a-token"} {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Parse(tok)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestClaimsContext(t *testing.T) {
	_, ok := auth.ClaimsFrom(context.Background())
	assert.False(t, ok)

	ctx := auth.WithClaims(context.Background(), &auth.Claims{Username: "admin"})
	c, ok := auth.ClaimsFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "admin", c.Username)
}
