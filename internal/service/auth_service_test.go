package service_test

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thando/renthub/internal/domain"
	"github.com/thando/renthub/internal/repository/postgres"
	"github.com/thando/renthub/internal/service"
	"github.com/thando/renthub/internal/testutil"
	"go.uber.org/zap"
)

func newAuthService(t *testing.T) (*service.AuthService, *testutil.TestDB, *testutil.RecordingMailer) {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	mailer := testutil.NewRecordingMailer()
	svc := service.NewAuthService(repos.User, repos.Session, repos.Profile, repos.PasswordReset, mailer, cfg, zap.NewNop())
	return svc, testDB, mailer
}

func TestAuthService_Register(t *testing.T) {
	authService, testDB, _ := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   service.RegisterInput
		setup   func()
		wantErr error
	}{
		{
			name: "successful registration",
			input: service.RegisterInput{
				Email:    "newuser@example.com",
				Password: "password123",
				Name:     "New User",
			},
		},
		{
			name: "duplicate email",
			input: service.RegisterInput{
				Email:    "existing@example.com",
				Password: "password123",
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithEmail("existing@example.com").
					Build(t, testDB.DB)
			},
			wantErr: service.ErrEmailExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			result, err := authService.Register(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.input.Email, result.User.Email)
			assert.NotEmpty(t, result.AccessToken)
			assert.NotEmpty(t, result.RefreshToken)

			// The profile projection starts as USER
			require.NotNil(t, result.Profile)
			assert.Equal(t, domain.RoleUser, result.Profile.Role)
			assert.Equal(t, tt.input.Name, result.Profile.Name)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	authService, testDB, _ := newAuthService(t)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().
		WithEmail("login@example.com").
		WithPassword("correctpassword").
		Build(t, testDB.DB)

	tests := []struct {
		name    string
		input   service.LoginInput
		wantErr error
	}{
		{
			name:  "successful login",
			input: service.LoginInput{Email: user.Email, Password: rawPassword},
		},
		{
			name:    "wrong password",
			input:   service.LoginInput{Email: user.Email, Password: "wrong"},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name:    "unknown email",
			input:   service.LoginInput{Email: "nobody@example.com", Password: "whatever"},
			wantErr: service.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := authService.Login(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, user.ID, result.User.ID)
			assert.NotEmpty(t, result.AccessToken)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService, _, _ := newAuthService(t)
	ctx := context.Background()

	result, err := authService.Register(ctx, service.RegisterInput{
		Email:    "tokenuser@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	claims, err := authService.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID.String(), (*claims)["sub"])
	assert.Equal(t, result.User.Email, (*claims)["email"])

	_, err = authService.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestAuthService_PasswordReset(t *testing.T) {
	authService, testDB, mailer := newAuthService(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().
		WithEmail("reset@example.com").
		WithPassword("oldpassword1").
		Build(t, testDB.DB)

	// Unknown email is silently acknowledged and sends nothing
	require.NoError(t, authService.RequestPasswordReset(ctx, "ghost@example.com", ""))
	assert.Empty(t, mailer.Sent())

	// Known email gets a link rooted at the configured redirect
	require.NoError(t, authService.RequestPasswordReset(ctx, user.Email, ""))
	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, user.Email, sent[0].To)
	assert.True(t, strings.HasPrefix(sent[0].Link, "http://localhost:5173/update-password?token="))

	link, err := url.Parse(sent[0].Link)
	require.NoError(t, err)
	token := link.Query().Get("token")
	require.NotEmpty(t, token)

	// A bogus token is rejected
	err = authService.UpdatePassword(ctx, "bogus", "newpassword1")
	assert.ErrorIs(t, err, service.ErrInvalidResetToken)

	// The real token works exactly once
	require.NoError(t, authService.UpdatePassword(ctx, token, "newpassword1"))
	err = authService.UpdatePassword(ctx, token, "anotherpassword")
	assert.ErrorIs(t, err, service.ErrInvalidResetToken)

	// Password actually changed
	_, err = authService.Login(ctx, service.LoginInput{Email: user.Email, Password: "oldpassword1"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = authService.Login(ctx, service.LoginInput{Email: user.Email, Password: "newpassword1"})
	require.NoError(t, err)
}

func TestAuthService_Logout(t *testing.T) {
	authService, testDB, _ := newAuthService(t)
	ctx := context.Background()

	result, err := authService.Register(ctx, service.RegisterInput{
		Email:    "logout@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, authService.Logout(ctx, result.User.ID))

	var count int64
	err = testDB.DB.Model(&domain.UserSession{}).
		Where("user_id = ?", result.User.ID).
		Count(&count).Error
	require.NoError(t, err)
	assert.Zero(t, count)
}
