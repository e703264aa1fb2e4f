package user

import (
	"context"
	"testing"
	"time"

	"fintrack_backend/internal/common"
	"fintrack_backend/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockRepository is a mock type for user.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRepository) MarkEmailConfirmed(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) SetRefreshToken(ctx context.Context, id uuid.UUID, token *string, expiresAt *time.Time) error {
	args := m.Called(ctx, id, token, expiresAt)
	return args.Error(0)
}

func (m *MockRepository) GetRefreshToken(ctx context.Context, id uuid.UUID) (*string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockRepository) ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockSessionIssuer is a mock type for shared.SessionIssuer
type MockSessionIssuer struct {
	mock.Mock
}

func (m *MockSessionIssuer) IssueSession(ctx context.Context, usr *shared.User) (*shared.TokenResponse, error) {
	args := m.Called(ctx, usr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.TokenResponse), args.Error(1)
}

// MockConfirmationSender is a mock type for shared.ConfirmationSender
type MockConfirmationSender struct {
	mock.Mock
}

func (m *MockConfirmationSender) SendConfirmationLink(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func newTestService(t *testing.T) (*ServiceImplementation, *MockRepository, *MockSessionIssuer, *MockConfirmationSender) {
	t.Helper()
	repo := new(MockRepository)
	sessions := new(MockSessionIssuer)
	confirmations := new(MockConfirmationSender)
	svc := NewService(repo, sessions, confirmations, zap.NewNop())
	return svc, repo, sessions, confirmations
}

func testTokenResponse() *shared.TokenResponse {
	return &shared.TokenResponse{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		ExpiresAt:    time.Now().Add(15 * time.Minute),
	}
}

func TestService_Register_Success(t *testing.T) {
	svc, repo, sessions, confirmations := newTestService(t)
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "new@example.com").Return(nil, common.ErrNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*user.User")).Return(nil)
	confirmations.On("SendConfirmationLink", ctx, "new@example.com").Return(nil)
	sessions.On("IssueSession", ctx, mock.AnythingOfType("*shared.User")).Return(testTokenResponse(), nil)

	usr, tokens, err := svc.Register(ctx, shared.CreateUserRequest{
		Name:     "New User",
		Email:    "new@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)
	require.NotNil(t, usr)
	require.NotNil(t, tokens)
	assert.Equal(t, "new@example.com", *usr.Email)
	assert.False(t, usr.IsEmailConfirmed)
	assert.Equal(t, "access", tokens.AccessToken)

	repo.AssertExpectations(t)
	sessions.AssertExpectations(t)
	confirmations.AssertExpectations(t)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "taken@example.com").Return(newTestUser("taken@example.com"), nil)

	_, _, err := svc.Register(ctx, shared.CreateUserRequest{
		Name:     "Dup",
		Email:    "taken@example.com",
		Password: "secret-password",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConflict)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Register_MailDeliveryFailure(t *testing.T) {
	svc, repo, sessions, confirmations := newTestService(t)
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "flaky@example.com").Return(nil, common.ErrNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*user.User")).Return(nil)
	confirmations.On("SendConfirmationLink", ctx, "flaky@example.com").
		Return(common.ErrDelivery.WithDetails("smtp unreachable"))

	_, _, err := svc.Register(ctx, shared.CreateUserRequest{
		Name:     "Flaky",
		Email:    "flaky@example.com",
		Password: "secret-password",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDelivery)

	// The user record was created and stays; no session is issued. The caller
	// is expected to retry via the resend endpoint.
	repo.AssertCalled(t, "Create", ctx, mock.AnythingOfType("*user.User"))
	sessions.AssertNotCalled(t, "IssueSession", mock.Anything, mock.Anything)
}

func TestService_Login(t *testing.T) {
	password := "correct-horse-battery"
	hash, err := common.HashPassword(password)
	require.NoError(t, err)

	dbUser := newTestUser("login@example.com")
	dbUser.PasswordHash = &hash

	googleUser := newTestUser("google@example.com")
	googleUser.PasswordHash = nil
	googleUser.IsRegisteredWithGoogle = true

	tests := []struct {
		name      string
		email     string
		password  string
		setupMock func(repo *MockRepository, sessions *MockSessionIssuer)
		wantErr   error
	}{
		{
			name:     "valid credentials",
			email:    "login@example.com",
			password: password,
			setupMock: func(repo *MockRepository, sessions *MockSessionIssuer) {
				repo.On("FindByEmail", mock.Anything, "login@example.com").Return(dbUser, nil)
				repo.On("Update", mock.Anything, mock.AnythingOfType("*user.User")).Return(nil)
				sessions.On("IssueSession", mock.Anything, mock.AnythingOfType("*shared.User")).Return(testTokenResponse(), nil)
			},
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: password,
			setupMock: func(repo *MockRepository, sessions *MockSessionIssuer) {
				repo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, common.ErrNotFound)
			},
			wantErr: common.ErrUnauthorized,
		},
		{
			name:     "wrong password",
			email:    "login@example.com",
			password: "not-the-password",
			setupMock: func(repo *MockRepository, sessions *MockSessionIssuer) {
				repo.On("FindByEmail", mock.Anything, "login@example.com").Return(dbUser, nil)
			},
			wantErr: common.ErrUnauthorized,
		},
		{
			name:     "google-only account",
			email:    "google@example.com",
			password: password,
			setupMock: func(repo *MockRepository, sessions *MockSessionIssuer) {
				repo.On("FindByEmail", mock.Anything, "google@example.com").Return(googleUser, nil)
			},
			wantErr: common.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, sessions, _ := newTestService(t)
			tt.setupMock(repo, sessions)

			usr, tokens, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, usr)
				assert.Nil(t, tokens)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, usr)
			require.NotNil(t, tokens)
		})
	}
}

func TestService_ChangePassword(t *testing.T) {
	current := "current-password"
	hash, err := common.HashPassword(current)
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)
		dbUser := newTestUser("pw@example.com")
		dbUser.PasswordHash = &hash
		repo.On("FindByID", mock.Anything, dbUser.ID).Return(dbUser, nil)

		err := svc.ChangePassword(context.Background(), dbUser.ID, "wrong", "new-password-123")
		assert.ErrorIs(t, err, common.ErrUnauthorized)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("google-only account", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)
		dbUser := newTestUser("pw-google@example.com")
		dbUser.PasswordHash = nil
		dbUser.IsRegisteredWithGoogle = true
		repo.On("FindByID", mock.Anything, dbUser.ID).Return(dbUser, nil)

		err := svc.ChangePassword(context.Background(), dbUser.ID, current, "new-password-123")
		assert.ErrorIs(t, err, common.ErrConflict)
	})

	t.Run("success", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)
		dbUser := newTestUser("pw-ok@example.com")
		dbUser.PasswordHash = &hash
		repo.On("FindByID", mock.Anything, dbUser.ID).Return(dbUser, nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*user.User")).Return(nil)

		err := svc.ChangePassword(context.Background(), dbUser.ID, current, "new-password-123")
		require.NoError(t, err)
		require.NotNil(t, dbUser.PasswordHash)
		assert.True(t, common.CheckPasswordHash("new-password-123", *dbUser.PasswordHash))
	})
}

func TestService_CreateGoogleUser(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*user.User")).Return(nil)

	usr, err := svc.CreateGoogleUser(ctx, "G User", "GUser@Example.com", true)
	require.NoError(t, err)
	assert.True(t, usr.IsRegisteredWithGoogle)
	assert.True(t, usr.IsEmailConfirmed)
	assert.Equal(t, "guser@example.com", *usr.Email)
	assert.Equal(t, common.RoleUser, usr.Role)
}
