package businessflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/quillhq/inkwell/app/dto"
	"github.com/quillhq/inkwell/app/services"
	businessflow "github.com/quillhq/inkwell/business_flow"
	"github.com/quillhq/inkwell/models"
	"github.com/quillhq/inkwell/repository"
	testingutil "github.com/quillhq/inkwell/testing"
	"github.com/quillhq/inkwell/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) services.TokenService {
	t.Helper()
	tokenService, err := services.NewTokenService(
		1*time.Hour, 24*time.Hour,
		"test-issuer", "test-audience",
		false, "", "",
		"test-secret-key-that-is-long-enough-123",
	)
	require.NoError(t, err)
	return tokenService
}

func TestRegister(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		accountRepo := repository.NewAccountRepository(testDB.DB)
		profileRepo := repository.NewProfileRepository(testDB.DB)
		sessionRepo := repository.NewAccountSessionRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		tokenService := newTestTokenService(t)

		signupFlow := businessflow.NewSignupFlow(
			accountRepo,
			profileRepo,
			sessionRepo,
			auditRepo,
			tokenService,
			testDB.DB,
		)

		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")
		ctx := context.Background()

		t.Run("SuccessfulRegistration", func(t *testing.T) {
			req := &dto.RegisterRequest{
				Username:        "inkdrop",
				Email:           "Ink.Drop@Example.com",
				Password:        "SecurePass123!",
				ConfirmPassword: "SecurePass123!",
			}

			result, err := signupFlow.Register(ctx, req, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.NotEmpty(t, result.AccessToken)
			assert.NotEmpty(t, result.RefreshToken)
			assert.Equal(t, "inkdrop", result.Account.Username)
			assert.Equal(t, "ink.drop@example.com", result.Account.Email)

			// Account row exists and is active
			account, err := accountRepo.ByUsername(ctx, "inkdrop")
			require.NoError(t, err)
			require.NotNil(t, account)
			assert.True(t, utils.IsTrue(account.IsActive))
			assert.NotEqual(t, "SecurePass123!", account.PasswordHash)

			// Profile was created in the same transaction
			profile, err := profileRepo.ByAccountID(ctx, account.ID)
			require.NoError(t, err)
			require.NotNil(t, profile)
			assert.Empty(t, profile.Bio)

			// Session was created for the issued token pair
			sessions, err := sessionRepo.ByFilter(ctx, models.AccountSessionFilter{AccountID: &account.ID}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, sessions, 1)
			assert.Equal(t, result.AccessToken, sessions[0].SessionToken)
		})

		t.Run("DuplicateUsername", func(t *testing.T) {
			req := &dto.RegisterRequest{
				Username:        "inkdrop",
				Email:           "other@example.com",
				Password:        "SecurePass123!",
				ConfirmPassword: "SecurePass123!",
			}
			_, err := signupFlow.Register(ctx, req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsUsernameAlreadyExists(err))
		})

		t.Run("DuplicateEmailCaseInsensitive", func(t *testing.T) {
			req := &dto.RegisterRequest{
				Username:        "anotherwriter",
				Email:           "INK.DROP@example.com",
				Password:        "SecurePass123!",
				ConfirmPassword: "SecurePass123!",
			}
			_, err := signupFlow.Register(ctx, req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsEmailAlreadyExists(err))
		})

		return nil
	})
	require.NoError(t, err)
}
