package businessflow_test

import (
	"context"
	"testing"

	"github.com/quillhq/inkwell/app/dto"
	businessflow "github.com/quillhq/inkwell/business_flow"
	"github.com/quillhq/inkwell/models"
	"github.com/quillhq/inkwell/repository"
	testingutil "github.com/quillhq/inkwell/testing"
	"github.com/quillhq/inkwell/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		accountRepo := repository.NewAccountRepository(testDB.DB)
		sessionRepo := repository.NewAccountSessionRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)
		tokenService := newTestTokenService(t)

		loginFlow := businessflow.NewLoginFlow(
			accountRepo,
			sessionRepo,
			auditRepo,
			tokenService,
			testDB.DB,
		)

		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")
		ctx := context.Background()

		account, err := fixtures.CreateTestAccount()
		require.NoError(t, err)

		t.Run("LoginWithUsername", func(t *testing.T) {
			result, err := loginFlow.Login(ctx, &dto.LoginRequest{
				Identifier: account.Username,
				Password:   testingutil.TestPassword,
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.NotEmpty(t, result.AccessToken)
			assert.NotEmpty(t, result.RefreshToken)
			assert.Equal(t, "Bearer", result.TokenType)

			// last login gets stamped
			updated, err := accountRepo.ByID(ctx, account.ID)
			require.NoError(t, err)
			assert.NotNil(t, updated.LastLoginAt)
		})

		t.Run("LoginWithEmail", func(t *testing.T) {
			result, err := loginFlow.Login(ctx, &dto.LoginRequest{
				Identifier: account.Email,
				Password:   testingutil.TestPassword,
			}, metadata)
			require.NoError(t, err)
			assert.NotEmpty(t, result.AccessToken)
		})

		t.Run("WrongPassword", func(t *testing.T) {
			_, err := loginFlow.Login(ctx, &dto.LoginRequest{
				Identifier: account.Username,
				Password:   "not-the-password",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsIncorrectPassword(err))
		})

		t.Run("UnknownIdentifier", func(t *testing.T) {
			_, err := loginFlow.Login(ctx, &dto.LoginRequest{
				Identifier: "ghostwriter",
				Password:   testingutil.TestPassword,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsAccountNotFound(err))
		})

		t.Run("InactiveAccount", func(t *testing.T) {
			inactive, err := fixtures.CreateInactiveAccount()
			require.NoError(t, err)

			_, err = loginFlow.Login(ctx, &dto.LoginRequest{
				Identifier: inactive.Username,
				Password:   testingutil.TestPassword,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsAccountInactive(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestRefreshAndLogout(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		accountRepo := repository.NewAccountRepository(testDB.DB)
		sessionRepo := repository.NewAccountSessionRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)
		tokenService := newTestTokenService(t)

		loginFlow := businessflow.NewLoginFlow(
			accountRepo,
			sessionRepo,
			auditRepo,
			tokenService,
			testDB.DB,
		)

		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")
		ctx := context.Background()

		account, err := fixtures.CreateTestAccount()
		require.NoError(t, err)

		login, err := loginFlow.Login(ctx, &dto.LoginRequest{
			Identifier: account.Username,
			Password:   testingutil.TestPassword,
		}, metadata)
		require.NoError(t, err)

		t.Run("RefreshRotatesTokens", func(t *testing.T) {
			result, err := loginFlow.RefreshToken(ctx, &dto.RefreshTokenRequest{
				RefreshToken: login.RefreshToken,
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.NotEmpty(t, result.AccessToken)
			assert.NotEqual(t, login.AccessToken, result.AccessToken)
			assert.NotEqual(t, login.RefreshToken, result.RefreshToken)

			// old session is expired, a new one is active
			old, err := sessionRepo.ByRefreshToken(ctx, login.RefreshToken)
			require.NoError(t, err)
			if old != nil {
				assert.False(t, old.IsValid())
			}
			fresh, err := sessionRepo.BySessionToken(ctx, result.AccessToken)
			require.NoError(t, err)
			require.NotNil(t, fresh)
			assert.True(t, fresh.IsValid())
		})

		t.Run("RefreshWithGarbageToken", func(t *testing.T) {
			_, err := loginFlow.RefreshToken(ctx, &dto.RefreshTokenRequest{
				RefreshToken: "definitely-not-a-token",
			}, metadata)
			require.Error(t, err)
		})

		t.Run("LogoutExpiresAllSessions", func(t *testing.T) {
			fresh, err := loginFlow.Login(ctx, &dto.LoginRequest{
				Identifier: account.Username,
				Password:   testingutil.TestPassword,
			}, metadata)
			require.NoError(t, err)

			require.NoError(t, loginFlow.Logout(ctx, account.ID, fresh.AccessToken, metadata))

			active := utils.ToPtr(true)
			sessions, err := sessionRepo.ByFilter(ctx, models.AccountSessionFilter{
				AccountID: &account.ID,
				IsActive:  active,
			}, "", 0, 0)
			require.NoError(t, err)
			assert.Empty(t, sessions)

			// the access token is revoked as well
			_, err = tokenService.ValidateToken(fresh.AccessToken)
			require.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}
