package businessflow_test

import (
	"context"
	"testing"

	"github.com/quillhq/inkwell/app/dto"
	businessflow "github.com/quillhq/inkwell/business_flow"
	"github.com/quillhq/inkwell/repository"
	testingutil "github.com/quillhq/inkwell/testing"
	"github.com/quillhq/inkwell/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		accountRepo := repository.NewAccountRepository(testDB.DB)
		profileFlow := businessflow.NewProfileFlow(
			accountRepo,
			repository.NewProfileRepository(testDB.DB),
			repository.NewAuditLogRepository(testDB.DB),
			testDB.DB,
		)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")
		ctx := context.Background()

		account, err := fixtures.CreateTestAccount()
		require.NoError(t, err)

		t.Run("GetMyProfile", func(t *testing.T) {
			profile, err := profileFlow.GetMyProfile(ctx, account.ID)
			require.NoError(t, err)
			require.NotNil(t, profile)
			assert.Equal(t, account.ID, profile.AccountID)
			assert.Equal(t, account.Username, profile.Username)
			assert.Empty(t, profile.Bio)
		})

		t.Run("UpdateIsPartial", func(t *testing.T) {
			updated, err := profileFlow.UpdateProfile(ctx, account.ID, &dto.UpdateProfileRequest{
				Bio:      utils.ToPtr("Writes about Go."),
				Location: utils.ToPtr("Lisbon"),
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "Writes about Go.", updated.Bio)
			assert.Equal(t, "Lisbon", updated.Location)

			// a nil field keeps the stored value
			updated, err = profileFlow.UpdateProfile(ctx, account.ID, &dto.UpdateProfileRequest{
				Website: utils.ToPtr("https://example.com"),
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "Writes about Go.", updated.Bio)
			assert.Equal(t, "https://example.com", updated.Website)
		})

		t.Run("UpdateNames", func(t *testing.T) {
			_, err := profileFlow.UpdateProfile(ctx, account.ID, &dto.UpdateProfileRequest{
				FirstName: utils.ToPtr("Rui"),
				LastName:  utils.ToPtr("Costa"),
			}, metadata)
			require.NoError(t, err)

			row, err := accountRepo.ByID(ctx, account.ID)
			require.NoError(t, err)
			require.NotNil(t, row.FirstName)
			assert.Equal(t, "Rui", *row.FirstName)
		})

		t.Run("GetProfileByUsername", func(t *testing.T) {
			profile, err := profileFlow.GetProfileByUsername(ctx, account.Username)
			require.NoError(t, err)
			assert.Equal(t, account.ID, profile.AccountID)
		})

		t.Run("InactiveAccountIsHidden", func(t *testing.T) {
			inactive, err := fixtures.CreateInactiveAccount()
			require.NoError(t, err)

			_, err = profileFlow.GetProfileByUsername(ctx, inactive.Username)
			require.Error(t, err)
			assert.True(t, businessflow.IsAccountNotFound(err))
		})

		t.Run("UnknownUsername", func(t *testing.T) {
			_, err := profileFlow.GetProfileByUsername(ctx, "nobody-here")
			require.Error(t, err)
			assert.True(t, businessflow.IsAccountNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
