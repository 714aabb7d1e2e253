package repository_test

import (
	"context"
	"testing"

	"github.com/quillhq/inkwell/repository"
	testingutil "github.com/quillhq/inkwell/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateByNames(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		tagRepo := repository.NewTagRepository(testDB.DB)
		ctx := context.Background()

		t.Run("CreatesThenReuses", func(t *testing.T) {
			first, err := tagRepo.GetOrCreateByNames(ctx, []string{"Databases"})
			require.NoError(t, err)
			require.Len(t, first, 1)
			assert.Equal(t, "databases", first[0].Name)
			assert.Equal(t, "databases", first[0].Slug)
			assert.NotZero(t, first[0].ID)

			// a second call with different casing must not insert a new row
			second, err := tagRepo.GetOrCreateByNames(ctx, []string{"DATABASES"})
			require.NoError(t, err)
			require.Len(t, second, 1)
			assert.Equal(t, first[0].ID, second[0].ID)
		})

		t.Run("DuplicateNamesInOneCall", func(t *testing.T) {
			tags, err := tagRepo.GetOrCreateByNames(ctx, []string{"golang", " Golang "})
			require.NoError(t, err)
			require.Len(t, tags, 2)
			assert.Equal(t, tags[0].ID, tags[1].ID)
		})

		t.Run("BlankNamesAreSkipped", func(t *testing.T) {
			tags, err := tagRepo.GetOrCreateByNames(ctx, []string{"  ", "testing"})
			require.NoError(t, err)
			require.Len(t, tags, 1)
			assert.Equal(t, "testing", tags[0].Name)
		})

		return nil
	})
	require.NoError(t, err)
}
