package businessflow_test

import (
	"context"
	"fmt"
	"testing"

	businessflow "github.com/quillhq/inkwell/business_flow"
	"github.com/quillhq/inkwell/repository"
	testingutil "github.com/quillhq/inkwell/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		// nil redis client: the flow must fall back to the database
		tagFlow := businessflow.NewTagFlow(
			repository.NewTagRepository(testDB.DB),
			repository.NewPostRepository(testDB.DB),
			nil,
			testDB.DB,
		)
		ctx := context.Background()

		author, err := fixtures.CreateTestAccount()
		require.NoError(t, err)

		goTag, err := fixtures.CreateTestTag("golang")
		require.NoError(t, err)
		loneTag, err := fixtures.CreateTestTag("untouched")
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			post, err := fixtures.CreateTestPost(author.ID, fmt.Sprintf("Post %d", i), "content")
			require.NoError(t, err)
			require.NoError(t, fixtures.AttachTags(post, goTag))
		}

		t.Run("ListTagsWithCounts", func(t *testing.T) {
			tags, err := tagFlow.ListTags(ctx)
			require.NoError(t, err)
			require.Len(t, tags, 2)

			byName := make(map[string]int64)
			for _, tag := range tags {
				byName[tag.Name] = tag.PostCount
			}
			assert.EqualValues(t, 3, byName["golang"])
			assert.EqualValues(t, 0, byName["untouched"])
		})

		t.Run("GetTagBySlug", func(t *testing.T) {
			detail, err := tagFlow.GetTagBySlug(ctx, goTag.Slug, 1, 2)
			require.NoError(t, err)
			require.NotNil(t, detail)
			assert.Equal(t, "golang", detail.Tag.Name)
			assert.EqualValues(t, 3, detail.Count)
			assert.Len(t, detail.Posts, 2)

			rest, err := tagFlow.GetTagBySlug(ctx, goTag.Slug, 2, 2)
			require.NoError(t, err)
			assert.Len(t, rest.Posts, 1)
		})

		t.Run("EmptyTagDetail", func(t *testing.T) {
			detail, err := tagFlow.GetTagBySlug(ctx, loneTag.Slug, 1, 10)
			require.NoError(t, err)
			assert.EqualValues(t, 0, detail.Count)
			assert.NotNil(t, detail.Posts)
			assert.Empty(t, detail.Posts)
		})

		t.Run("UnknownSlug", func(t *testing.T) {
			_, err := tagFlow.GetTagBySlug(ctx, "no-such-tag", 1, 10)
			require.Error(t, err)
			assert.True(t, businessflow.IsTagNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
