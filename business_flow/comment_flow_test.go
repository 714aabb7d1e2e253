package businessflow_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/quillhq/inkwell/app/dto"
	"github.com/quillhq/inkwell/app/services"
	businessflow "github.com/quillhq/inkwell/business_flow"
	"github.com/quillhq/inkwell/repository"
	testingutil "github.com/quillhq/inkwell/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		commentFlow := businessflow.NewCommentFlow(
			repository.NewCommentRepository(testDB.DB),
			repository.NewPostRepository(testDB.DB),
			repository.NewAccountRepository(testDB.DB),
			repository.NewAuditLogRepository(testDB.DB),
			services.NewMarkdownService(),
			testDB.DB,
		)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")
		ctx := context.Background()

		author, err := fixtures.CreateTestAccount()
		require.NoError(t, err)
		commenter, err := fixtures.CreateTestAccount()
		require.NoError(t, err)

		post, err := fixtures.CreateTestPost(author.ID, "Open thread", "discuss")
		require.NoError(t, err)

		t.Run("CreateComment", func(t *testing.T) {
			result, err := commentFlow.CreateComment(ctx, commenter.ID, post.ID, &dto.CreateCommentRequest{
				Content: "  Nice *post*  ",
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, "Nice *post*", result.Content)
			assert.Contains(t, result.ContentHTML, "<em>post</em>")
			assert.Equal(t, commenter.Username, result.Author.Username)
		})

		t.Run("CreateOnMissingPost", func(t *testing.T) {
			_, err := commentFlow.CreateComment(ctx, commenter.ID, 999999, &dto.CreateCommentRequest{
				Content: "into the void",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsPostNotFound(err))
		})

		t.Run("BlankContentRejected", func(t *testing.T) {
			_, err := commentFlow.CreateComment(ctx, commenter.ID, post.ID, &dto.CreateCommentRequest{
				Content: "   ",
			}, metadata)
			require.Error(t, err)
			assert.ErrorIs(t, err, businessflow.ErrCommentContentRequired)
		})

		t.Run("ContentLengthBounds", func(t *testing.T) {
			_, err := commentFlow.CreateComment(ctx, commenter.ID, post.ID, &dto.CreateCommentRequest{
				Content: "hi",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidCommentContent(err))

			_, err = commentFlow.CreateComment(ctx, commenter.ID, post.ID, &dto.CreateCommentRequest{
				Content: strings.Repeat("a", 5001),
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidCommentContent(err))
		})

		t.Run("ListCommentsPaginated", func(t *testing.T) {
			for i := 0; i < 12; i++ {
				_, err := fixtures.CreateTestComment(post.ID, commenter.ID, fmt.Sprintf("reply %02d", i))
				require.NoError(t, err)
			}

			comments, total, err := commentFlow.ListComments(ctx, post.ID, 1, 10)
			require.NoError(t, err)
			assert.EqualValues(t, 13, total) // 12 fixtures plus the one created above
			assert.Len(t, comments, 10)

			rest, _, err := commentFlow.ListComments(ctx, post.ID, 2, 10)
			require.NoError(t, err)
			assert.Len(t, rest, 3)
		})

		t.Run("ListCommentsMissingPost", func(t *testing.T) {
			_, _, err := commentFlow.ListComments(ctx, 999999, 1, 10)
			require.Error(t, err)
			assert.True(t, businessflow.IsPostNotFound(err))
		})

		t.Run("UpdateOwnComment", func(t *testing.T) {
			created, err := commentFlow.CreateComment(ctx, commenter.ID, post.ID, &dto.CreateCommentRequest{
				Content: "original",
			}, metadata)
			require.NoError(t, err)

			updated, err := commentFlow.UpdateComment(ctx, commenter.ID, created.ID, &dto.UpdateCommentRequest{
				Content: "revised",
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "revised", updated.Content)

			_, err = commentFlow.UpdateComment(ctx, author.ID, created.ID, &dto.UpdateCommentRequest{
				Content: "hijacked",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsNotCommentOwner(err))
		})

		t.Run("DeleteOwnComment", func(t *testing.T) {
			created, err := commentFlow.CreateComment(ctx, commenter.ID, post.ID, &dto.CreateCommentRequest{
				Content: "temporary",
			}, metadata)
			require.NoError(t, err)

			err = commentFlow.DeleteComment(ctx, author.ID, created.ID, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsNotCommentOwner(err))

			require.NoError(t, commentFlow.DeleteComment(ctx, commenter.ID, created.ID, metadata))

			err = commentFlow.DeleteComment(ctx, commenter.ID, created.ID, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsCommentNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
