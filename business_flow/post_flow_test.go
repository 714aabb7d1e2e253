package businessflow_test

import (
	"context"
	"testing"

	"github.com/quillhq/inkwell/app/dto"
	"github.com/quillhq/inkwell/app/services"
	businessflow "github.com/quillhq/inkwell/business_flow"
	"github.com/quillhq/inkwell/models"
	"github.com/quillhq/inkwell/repository"
	testingutil "github.com/quillhq/inkwell/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostFlow(testDB *testingutil.TestDB) businessflow.PostFlow {
	return businessflow.NewPostFlow(
		repository.NewPostRepository(testDB.DB),
		repository.NewTagRepository(testDB.DB),
		repository.NewAccountRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		services.NewMarkdownService(),
		nil,
		testDB.DB,
	)
}

func TestCreatePost(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		tagRepo := repository.NewTagRepository(testDB.DB)
		postFlow := newPostFlow(testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")
		ctx := context.Background()

		author, err := fixtures.CreateTestAccount()
		require.NoError(t, err)

		t.Run("CreateWithTags", func(t *testing.T) {
			result, err := postFlow.CreatePost(ctx, author.ID, &dto.CreatePostRequest{
				Title:   "  First light  ",
				Content: "Some **markdown** content.",
				Tags:    []string{"Go", "writing"},
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, "First light", result.Title)
			assert.Equal(t, author.Username, result.Author.Username)
			assert.Contains(t, result.ContentHTML, "<strong>markdown</strong>")
			require.Len(t, result.Tags, 2)

			// tag names are normalized to lowercase with derived slugs
			names := []string{result.Tags[0].Name, result.Tags[1].Name}
			assert.ElementsMatch(t, []string{"go", "writing"}, names)
		})

		t.Run("ReusesExistingTags", func(t *testing.T) {
			before, err := tagRepo.Count(ctx, models.TagFilter{})
			require.NoError(t, err)

			_, err = postFlow.CreatePost(ctx, author.ID, &dto.CreatePostRequest{
				Title:   "Second entry",
				Content: "More content.",
				Tags:    []string{"GO", "editing"},
			}, metadata)
			require.NoError(t, err)

			after, err := tagRepo.Count(ctx, models.TagFilter{})
			require.NoError(t, err)
			// only "editing" is new; "GO" matches the existing "go"
			assert.Equal(t, before+1, after)
		})

		t.Run("RejectsInvalidTagName", func(t *testing.T) {
			_, err := postFlow.CreatePost(ctx, author.ID, &dto.CreatePostRequest{
				Title:   "Bad tags",
				Content: "Valid content here.",
				Tags:    []string{"x"},
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidTagName(err))
		})

		t.Run("RejectsShortTitle", func(t *testing.T) {
			// trimmed length is what counts
			_, err := postFlow.CreatePost(ctx, author.ID, &dto.CreatePostRequest{
				Title:   "  ab  ",
				Content: "Valid content here.",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidTitle(err))
		})

		t.Run("RejectsShortContent", func(t *testing.T) {
			_, err := postFlow.CreatePost(ctx, author.ID, &dto.CreatePostRequest{
				Title:   "Valid title",
				Content: "too short",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidPostContent(err))
		})

		t.Run("UnknownAuthor", func(t *testing.T) {
			_, err := postFlow.CreatePost(ctx, 999999, &dto.CreatePostRequest{
				Title:   "Orphan",
				Content: "Valid content here.",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsAccountNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestUpdatePost(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		postFlow := newPostFlow(testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")
		ctx := context.Background()

		owner, err := fixtures.CreateTestAccount()
		require.NoError(t, err)
		stranger, err := fixtures.CreateTestAccount()
		require.NoError(t, err)

		created, err := postFlow.CreatePost(ctx, owner.ID, &dto.CreatePostRequest{
			Title:   "Draft",
			Content: "Draft body, first cut.",
			Tags:    []string{"go", "notes"},
		}, metadata)
		require.NoError(t, err)

		t.Run("NilTagsKeepExistingSet", func(t *testing.T) {
			updated, err := postFlow.UpdatePost(ctx, owner.ID, created.ID, &dto.UpdatePostRequest{
				Title:   "Draft v2",
				Content: "Draft body, second cut.",
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "Draft v2", updated.Title)
			assert.Len(t, updated.Tags, 2)
		})

		t.Run("EmptyTagsClearTheSet", func(t *testing.T) {
			empty := []string{}
			updated, err := postFlow.UpdatePost(ctx, owner.ID, created.ID, &dto.UpdatePostRequest{
				Title:   "Draft v3",
				Content: "Draft body, third cut.",
				Tags:    &empty,
			}, metadata)
			require.NoError(t, err)
			assert.Empty(t, updated.Tags)
		})

		t.Run("NonOwnerIsRejected", func(t *testing.T) {
			_, err := postFlow.UpdatePost(ctx, stranger.ID, created.ID, &dto.UpdatePostRequest{
				Title:   "Hijack",
				Content: "Should never land.",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsNotPostOwner(err))
		})

		t.Run("RejectsShortContent", func(t *testing.T) {
			_, err := postFlow.UpdatePost(ctx, owner.ID, created.ID, &dto.UpdatePostRequest{
				Title:   "Draft v4",
				Content: "too short",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidPostContent(err))
		})

		t.Run("MissingPost", func(t *testing.T) {
			_, err := postFlow.UpdatePost(ctx, owner.ID, 999999, &dto.UpdatePostRequest{
				Title:   "Ghost",
				Content: "Should never land.",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsPostNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestDeletePost(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		postFlow := newPostFlow(testDB)
		tagRepo := repository.NewTagRepository(testDB.DB)
		commentRepo := repository.NewCommentRepository(testDB.DB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")
		ctx := context.Background()

		owner, err := fixtures.CreateTestAccount()
		require.NoError(t, err)
		stranger, err := fixtures.CreateTestAccount()
		require.NoError(t, err)

		created, err := postFlow.CreatePost(ctx, owner.ID, &dto.CreatePostRequest{
			Title:   "Doomed",
			Content: "short-lived",
			Tags:    []string{"ephemeral"},
		}, metadata)
		require.NoError(t, err)

		_, err = fixtures.CreateTestComment(created.ID, stranger.ID, "will vanish with the post")
		require.NoError(t, err)

		t.Run("NonOwnerCannotDelete", func(t *testing.T) {
			err := postFlow.DeletePost(ctx, stranger.ID, created.ID, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsNotPostOwner(err))
		})

		t.Run("OwnerDeleteCascades", func(t *testing.T) {
			require.NoError(t, postFlow.DeletePost(ctx, owner.ID, created.ID, metadata))

			_, err := postFlow.GetPost(ctx, created.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsPostNotFound(err))

			// comments on the post are gone
			comments, total, err := commentRepo.ListByPost(ctx, created.ID, 0, 0)
			require.NoError(t, err)
			assert.Empty(t, comments)
			assert.EqualValues(t, 0, total)

			// tags outlive the posts that carried them
			tag, err := tagRepo.ByName(ctx, "ephemeral")
			require.NoError(t, err)
			assert.NotNil(t, tag)
		})

		return nil
	})
	require.NoError(t, err)
}
