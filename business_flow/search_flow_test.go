package businessflow_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/quillhq/inkwell/app/dto"
	businessflow "github.com/quillhq/inkwell/business_flow"
	"github.com/quillhq/inkwell/models"
	"github.com/quillhq/inkwell/repository"
	testingutil "github.com/quillhq/inkwell/testing"
	"github.com/quillhq/inkwell/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePostListQuery(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		parsed, err := businessflow.ParsePostListQuery(&dto.PostListQuery{})
		require.NoError(t, err)
		assert.Equal(t, models.SearchModeAll, parsed.Mode)
		assert.Equal(t, models.SortNewest, parsed.SortBy)
		assert.Equal(t, 1, parsed.Page)
		assert.Equal(t, utils.DefaultPageSize, parsed.PageSize)
		assert.Empty(t, parsed.Search)
		assert.Empty(t, parsed.FilterTags)
		assert.Nil(t, parsed.Year)
	})

	t.Run("UnknownModeAndSortFallBackSilently", func(t *testing.T) {
		parsed, err := businessflow.ParsePostListQuery(&dto.PostListQuery{
			SearchType: "bogus",
			SortBy:     "sideways",
		})
		require.NoError(t, err)
		assert.Equal(t, models.SearchModeAll, parsed.Mode)
		assert.Equal(t, models.SortNewest, parsed.SortBy)
	})

	t.Run("NonNumericYearIsRejected", func(t *testing.T) {
		for _, field := range []dto.PostListQuery{
			{PublicationYear: "twenty"},
			{PublicationYearMin: "abc"},
			{PublicationYearMax: "20x5"},
		} {
			_, err := businessflow.ParsePostListQuery(&field)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidFilterValue(err))
		}
	})

	t.Run("NonNumericPaginationIsRejected", func(t *testing.T) {
		_, err := businessflow.ParsePostListQuery(&dto.PostListQuery{Page: "first"})
		require.Error(t, err)
		assert.True(t, businessflow.IsInvalidFilterValue(err))

		_, err = businessflow.ParsePostListQuery(&dto.PostListQuery{PageSize: "ten"})
		require.Error(t, err)
		assert.True(t, businessflow.IsInvalidFilterValue(err))
	})

	t.Run("PaginationIsClamped", func(t *testing.T) {
		parsed, err := businessflow.ParsePostListQuery(&dto.PostListQuery{Page: "-3", PageSize: "1000"})
		require.NoError(t, err)
		assert.Equal(t, 1, parsed.Page)
		assert.Equal(t, utils.MaxPageSize, parsed.PageSize)
	})

	t.Run("SearchLengthBounds", func(t *testing.T) {
		_, err := businessflow.ParsePostListQuery(&dto.PostListQuery{Search: "a"})
		require.Error(t, err)
		assert.True(t, businessflow.IsInvalidSearchQuery(err))

		_, err = businessflow.ParsePostListQuery(&dto.PostListQuery{Search: strings.Repeat("a", utils.MaxSearchLength+1)})
		require.Error(t, err)
		assert.True(t, businessflow.IsInvalidSearchQuery(err))

		parsed, err := businessflow.ParsePostListQuery(&dto.PostListQuery{Search: "  go  "})
		require.NoError(t, err)
		assert.Equal(t, "go", parsed.Search)
	})

	t.Run("SearchLengthIsCountedInRunes", func(t *testing.T) {
		// one rune, three bytes
		_, err := businessflow.ParsePostListQuery(&dto.PostListQuery{Search: "語"})
		require.Error(t, err)
		assert.True(t, businessflow.IsInvalidSearchQuery(err))

		parsed, err := businessflow.ParsePostListQuery(&dto.PostListQuery{Search: "言語"})
		require.NoError(t, err)
		assert.Equal(t, "言語", parsed.Search)
	})

	t.Run("AuthorNameIsAnAliasForAuthor", func(t *testing.T) {
		parsed, err := businessflow.ParsePostListQuery(&dto.PostListQuery{AuthorName: " alice "})
		require.NoError(t, err)
		assert.Equal(t, "alice", parsed.AuthorName)

		parsed, err = businessflow.ParsePostListQuery(&dto.PostListQuery{Author: "bob", AuthorName: "alice"})
		require.NoError(t, err)
		assert.Equal(t, "bob", parsed.AuthorName)
	})

	t.Run("TagFilterParsing", func(t *testing.T) {
		parsed, err := businessflow.ParsePostListQuery(&dto.PostListQuery{Tags: "Go, Databases ,,  testing"})
		require.NoError(t, err)
		assert.Equal(t, []string{"go", "databases", "testing"}, parsed.FilterTags)
	})

	t.Run("TooManyTagFilters", func(t *testing.T) {
		names := make([]string, utils.MaxTagFilters+1)
		for i := range names {
			names[i] = fmt.Sprintf("tag%02d", i)
		}
		_, err := businessflow.ParsePostListQuery(&dto.PostListQuery{Tags: strings.Join(names, ",")})
		require.Error(t, err)
		assert.True(t, businessflow.IsTooManyTags(err))
	})

	t.Run("TagFilterNameTooShort", func(t *testing.T) {
		_, err := businessflow.ParsePostListQuery(&dto.PostListQuery{Tags: "go,x"})
		require.Error(t, err)
		assert.True(t, businessflow.IsInvalidTagName(err))
	})
}

func TestSearchFlowListPosts(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		postRepo := repository.NewPostRepository(testDB.DB)
		searchFlow := businessflow.NewSearchFlow(postRepo, testDB.DB)
		ctx := context.Background()

		alice, err := fixtures.CreateTestAccount()
		require.NoError(t, err)
		bob, err := fixtures.CreateTestAccount()
		require.NoError(t, err)

		goTag, err := fixtures.CreateTestTag("golang")
		require.NoError(t, err)
		dbTag, err := fixtures.CreateTestTag("databases")
		require.NoError(t, err)
		webTag, err := fixtures.CreateTestTag("web")
		require.NoError(t, err)

		// alice: two tagged posts from different years
		concurrency, err := fixtures.CreateTestPostAt(alice.ID,
			"Concurrency patterns", "Channels and goroutines in practice.",
			time.Date(2023, 3, 10, 12, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.NoError(t, fixtures.AttachTags(concurrency, goTag, dbTag))

		indexes, err := fixtures.CreateTestPostAt(alice.ID,
			"Indexing deep dive", "How btree indexes work.",
			time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.NoError(t, fixtures.AttachTags(indexes, dbTag))

		// bob: one post whose content mentions goroutines, tagged web
		serverPost, err := fixtures.CreateTestPostAt(bob.ID,
			"Building a web server", "Spawn one goroutine per connection.",
			time.Date(2024, 1, 5, 18, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.NoError(t, fixtures.AttachTags(serverPost, webTag))

		t.Run("FreeTextAllFieldsDefault", func(t *testing.T) {
			result, err := searchFlow.ListPosts(ctx, &dto.PostListQuery{Search: "goroutine"})
			require.NoError(t, err)
			// matches concurrency (content) and serverPost (content)
			assert.EqualValues(t, 2, result.Count)
			assert.Len(t, result.Results, 2)
		})

		t.Run("TitleModeExcludesContentMatches", func(t *testing.T) {
			result, err := searchFlow.ListPosts(ctx, &dto.PostListQuery{Search: "goroutine", SearchType: "title"})
			require.NoError(t, err)
			assert.EqualValues(t, 0, result.Count)
			assert.Empty(t, result.Results)
		})

		t.Run("TagModeMatchesTagNames", func(t *testing.T) {
			result, err := searchFlow.ListPosts(ctx, &dto.PostListQuery{Search: "golang", SearchType: "tags"})
			require.NoError(t, err)
			require.EqualValues(t, 1, result.Count)
			assert.Equal(t, concurrency.ID, result.Results[0].ID)
		})

		t.Run("AuthorModeMatchesUsername", func(t *testing.T) {
			result, err := searchFlow.ListPosts(ctx, &dto.PostListQuery{
				Search:     bob.Username,
				SearchType: "author",
			})
			require.NoError(t, err)
			require.EqualValues(t, 1, result.Count)
			assert.Equal(t, serverPost.ID, result.Results[0].ID)
		})

		t.Run("AllModeIsSupersetOfScopedModes", func(t *testing.T) {
			for _, mode := range []string{"title", "content", "tags", "author"} {
				scoped, err := searchFlow.ListPosts(ctx, &dto.PostListQuery{Search: "goroutine", SearchType: mode})
				require.NoError(t, err)
				all, err := searchFlow.ListPosts(ctx, &dto.PostListQuery{Search: "goroutine"})
				require.NoError(t, err)
				assert.GreaterOrEqual(t, all.Count, scoped.Count, "mode %s", mode)
			}
		})

		t.Run("TagJoinDoesNotDuplicatePosts", func(t *testing.T) {
			// "i" appears in both of concurrency's tag names; the post must
			// still be returned once.
			result, err := searchFlow.ListPosts(ctx, &dto.PostListQuery{Search: "patterns"})
			require.NoError(t, err)
			assert.EqualValues(t, 1, result.Count)
			require.Len(t, result.Results, 1)
			assert.Equal(t, concurrency.ID, result.Results[0].ID)
		})

		t.Run("TagFilterIsConjunctive", func(t *testing.T) {
			result, err := searchFlow.ListPosts(ctx, &dto.PostListQuery{Tags: "golang,databases"})
			require.NoError(t, err)
			require.EqualValues(t, 1, result.Count)
			assert.Equal(t, concurrency.ID, result.Results[0].ID)

			// one tag alone matches more
			result, err = searchFlow.ListPosts(ctx, &dto.PostListQuery{Tags: "databases"})
			require.NoError(t, err)
			assert.EqualValues(t, 2, result.Count)
		})

		t.Run("YearFilters", func(t *testing.T) {
			result, err := searchFlow.ListPosts(ctx, &dto.PostListQuery{PublicationYear: "2023"})
			require.NoError(t, err)
			require.EqualValues(t, 1, result.Count)
			assert.Equal(t, concurrency.ID, result.Results[0].ID)

			result, err = searchFlow.ListPosts(ctx, &dto.PostListQuery{PublicationYearMin: "2024"})
			require.NoError(t, err)
			assert.EqualValues(t, 2, result.Count)

			result, err = searchFlow.ListPosts(ctx, &dto.PostListQuery{
				PublicationYearMin: "2023",
				PublicationYearMax: "2023",
			})
			require.NoError(t, err)
			assert.EqualValues(t, 1, result.Count)
		})

		t.Run("AuthorFilterCombinesWithSearch", func(t *testing.T) {
			result, err := searchFlow.ListPosts(ctx, &dto.PostListQuery{
				Search: "goroutine",
				Author: alice.Username,
			})
			require.NoError(t, err)
			require.EqualValues(t, 1, result.Count)
			assert.Equal(t, concurrency.ID, result.Results[0].ID)
		})

		t.Run("SortOrders", func(t *testing.T) {
			newest, err := searchFlow.ListPosts(ctx, &dto.PostListQuery{})
			require.NoError(t, err)
			require.Len(t, newest.Results, 3)
			assert.Equal(t, indexes.ID, newest.Results[0].ID)
			assert.Equal(t, concurrency.ID, newest.Results[2].ID)

			oldest, err := searchFlow.ListPosts(ctx, &dto.PostListQuery{SortBy: "oldest"})
			require.NoError(t, err)
			assert.Equal(t, concurrency.ID, oldest.Results[0].ID)

			titleAsc, err := searchFlow.ListPosts(ctx, &dto.PostListQuery{SortBy: "title_asc"})
			require.NoError(t, err)
			assert.Equal(t, "Building a web server", titleAsc.Results[0].Title)

			titleDesc, err := searchFlow.ListPosts(ctx, &dto.PostListQuery{SortBy: "title_desc"})
			require.NoError(t, err)
			assert.Equal(t, "Indexing deep dive", titleDesc.Results[0].Title)
		})

		t.Run("ZeroMatches", func(t *testing.T) {
			result, err := searchFlow.ListPosts(ctx, &dto.PostListQuery{Search: "quantum chromodynamics"})
			require.NoError(t, err)
			assert.EqualValues(t, 0, result.Count)
			assert.NotNil(t, result.Results)
			assert.Empty(t, result.Results)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSearchFlowPagination(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		postRepo := repository.NewPostRepository(testDB.DB)
		searchFlow := businessflow.NewSearchFlow(postRepo, testDB.DB)
		ctx := context.Background()

		author, err := fixtures.CreateTestAccount()
		require.NoError(t, err)

		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 25; i++ {
			_, err := fixtures.CreateTestPostAt(author.ID,
				fmt.Sprintf("Entry %02d", i), "body",
				base.Add(time.Duration(i)*time.Hour))
			require.NoError(t, err)
		}

		seen := make(map[uint]bool)
		for page, wantLen := range map[string]int{"1": 10, "2": 10, "3": 5} {
			result, err := searchFlow.ListPosts(ctx, &dto.PostListQuery{Page: page})
			require.NoError(t, err)
			assert.EqualValues(t, 25, result.Count)
			assert.Len(t, result.Results, wantLen)
			for _, p := range result.Results {
				assert.False(t, seen[p.ID], "post %d returned on more than one page", p.ID)
				seen[p.ID] = true
			}
		}
		assert.Len(t, seen, 25)

		// past the end
		result, err := searchFlow.ListPosts(ctx, &dto.PostListQuery{Page: "4"})
		require.NoError(t, err)
		assert.EqualValues(t, 25, result.Count)
		assert.Empty(t, result.Results)

		return nil
	})
	require.NoError(t, err)
}
