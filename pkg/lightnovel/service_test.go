package lightnovel_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgieSugina/wb-ln-server/pkg/lightnovel"
	"github.com/EgieSugina/wb-ln-server/pkg/lightnovel/repo/memory"
	memorystorage "github.com/EgieSugina/wb-ln-server/pkg/lightnovel/storage/memory"
)

const testBucket = "light-novel-images"

func coverURL(key string) string {
	return "https://storage.googleapis.com/" + testBucket + "/" + key
}

// setupCatalog builds a service over in-memory persistence and storage. The
// returned recording store observes blob movement during retirement.
func setupCatalog(t *testing.T) (lightnovel.Service, *recordingStore) {
	t.Helper()

	store := &recordingStore{BlobStore: memorystorage.New()}
	svc, err := lightnovel.New(
		lightnovel.WithRepository(memory.New()),
		lightnovel.WithArchiver(lightnovel.NewArchiver(store, testBucket, nil)),
	)
	require.NoError(t, err)
	require.NotNil(t, svc)
	return svc, store
}

func uploadCover(t *testing.T, store lightnovel.BlobStore, key string) {
	t.Helper()
	err := store.Upload(context.Background(), key, strings.NewReader("cover-bytes"), "image/png")
	require.NoError(t, err)
}

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []lightnovel.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []lightnovel.Option{},
			expectError: true,
		},
		{
			name: "with repository should succeed",
			options: []lightnovel.Option{
				lightnovel.WithRepository(memory.New()),
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := lightnovel.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestCreateNovel(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupCatalog(t)

	t.Run("status defaults to ongoing", func(t *testing.T) {
		novel, err := svc.CreateNovel(ctx, lightnovel.CreateNovelRequest{
			Title:  "Ascendance",
			Author: "Miya Kazuki",
		})
		require.NoError(t, err)
		assert.Equal(t, lightnovel.StatusOngoing, novel.Status)
		assert.NotZero(t, novel.ID)
		assert.NotNil(t, novel.Chapters)
		assert.NotNil(t, novel.Genres)
		assert.Empty(t, novel.Chapters)
		assert.Empty(t, novel.Genres)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		_, err := svc.CreateNovel(ctx, lightnovel.CreateNovelRequest{Author: "Someone"})
		var validationErr *lightnovel.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "title", validationErr.Field)
	})

	t.Run("empty author rejected", func(t *testing.T) {
		_, err := svc.CreateNovel(ctx, lightnovel.CreateNovelRequest{Title: "Untitled"})
		var validationErr *lightnovel.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "author", validationErr.Field)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := svc.CreateNovel(ctx, lightnovel.CreateNovelRequest{
			Title:  "Untitled",
			Author: "Someone",
			Status: "Cancelled",
		})
		var validationErr *lightnovel.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "status", validationErr.Field)
	})

	t.Run("with genres attached", func(t *testing.T) {
		action, err := svc.CreateGenre(ctx, lightnovel.GenreRequest{Name: "Action"})
		require.NoError(t, err)
		fantasy, err := svc.CreateGenre(ctx, lightnovel.GenreRequest{Name: "Fantasy"})
		require.NoError(t, err)

		novel, err := svc.CreateNovel(ctx, lightnovel.CreateNovelRequest{
			Title:    "Overlord",
			Author:   "Kugane Maruyama",
			GenreIDs: []int64{action.ID, fantasy.ID},
		})
		require.NoError(t, err)
		require.Len(t, novel.Genres, 2)
	})

	t.Run("unknown genre rejected", func(t *testing.T) {
		_, err := svc.CreateNovel(ctx, lightnovel.CreateNovelRequest{
			Title:    "Orphan",
			Author:   "Someone",
			GenreIDs: []int64{99999},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, lightnovel.ErrGenreNotFound)
	})
}

func TestUpdateNovelGenreReplace(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupCatalog(t)

	action, err := svc.CreateGenre(ctx, lightnovel.GenreRequest{Name: "Action"})
	require.NoError(t, err)
	fantasy, err := svc.CreateGenre(ctx, lightnovel.GenreRequest{Name: "Fantasy"})
	require.NoError(t, err)
	isekai, err := svc.CreateGenre(ctx, lightnovel.GenreRequest{Name: "Isekai"})
	require.NoError(t, err)

	novel, err := svc.CreateNovel(ctx, lightnovel.CreateNovelRequest{
		Title:    "Re:Zero",
		Author:   "Tappei Nagatsuki",
		GenreIDs: []int64{action.ID, fantasy.ID},
	})
	require.NoError(t, err)

	update := lightnovel.UpdateNovelRequest{
		Title:    "Re:Zero",
		Author:   "Tappei Nagatsuki",
		GenreIDs: []int64{fantasy.ID, isekai.ID},
	}

	genreNames := func(n *lightnovel.Novel) []string {
		names := make([]string, 0, len(n.Genres))
		for _, g := range n.Genres {
			names = append(names, g.Name)
		}
		return names
	}

	t.Run("replace swaps the full set", func(t *testing.T) {
		updated, err := svc.UpdateNovel(ctx, novel.ID, update)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Fantasy", "Isekai"}, genreNames(updated))
	})

	t.Run("replay of the same set is idempotent", func(t *testing.T) {
		updated, err := svc.UpdateNovel(ctx, novel.ID, update)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Fantasy", "Isekai"}, genreNames(updated))
	})

	t.Run("nil leaves relations untouched", func(t *testing.T) {
		updated, err := svc.UpdateNovel(ctx, novel.ID, lightnovel.UpdateNovelRequest{
			Title:  "Re:Zero",
			Author: "Tappei Nagatsuki",
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Fantasy", "Isekai"}, genreNames(updated))
	})

	t.Run("empty set clears relations", func(t *testing.T) {
		updated, err := svc.UpdateNovel(ctx, novel.ID, lightnovel.UpdateNovelRequest{
			Title:    "Re:Zero",
			Author:   "Tappei Nagatsuki",
			GenreIDs: []int64{},
		})
		require.NoError(t, err)
		assert.Empty(t, updated.Genres)
	})
}

func TestUpdateNovelCoverRetirement(t *testing.T) {
	ctx := context.Background()

	newNovel := func(t *testing.T, svc lightnovel.Service, cover string) *lightnovel.Novel {
		t.Helper()
		novel, err := svc.CreateNovel(ctx, lightnovel.CreateNovelRequest{
			Title:      "Slime",
			Author:     "Fuse",
			CoverImage: cover,
		})
		require.NoError(t, err)
		return novel
	}

	t.Run("replacing the cover retires the old blob", func(t *testing.T) {
		svc, store := setupCatalog(t)
		uploadCover(t, store, "novel-covers/old.png")
		novel := newNovel(t, svc, coverURL("novel-covers/old.png"))

		updated, err := svc.UpdateNovel(ctx, novel.ID, lightnovel.UpdateNovelRequest{
			Title:      "Slime",
			Author:     "Fuse",
			CoverImage: coverURL("novel-covers/new.png"),
		})
		require.NoError(t, err)
		assert.Equal(t, coverURL("novel-covers/new.png"), updated.CoverImage)

		_, err = store.Download(ctx, "novel-covers/old.png")
		assert.Error(t, err, "old blob should be gone")
		require.Len(t, store.copies, 1)
		assert.True(t, strings.HasPrefix(store.copies[0][1], "retired/"))
	})

	t.Run("unchanged cover is not retired", func(t *testing.T) {
		svc, store := setupCatalog(t)
		uploadCover(t, store, "novel-covers/same.png")
		novel := newNovel(t, svc, coverURL("novel-covers/same.png"))

		_, err := svc.UpdateNovel(ctx, novel.ID, lightnovel.UpdateNovelRequest{
			Title:      "Slime",
			Author:     "Fuse",
			CoverImage: coverURL("novel-covers/same.png"),
		})
		require.NoError(t, err)
		assert.Empty(t, store.copies)

		_, err = store.Download(ctx, "novel-covers/same.png")
		assert.NoError(t, err)
	})

	t.Run("clearing the cover leaves the blob in place", func(t *testing.T) {
		svc, store := setupCatalog(t)
		uploadCover(t, store, "novel-covers/kept.png")
		novel := newNovel(t, svc, coverURL("novel-covers/kept.png"))

		updated, err := svc.UpdateNovel(ctx, novel.ID, lightnovel.UpdateNovelRequest{
			Title:  "Slime",
			Author: "Fuse",
		})
		require.NoError(t, err)
		assert.Empty(t, updated.CoverImage)
		assert.Empty(t, store.copies)

		_, err = store.Download(ctx, "novel-covers/kept.png")
		assert.NoError(t, err)
	})

	t.Run("retirement failure does not block the update", func(t *testing.T) {
		svc, err := lightnovel.New(
			lightnovel.WithRepository(memory.New()),
			lightnovel.WithArchiver(lightnovel.NewArchiver(failingStore{}, testBucket, nil)),
		)
		require.NoError(t, err)

		novel, err := svc.CreateNovel(ctx, lightnovel.CreateNovelRequest{
			Title:      "Slime",
			Author:     "Fuse",
			CoverImage: coverURL("novel-covers/old.png"),
		})
		require.NoError(t, err)

		updated, err := svc.UpdateNovel(ctx, novel.ID, lightnovel.UpdateNovelRequest{
			Title:      "Slime",
			Author:     "Fuse",
			CoverImage: coverURL("novel-covers/new.png"),
		})
		require.NoError(t, err)
		assert.Equal(t, coverURL("novel-covers/new.png"), updated.CoverImage)
	})
}

func TestDeleteNovel(t *testing.T) {
	ctx := context.Background()
	svc, store := setupCatalog(t)

	uploadCover(t, store, "novel-covers/del.png")
	genre, err := svc.CreateGenre(ctx, lightnovel.GenreRequest{Name: "Drama"})
	require.NoError(t, err)

	novel, err := svc.CreateNovel(ctx, lightnovel.CreateNovelRequest{
		Title:      "Torture Princess",
		Author:     "Keishi Ayasato",
		CoverImage: coverURL("novel-covers/del.png"),
		GenreIDs:   []int64{genre.ID},
	})
	require.NoError(t, err)

	chapter, err := svc.CreateChapter(ctx, lightnovel.CreateChapterRequest{
		Number:  1,
		Title:   "Prologue",
		Content: "Once upon a time",
		NovelID: novel.ID,
	})
	require.NoError(t, err)

	snapshot, err := svc.DeleteNovel(ctx, novel.ID)
	require.NoError(t, err)

	// Snapshot carries the related collections as they were.
	assert.Equal(t, novel.ID, snapshot.ID)
	require.Len(t, snapshot.Chapters, 1)
	assert.Equal(t, chapter.ID, snapshot.Chapters[0].ID)
	require.Len(t, snapshot.Genres, 1)

	// Novel, chapters and cover are gone; the genre survives.
	_, err = svc.Novel(ctx, novel.ID)
	assert.ErrorIs(t, err, lightnovel.ErrNovelNotFound)
	_, err = svc.Chapter(ctx, chapter.ID)
	assert.ErrorIs(t, err, lightnovel.ErrChapterNotFound)
	_, err = store.Download(ctx, "novel-covers/del.png")
	assert.Error(t, err)
	require.Len(t, store.copies, 1)

	survivor, err := svc.Genre(ctx, genre.ID)
	require.NoError(t, err)
	assert.Empty(t, survivor.Novels)
}

func TestNotFoundErrorsAreDistinct(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupCatalog(t)

	_, novelErr := svc.Novel(ctx, 404)
	_, chapterErr := svc.Chapter(ctx, 404)
	_, genreErr := svc.Genre(ctx, 404)

	assert.ErrorIs(t, novelErr, lightnovel.ErrNovelNotFound)
	assert.ErrorIs(t, chapterErr, lightnovel.ErrChapterNotFound)
	assert.ErrorIs(t, genreErr, lightnovel.ErrGenreNotFound)

	assert.NotErrorIs(t, novelErr, lightnovel.ErrChapterNotFound)
	assert.NotErrorIs(t, chapterErr, lightnovel.ErrGenreNotFound)
	assert.NotErrorIs(t, genreErr, lightnovel.ErrNovelNotFound)

	// Mutations against unknown ids surface the same sentinels.
	_, err := svc.UpdateNovel(ctx, 404, lightnovel.UpdateNovelRequest{Title: "T", Author: "A"})
	assert.ErrorIs(t, err, lightnovel.ErrNovelNotFound)
	_, err = svc.DeleteChapter(ctx, 404)
	assert.ErrorIs(t, err, lightnovel.ErrChapterNotFound)
	_, err = svc.UpdateGenre(ctx, 404, lightnovel.GenreRequest{Name: "X"})
	assert.ErrorIs(t, err, lightnovel.ErrGenreNotFound)
}

func TestChapterLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupCatalog(t)

	novel, err := svc.CreateNovel(ctx, lightnovel.CreateNovelRequest{
		Title:  "Spice and Wolf",
		Author: "Isuna Hasekura",
	})
	require.NoError(t, err)

	t.Run("create requires an existing novel", func(t *testing.T) {
		_, err := svc.CreateChapter(ctx, lightnovel.CreateChapterRequest{
			Number:  1,
			Title:   "Orphan",
			Content: "text",
			NovelID: 404,
		})
		assert.ErrorIs(t, err, lightnovel.ErrNovelNotFound)
	})

	t.Run("chapters come back ordered by number", func(t *testing.T) {
		for _, n := range []float64{3, 1, 2.5, 2} {
			_, err := svc.CreateChapter(ctx, lightnovel.CreateChapterRequest{
				Number:  n,
				Title:   "Chapter",
				Content: "text",
				NovelID: novel.ID,
			})
			require.NoError(t, err)
		}

		chapters, err := svc.Chapters(ctx, novel.ID)
		require.NoError(t, err)
		require.Len(t, chapters, 4)

		numbers := make([]float64, 0, len(chapters))
		for _, c := range chapters {
			numbers = append(numbers, c.Number)
		}
		assert.Equal(t, []float64{1, 2, 2.5, 3}, numbers)
	})

	t.Run("update keeps the chapter on its novel", func(t *testing.T) {
		chapter, err := svc.CreateChapter(ctx, lightnovel.CreateChapterRequest{
			Number:  10,
			Title:   "Before",
			Content: "old",
			NovelID: novel.ID,
		})
		require.NoError(t, err)

		updated, err := svc.UpdateChapter(ctx, chapter.ID, lightnovel.UpdateChapterRequest{
			Number:  11,
			Title:   "After",
			Content: "new",
		})
		require.NoError(t, err)
		assert.Equal(t, novel.ID, updated.NovelID)
		assert.Equal(t, "After", updated.Title)
		assert.Equal(t, float64(11), updated.Number)
	})

	t.Run("delete returns the pre-deletion snapshot", func(t *testing.T) {
		chapter, err := svc.CreateChapter(ctx, lightnovel.CreateChapterRequest{
			Number:  20,
			Title:   "Doomed",
			Content: "gone",
			NovelID: novel.ID,
		})
		require.NoError(t, err)

		snapshot, err := svc.DeleteChapter(ctx, chapter.ID)
		require.NoError(t, err)
		assert.Equal(t, "Doomed", snapshot.Title)

		_, err = svc.Chapter(ctx, chapter.ID)
		assert.ErrorIs(t, err, lightnovel.ErrChapterNotFound)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		_, err := svc.CreateChapter(ctx, lightnovel.CreateChapterRequest{
			Number:  1,
			Content: "text",
			NovelID: novel.ID,
		})
		var validationErr *lightnovel.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})
}

func TestGenreLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupCatalog(t)

	t.Run("duplicate name rejected", func(t *testing.T) {
		_, err := svc.CreateGenre(ctx, lightnovel.GenreRequest{Name: "Romance"})
		require.NoError(t, err)

		_, err = svc.CreateGenre(ctx, lightnovel.GenreRequest{Name: "Romance"})
		assert.ErrorIs(t, err, lightnovel.ErrGenreNameExists)
	})

	t.Run("rename", func(t *testing.T) {
		genre, err := svc.CreateGenre(ctx, lightnovel.GenreRequest{Name: "SciFi"})
		require.NoError(t, err)

		renamed, err := svc.UpdateGenre(ctx, genre.ID, lightnovel.GenreRequest{Name: "Science Fiction"})
		require.NoError(t, err)
		assert.Equal(t, "Science Fiction", renamed.Name)
	})

	t.Run("delete severs relations but keeps novels", func(t *testing.T) {
		genre, err := svc.CreateGenre(ctx, lightnovel.GenreRequest{Name: "Mecha"})
		require.NoError(t, err)

		novel, err := svc.CreateNovel(ctx, lightnovel.CreateNovelRequest{
			Title:    "86",
			Author:   "Asato Asato",
			GenreIDs: []int64{genre.ID},
		})
		require.NoError(t, err)

		snapshot, err := svc.DeleteGenre(ctx, genre.ID)
		require.NoError(t, err)
		require.Len(t, snapshot.Novels, 1)

		survivor, err := svc.Novel(ctx, novel.ID)
		require.NoError(t, err)
		assert.Empty(t, survivor.Genres)
	})
}

func TestRetireImage(t *testing.T) {
	ctx := context.Background()
	svc, store := setupCatalog(t)

	uploadCover(t, store, "novel-covers/stray.png")

	assert.True(t, svc.RetireImage(ctx, coverURL("novel-covers/stray.png")))
	assert.False(t, svc.RetireImage(ctx, coverURL("novel-covers/stray.png")), "second retire finds nothing")
	assert.False(t, svc.RetireImage(ctx, ""))
	assert.False(t, svc.RetireImage(ctx, "https://elsewhere.example/foo.png"))
}

func TestNovelsListAttachesRelations(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupCatalog(t)

	genre, err := svc.CreateGenre(ctx, lightnovel.GenreRequest{Name: "Adventure"})
	require.NoError(t, err)

	novel, err := svc.CreateNovel(ctx, lightnovel.CreateNovelRequest{
		Title:    "Kino's Journey",
		Author:   "Keiichi Sigsawa",
		GenreIDs: []int64{genre.ID},
	})
	require.NoError(t, err)

	_, err = svc.CreateChapter(ctx, lightnovel.CreateChapterRequest{
		Number:  1,
		Title:   "The Land of Visible Pain",
		Content: "text",
		NovelID: novel.ID,
	})
	require.NoError(t, err)

	novels, err := svc.Novels(ctx)
	require.NoError(t, err)
	require.Len(t, novels, 1)
	assert.Len(t, novels[0].Chapters, 1)
	assert.Len(t, novels[0].Genres, 1)

	genres, err := svc.Genres(ctx)
	require.NoError(t, err)
	require.Len(t, genres, 1)
	assert.Len(t, genres[0].Novels, 1)
}
