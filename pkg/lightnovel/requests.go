package lightnovel

// Request DTOs

// CreateNovelRequest contains parameters for creating a novel. Status
// defaults to Ongoing when empty. A nil GenreIDs leaves the genre set
// untouched; an empty non-nil slice clears it.
type CreateNovelRequest struct {
	Title       string
	Description string
	CoverImage  string
	Author      string
	Status      NovelStatus
	GenreIDs    []int64
}

// UpdateNovelRequest contains parameters for updating a novel. The same
// nil-vs-empty GenreIDs convention as CreateNovelRequest applies.
type UpdateNovelRequest struct {
	Title       string
	Description string
	CoverImage  string
	Author      string
	Status      NovelStatus
	GenreIDs    []int64
}

// CreateChapterRequest contains parameters for creating a chapter
type CreateChapterRequest struct {
	Number  float64
	Title   string
	Content string
	NovelID int64
}

// UpdateChapterRequest contains parameters for updating a chapter. The
// chapter stays parented to its original novel; NovelID is not accepted.
type UpdateChapterRequest struct {
	Number  float64
	Title   string
	Content string
}

// GenreRequest contains parameters for creating or renaming a genre
type GenreRequest struct {
	Name string
}
