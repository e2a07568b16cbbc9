package lightnovel

import "time"

// NovelStatus is the domain type for novel publication states.
type NovelStatus string

// Novel status constants (typed).
const (
	StatusOngoing   NovelStatus = "Ongoing"
	StatusCompleted NovelStatus = "Completed"
	StatusHiatus    NovelStatus = "Hiatus"
)

// IsValid reports whether the status is one of the known publication states.
func (s NovelStatus) IsValid() bool {
	switch s {
	case StatusOngoing, StatusCompleted, StatusHiatus:
		return true
	}
	return false
}

// Novel represents a serialized written work. CoverImage, when set, is an
// externally-facing URL of a blob in the configured storage backend; its
// lifecycle is managed by the Archiver, not the database.
type Novel struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	CoverImage  string      `json:"cover_image,omitempty"`
	Author      string      `json:"author"`
	Status      NovelStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	// Related collections (populated by the service layer, not persisted on
	// the novel row itself).
	Chapters []*Chapter `json:"chapters"`
	Genres   []*Genre   `json:"genres"`
}

// Chapter belongs to exactly one novel for its lifetime. Number is the
// ordering key within the novel; it is not required to be unique.
type Chapter struct {
	ID        int64     `json:"id"`
	Number    float64   `json:"number"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	NovelID   int64     `json:"novel_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Genre is a named tag with a unique name, related many-to-many with novels.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`

	// Populated by the service layer on genre reads.
	Novels []*Novel `json:"novels,omitempty"`
}
