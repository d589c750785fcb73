package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/texttube/internal/models"
	"github.com/desertthunder/texttube/internal/shared"
)

const videoColumns = `
	id, sequence, title, channel_name, channel_thumbnail_url, thumbnail_url, original_url,
	summary, detailed_script, duration, published_at, view_count, created_at, updated_at, deleted_at
`

var videoOrderBy = map[models.SortOrder]string{
	models.SortNewest:     "created_at DESC, sequence DESC",
	models.SortOldest:     "created_at ASC, sequence ASC",
	models.SortMostViewed: "view_count DESC, created_at DESC",
}

// VideoRepository implements [models.Repository] for [models.Video] persistence.
type VideoRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.Video] = (*VideoRepository)(nil)

// NewVideoRepository creates a new [VideoRepository] with the given database connection
func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create inserts a new video with a generated ID and sequence
func (r *VideoRepository) Create(video *models.Video) error {
	sequence, err := NextSequence(r.db, "videos")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	video.SetID(id)
	video.SetSequence(sequence)

	if err := video.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO videos (
			id, sequence, title, channel_name, channel_thumbnail_url, thumbnail_url, original_url,
			summary, detailed_script, duration, published_at, view_count, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		video.Title(),
		video.ChannelName(),
		video.ChannelThumbnailURL(),
		video.ThumbnailURL(),
		video.OriginalURL(),
		video.Summary(),
		video.DetailedScript(),
		video.Duration(),
		nullableTime(video.PublishedAt()),
		video.ViewCount(),
		video.CreatedAt().UTC(),
		video.UpdatedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}

	return nil
}

// Get retrieves a video by ID, excluding soft-deleted videos
func (r *VideoRepository) Get(id string) (*models.Video, error) {
	query := "SELECT" + videoColumns + "FROM videos WHERE id = ? AND deleted_at IS NULL"

	video, err := scanVideo(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrVideoNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query video: %w", err)
	}

	return video, nil
}

// Update writes the editable fields of an existing video. The view count is left alone.
func (r *VideoRepository) Update(video *models.Video) error {
	if err := video.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	video.SetUpdatedAt(now)

	query := `
		UPDATE videos
		SET title = ?, channel_name = ?, channel_thumbnail_url = ?, thumbnail_url = ?, original_url = ?,
			summary = ?, detailed_script = ?, duration = ?, published_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		video.Title(),
		video.ChannelName(),
		video.ChannelThumbnailURL(),
		video.ThumbnailURL(),
		video.OriginalURL(),
		video.Summary(),
		video.DetailedScript(),
		video.Duration(),
		nullableTime(video.PublishedAt()),
		now,
		video.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}

	return expectRow(result, shared.ErrVideoNotFound, video.ID())
}

// Delete soft-deletes a video by ID
func (r *VideoRepository) Delete(id string) error {
	query := `
		UPDATE videos
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}

	return expectRow(result, shared.ErrVideoNotFound, id)
}

// List retrieves videos matching the given criteria, newest first.
//
// Recognized criteria: "channel_name" (string) and "limit" (int).
func (r *VideoRepository) List(criteria map[string]any) ([]*models.Video, error) {
	q := models.VideoQuery{Sort: models.SortNewest}
	if channel, ok := criteria["channel_name"].(string); ok {
		q.Channel = channel
	}
	if limit, ok := criteria["limit"].(int); ok {
		q.Limit = limit
	}
	return r.Search(q)
}

// Search lists videos whose title or channel name contains q.Query, ordered by q.Sort.
//
// Matching ignores case in any script. LIKE wildcards in the query are matched literally. An unknown sort falls back to newest first.
func (r *VideoRepository) Search(q models.VideoQuery) ([]*models.Video, error) {
	query := "SELECT" + videoColumns + "FROM videos WHERE deleted_at IS NULL"
	args := []any{}

	if term := strings.TrimSpace(q.Query); term != "" {
		query += ` AND (casefold(title) LIKE ? ESCAPE '\' OR casefold(channel_name) LIKE ? ESCAPE '\')`
		pattern := likePattern(strings.ToLower(term))
		args = append(args, pattern, pattern)
	}

	if channel := strings.TrimSpace(q.Channel); channel != "" {
		query += " AND channel_name = ?"
		args = append(args, channel)
	}

	query += " ORDER BY " + videoOrderBy[models.ParseSortOrder(string(q.Sort))]

	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	var videos []*models.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return videos, nil
}

// Channels returns the distinct channel names of live videos, alphabetically.
func (r *VideoRepository) Channels() ([]string, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT channel_name
		FROM videos
		WHERE deleted_at IS NULL
		ORDER BY channel_name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query channels: %w", err)
	}
	defer rows.Close()

	var channels []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan channel: %w", err)
		}
		channels = append(channels, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return channels, nil
}

// IncrementViewCount adds one view in a single statement and returns the new count.
func (r *VideoRepository) IncrementViewCount(id string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		UPDATE videos
		SET view_count = view_count + 1
		WHERE id = ? AND deleted_at IS NULL
		RETURNING view_count
	`, id).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: %s", shared.ErrVideoNotFound, id)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment view count: %w", err)
	}

	return count, nil
}

// Count returns the number of live videos.
func (r *VideoRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM videos WHERE deleted_at IS NULL").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count videos: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (*models.Video, error) {
	var (
		id, title, channelName, channelThumbnailURL string
		thumbnailURL, originalURL, summary, script  string
		duration                                    string
		sequence, viewCount                         int
		publishedAt, deletedAt                      sql.NullTime
		createdAt, updatedAt                        time.Time
	)

	err := row.Scan(
		&id, &sequence, &title, &channelName, &channelThumbnailURL, &thumbnailURL, &originalURL,
		&summary, &script, &duration, &publishedAt, &viewCount, &createdAt, &updatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	video := models.NewVideo(sequence, models.VideoInput{
		Title:               title,
		ChannelName:         channelName,
		ChannelThumbnailURL: channelThumbnailURL,
		ThumbnailURL:        thumbnailURL,
		OriginalURL:         originalURL,
		Summary:             summary,
		DetailedScript:      script,
		Duration:            duration,
		ViewCount:           viewCount,
	})
	video.SetID(id)
	video.SetCreatedAt(createdAt)
	video.SetUpdatedAt(updatedAt)
	if publishedAt.Valid {
		t := publishedAt.Time.UTC()
		video.SetPublishedAt(&t)
	}
	if deletedAt.Valid {
		video.SetDeletedAt(&deletedAt.Time)
	}

	return video, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// expectRow turns a zero-row write into a wrapped not-found error.
func expectRow(result sql.Result, notFound error, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", notFound, id)
	}
	return nil
}
