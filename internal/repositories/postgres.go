package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/db"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/models"
)

const videoColumns = `id, user_id, video_url, thumbnail_url, caption, tags, latitude, longitude,
        location_name, location_privacy, likes_count, comments_count, shares_count, views_count,
        duration_seconds, moderation_status, moderation_result, created_at`

// PostgresVideoRepository provides PostgreSQL-backed persistence for video posts.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// Create stores a new video post. The moderation status is always written as pending,
// whatever the caller set.
func (r *PostgresVideoRepository) Create(ctx context.Context, post models.VideoPost) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}

	var (
		lat, lng *float64
		name     string
		privacy  = string(models.PrivacyExact)
	)
	if post.Location != nil {
		lat, lng = &post.Location.Latitude, &post.Location.Longitude
		name = post.Location.Name
		if post.Location.Privacy != "" {
			privacy = string(post.Location.Privacy)
		}
	}

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (id, user_id, video_url, thumbnail_url, caption, tags, latitude, longitude,
            location_name, location_privacy, duration_seconds, moderation_status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `, post.ID, post.UserID, post.VideoURL, post.ThumbnailURL, post.Caption, tags, lat, lng,
		name, privacy, post.DurationSeconds, string(models.ModerationPending), post.CreatedAt)
	if err != nil {
		return mapWriteError("insert video", err)
	}

	return nil
}

// ListInBounds returns approved videos located inside the box, bounds inclusive.
// viewerID, when set, fills LikedByViewer.
func (r *PostgresVideoRepository) ListInBounds(ctx context.Context, box models.BoundingBox, viewerID string) ([]models.VideoPost, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+videoColumns+`,
            EXISTS (SELECT 1 FROM video_likes l WHERE l.video_id = videos.id AND l.user_id = $6) AS liked
        FROM videos
        WHERE moderation_status = $5
          AND latitude BETWEEN $1 AND $2
          AND longitude BETWEEN $3 AND $4
        ORDER BY created_at DESC
        LIMIT 500
    `, box.MinLat, box.MaxLat, box.MinLng, box.MaxLng, string(models.ModerationApproved), viewerID)
	if err != nil {
		return nil, fmt.Errorf("query videos in bounds: %w", err)
	}
	defer rows.Close()

	var posts []models.VideoPost
	for rows.Next() {
		var liked bool
		post, err := scanVideo(rows, &liked)
		if err != nil {
			return nil, err
		}
		post.LikedByViewer = liked
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos in bounds: %w", err)
	}

	return posts, nil
}

// UpdateModeration records the outcome of the moderation workflow for a video.
func (r *PostgresVideoRepository) UpdateModeration(ctx context.Context, videoID string, status models.ModerationStatus, result *models.ModerationResult) error {
	if !status.Valid() {
		return fmt.Errorf("update moderation: unknown status %q", status)
	}

	var raw []byte
	if result != nil {
		encoded, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("encode moderation result: %w", err)
		}
		raw = encoded
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos
        SET moderation_status = $2, moderation_result = $3
        WHERE id = $1
    `, videoID, string(status), raw)
	if err != nil {
		return fmt.Errorf("update video moderation: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Search delegates to the search_videos database procedure.
func (r *PostgresVideoRepository) Search(ctx context.Context, query string) ([]models.VideoPost, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `SELECT `+videoColumns+` FROM search_videos($1)`, query)
	if err != nil {
		return nil, fmt.Errorf("call search_videos: %w", err)
	}
	defer rows.Close()

	var posts []models.VideoPost
	for rows.Next() {
		post, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search_videos: %w", err)
	}

	return posts, nil
}

func scanVideo(rows pgx.Rows, extra ...any) (models.VideoPost, error) {
	var (
		post     models.VideoPost
		lat, lng *float64
		name     string
		privacy  string
		status   string
		result   []byte
	)

	dest := []any{
		&post.ID, &post.UserID, &post.VideoURL, &post.ThumbnailURL, &post.Caption, &post.Tags,
		&lat, &lng, &name, &privacy, &post.Likes, &post.Comments, &post.Shares, &post.Views,
		&post.DurationSeconds, &status, &result, &post.CreatedAt,
	}
	dest = append(dest, extra...)

	if err := rows.Scan(dest...); err != nil {
		return models.VideoPost{}, fmt.Errorf("scan video: %w", err)
	}

	post.ModerationStatus = models.ModerationStatus(status)
	if lat != nil && lng != nil {
		post.Location = &models.Location{
			Latitude:  *lat,
			Longitude: *lng,
			Name:      name,
			Privacy:   models.PrivacyTier(privacy),
		}
	}
	if len(result) > 0 {
		var decoded models.ModerationResult
		if err := json.Unmarshal(result, &decoded); err != nil {
			return models.VideoPost{}, fmt.Errorf("decode moderation result: %w", err)
		}
		post.ModerationResult = &decoded
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	post.CreatedAt = post.CreatedAt.UTC()

	return post, nil
}

// PostgresProfileRepository provides PostgreSQL-backed access to user profiles.
type PostgresProfileRepository struct {
	pool db.Pool
}

// NewPostgresProfileRepository constructs a profile repository backed by PostgreSQL.
func NewPostgresProfileRepository(pool db.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

const profileColumns = `p.id, p.username, p.display_name, p.bio, p.avatar_url, p.followers_count, p.following_count,
        COALESCE((SELECT SUM(v.likes_count) FROM videos v WHERE v.user_id = p.id), 0)::INT AS total_likes,
        (SELECT COUNT(*) FROM videos v WHERE v.user_id = p.id)::INT AS video_count`

// FindByID loads a profile together with its aggregate counters.
func (r *PostgresProfileRepository) FindByID(ctx context.Context, userID string) (models.UserProfile, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles p WHERE p.id = $1`, userID)

	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.UserProfile{}, ErrNotFound
		}
		return models.UserProfile{}, fmt.Errorf("select profile: %w", err)
	}

	return profile, nil
}

// ClearAvatar resets the avatar field of a profile to empty.
func (r *PostgresProfileRepository) ClearAvatar(ctx context.Context, userID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `UPDATE profiles SET avatar_url = '' WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("clear avatar: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Search delegates to the search_users database procedure.
func (r *PostgresProfileRepository) Search(ctx context.Context, query string) ([]models.UserProfile, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `SELECT `+profileColumns+` FROM search_users($1) p`, query)
	if err != nil {
		return nil, fmt.Errorf("call search_users: %w", err)
	}
	defer rows.Close()

	var profiles []models.UserProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search_users: %w", err)
	}

	return profiles, nil
}

func scanProfile(row pgx.Row) (models.UserProfile, error) {
	var p models.UserProfile
	err := row.Scan(&p.ID, &p.Username, &p.DisplayName, &p.Bio, &p.AvatarURL, &p.Followers, &p.Following, &p.TotalLikes, &p.VideoCount)
	return p, err
}

// PostgresNotificationRepository stores notifications in PostgreSQL.
type PostgresNotificationRepository struct {
	pool db.Pool
}

// NewPostgresNotificationRepository constructs a notification repository backed by PostgreSQL.
func NewPostgresNotificationRepository(pool db.Pool) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{pool: pool}
}

// Create inserts a notification row.
func (r *PostgresNotificationRepository) Create(ctx context.Context, n models.Notification) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO notifications (id, user_id, type, title, message, read, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, n.ID, n.UserID, n.Type, n.Title, n.Message, n.Read, n.CreatedAt)
	if err != nil {
		return mapWriteError("insert notification", err)
	}

	return nil
}

func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrConflict
		case "23503":
			return ErrNotFound
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ VideoRepository = (*PostgresVideoRepository)(nil)
var _ ProfileRepository = (*PostgresProfileRepository)(nil)
var _ NotificationRepository = (*PostgresNotificationRepository)(nil)
