package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/db"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/models"
)

// PostgresEngagementRepository persists likes and comments.
type PostgresEngagementRepository struct {
	pool db.Pool
}

// NewPostgresEngagementRepository constructs an engagement repository backed by PostgreSQL.
func NewPostgresEngagementRepository(pool db.Pool) *PostgresEngagementRepository {
	return &PostgresEngagementRepository{pool: pool}
}

// ToggleLike flips the like of userID on videoID and returns the new state and like count.
func (r *PostgresEngagementRepository) ToggleLike(ctx context.Context, videoID, userID string) (bool, int, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, 0, fmt.Errorf("begin like transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `DELETE FROM video_likes WHERE video_id = $1 AND user_id = $2`, videoID, userID)
	if err != nil {
		return false, 0, fmt.Errorf("delete like: %w", err)
	}

	liked := tag.RowsAffected() == 0
	delta := -1
	if liked {
		if _, err := tx.Exec(ctx, `INSERT INTO video_likes (video_id, user_id) VALUES ($1, $2)`, videoID, userID); err != nil {
			return false, 0, mapWriteError("insert like", err)
		}
		delta = 1
	}

	var likes int
	err = tx.QueryRow(ctx, `
        UPDATE videos
        SET likes_count = GREATEST(likes_count + $2, 0)
        WHERE id = $1
        RETURNING likes_count
    `, videoID, delta).Scan(&likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, 0, ErrNotFound
		}
		return false, 0, fmt.Errorf("update like count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, 0, fmt.Errorf("commit like: %w", err)
	}

	return liked, likes, nil
}

// AddComment stores a comment and bumps the video's comment counter.
func (r *PostgresEngagementRepository) AddComment(ctx context.Context, comment models.Comment) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin comment transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
        INSERT INTO comments (id, video_id, user_id, text, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `, comment.ID, comment.VideoID, comment.UserID, comment.Text, comment.CreatedAt); err != nil {
		return mapWriteError("insert comment", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE videos SET comments_count = comments_count + 1 WHERE id = $1`, comment.VideoID); err != nil {
		return fmt.Errorf("update comment count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit comment: %w", err)
	}

	return nil
}

// ListComments returns the newest comments on a video.
func (r *PostgresEngagementRepository) ListComments(ctx context.Context, videoID string) ([]models.Comment, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT id, video_id, user_id, text, likes_count, created_at
        FROM comments
        WHERE video_id = $1
        ORDER BY created_at DESC
        LIMIT 100
    `, videoID)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.VideoID, &c.UserID, &c.Text, &c.Likes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.CreatedAt = c.CreatedAt.UTC()
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

var _ EngagementRepository = (*PostgresEngagementRepository)(nil)
