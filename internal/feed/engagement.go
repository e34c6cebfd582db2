package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/models"
)

// MaxCommentLength bounds the text of a single comment, in runes.
const MaxCommentLength = 500

// ErrInvalidInput indicates a malformed like or comment request.
var ErrInvalidInput = errors.New("invalid engagement input")

// EngagementStore persists likes and comments.
type EngagementStore interface {
	ToggleLike(ctx context.Context, videoID, userID string) (bool, int, error)
	AddComment(ctx context.Context, comment models.Comment) error
	ListComments(ctx context.Context, videoID string) ([]models.Comment, error)
}

// ProfileFinder loads public profiles.
type ProfileFinder interface {
	FindByID(ctx context.Context, userID string) (models.UserProfile, error)
}

// EngagementService validates like, comment and profile requests before they reach storage.
type EngagementService struct {
	Store    EngagementStore
	Profiles ProfileFinder
	NowFunc  func() time.Time
}

// ToggleLike flips the viewer's like and returns the new state and count.
func (s *EngagementService) ToggleLike(ctx context.Context, videoID, userID string) (bool, int, error) {
	videoID, userID = strings.TrimSpace(videoID), strings.TrimSpace(userID)
	if videoID == "" || userID == "" {
		return false, 0, fmt.Errorf("%w: videoId and userId are required", ErrInvalidInput)
	}
	return s.Store.ToggleLike(ctx, videoID, userID)
}

// AddComment stores a new comment and returns it with its generated id.
func (s *EngagementService) AddComment(ctx context.Context, videoID, userID, text string) (models.Comment, error) {
	text = strings.TrimSpace(text)
	switch {
	case strings.TrimSpace(videoID) == "" || strings.TrimSpace(userID) == "":
		return models.Comment{}, fmt.Errorf("%w: videoId and userId are required", ErrInvalidInput)
	case text == "":
		return models.Comment{}, fmt.Errorf("%w: comment text is required", ErrInvalidInput)
	case utf8.RuneCountInString(text) > MaxCommentLength:
		return models.Comment{}, fmt.Errorf("%w: comment exceeds %d characters", ErrInvalidInput, MaxCommentLength)
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		VideoID:   strings.TrimSpace(videoID),
		UserID:    strings.TrimSpace(userID),
		Text:      text,
		CreatedAt: s.now(),
	}
	if err := s.Store.AddComment(ctx, comment); err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

// ListComments returns the newest comments on a video.
func (s *EngagementService) ListComments(ctx context.Context, videoID string) ([]models.Comment, error) {
	if strings.TrimSpace(videoID) == "" {
		return nil, fmt.Errorf("%w: videoId is required", ErrInvalidInput)
	}
	comments, err := s.Store.ListComments(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

// FindProfile loads a user's public profile.
func (s *EngagementService) FindProfile(ctx context.Context, userID string) (models.UserProfile, error) {
	if strings.TrimSpace(userID) == "" {
		return models.UserProfile{}, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}
	return s.Profiles.FindByID(ctx, userID)
}

func (s *EngagementService) now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc()
	}
	return time.Now().UTC()
}
