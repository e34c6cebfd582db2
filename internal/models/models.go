package models

import "time"

// ModerationStatus is the lifecycle tag produced by automated review.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
	ModerationFlagged  ModerationStatus = "flagged"
)

// Valid reports whether s is one of the known moderation states.
func (s ModerationStatus) Valid() bool {
	switch s {
	case ModerationPending, ModerationApproved, ModerationRejected, ModerationFlagged:
		return true
	}
	return false
}

// ModerationResult is the structured outcome reported by the moderation worker.
type ModerationResult struct {
	Safe              bool               `json:"safe"`
	Scores            map[string]float64 `json:"scores,omitempty"`
	FlaggedCategories []string           `json:"flaggedCategories,omitempty"`
}

// VideoPost is a short location-tagged video shared by a user.
type VideoPost struct {
	ID               string            `json:"id"`
	UserID           string            `json:"userId"`
	VideoURL         string            `json:"videoUrl"`
	ThumbnailURL     string            `json:"thumbnailUrl,omitempty"`
	Caption          string            `json:"caption"`
	Tags             []string          `json:"tags"`
	Location         *Location         `json:"location,omitempty"`
	Likes            int               `json:"likes"`
	Comments         int               `json:"comments"`
	Shares           int               `json:"shares"`
	Views            int               `json:"views"`
	LikedByViewer    bool              `json:"isLiked"`
	CreatedAt        time.Time         `json:"createdAt"`
	DurationSeconds  *float64          `json:"duration,omitempty"`
	ModerationStatus ModerationStatus  `json:"moderationStatus"`
	ModerationResult *ModerationResult `json:"moderationResult,omitempty"`
}

// UserProfile is the public profile of a POPNOW user.
type UserProfile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	TotalLikes  int    `json:"totalLikes"`
	VideoCount  int    `json:"videoCount"`
}

// Comment is a user's text reply on a video.
type Comment struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"videoId"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	Likes     int       `json:"likes"`
}

// Notification is an in-app message addressed to a single user.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	Read      bool      `json:"read"`
}

// NotificationAvatarRejected marks notifications sent after an avatar fails moderation.
const NotificationAvatarRejected = "avatar_rejected"
