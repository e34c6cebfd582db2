package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/models"
)

// boxLister filters an in-memory catalogue the way the database query does.
type boxLister struct {
	posts  []models.VideoPost
	err    error
	viewer string
}

func (l *boxLister) ListInBounds(ctx context.Context, box models.BoundingBox, viewerID string) ([]models.VideoPost, error) {
	l.viewer = viewerID
	if l.err != nil {
		return nil, l.err
	}
	var out []models.VideoPost
	for _, p := range l.posts {
		if p.Location != nil && box.Contains(p.Location.Latitude, p.Location.Longitude) {
			out = append(out, p)
		}
	}
	return out, nil
}

func post(id string, lat float64, status models.ModerationStatus) models.VideoPost {
	return models.VideoPost{
		ID:               id,
		Location:         &models.Location{Latitude: lat, Longitude: 5, Privacy: models.PrivacyExact},
		ModerationStatus: status,
	}
}

func TestVideosInBoundsReturnsApprovedInsideBox(t *testing.T) {
	lister := &boxLister{posts: []models.VideoPost{
		post("inside", 5, models.ModerationApproved),
		post("outside", 15, models.ModerationApproved),
		post("pending", 5, models.ModerationPending),
		post("edge", 10, models.ModerationApproved),
	}}
	svc := &MapService{Videos: lister}

	got := svc.VideosInBounds(context.Background(), models.BoundingBox{MinLat: 0, MaxLat: 10, MinLng: 0, MaxLng: 10}, "viewer-1")

	ids := make([]string, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{"inside", "edge"}, ids)
	assert.Equal(t, "viewer-1", lister.viewer)
}

func TestVideosInBoundsErrorYieldsEmpty(t *testing.T) {
	svc := &MapService{Videos: &boxLister{err: errors.New("connection refused")}}

	got := svc.VideosInBounds(context.Background(), models.BoundingBox{MaxLat: 1, MaxLng: 1}, "")

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestVideosInBoundsCoarsensLocation(t *testing.T) {
	p := post("coarse", 5.0123, models.ModerationApproved)
	p.Location.Privacy = models.Privacy10km
	svc := &MapService{Videos: &boxLister{posts: []models.VideoPost{p}}}

	got := svc.VideosInBounds(context.Background(), models.BoundingBox{MinLat: 0, MaxLat: 10, MinLng: 0, MaxLng: 10}, "")

	require.Len(t, got, 1)
	assert.Equal(t, p.Location.Display(), *got[0].Location)
	assert.Equal(t, 5.0123, p.Location.Latitude, "source post must not be mutated")
}

func TestVideosInBoundsNilService(t *testing.T) {
	var svc *MapService
	assert.Empty(t, svc.VideosInBounds(context.Background(), models.BoundingBox{}, ""))
}
