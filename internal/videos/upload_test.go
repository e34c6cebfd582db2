package videos

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/models"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/moderation"
)

type storageStub struct {
	key         string
	contentType string
	data        []byte
	err         error
}

func (s *storageStub) Save(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.key, s.contentType, s.data = key, contentType, data
	return "https://cdn.example.com/" + key, nil
}

type creatorStub struct {
	posts []models.VideoPost
	err   error
}

func (c *creatorStub) Create(ctx context.Context, post models.VideoPost) error {
	c.posts = append(c.posts, post)
	return c.err
}

type queueStub struct {
	reqs []moderation.VideoModerationRequest
	err  error
}

func (q *queueStub) Enqueue(ctx context.Context, req moderation.VideoModerationRequest) error {
	q.reqs = append(q.reqs, req)
	return q.err
}

type uploadFixture struct {
	storage  *storageStub
	videos   *creatorStub
	queue    *queueStub
	uploader *Uploader
}

func newUploadFixture() *uploadFixture {
	f := &uploadFixture{storage: &storageStub{}, videos: &creatorStub{}, queue: &queueStub{}}
	f.uploader = &Uploader{
		Storage:    f.storage,
		Videos:     f.videos,
		Moderation: f.queue,
		NowFunc:    func() time.Time { return time.UnixMilli(1700000000123).UTC() },
		NewID:      func() string { return "video-1" },
	}
	return f
}

func TestUploaderUploadSuccess(t *testing.T) {
	f := newUploadFixture()
	duration := 12.5

	result := f.uploader.Upload(context.Background(), UploadRequest{
		UserID:          "user-1",
		File:            bytes.NewBufferString("mp4-bytes"),
		Caption:         "  sunset  ",
		Tags:            []string{"#Sunset", "sunset", " pier ", ""},
		Location:        &models.Location{Latitude: 37.8, Longitude: -122.4, Name: "Pier 39"},
		DurationSeconds: &duration,
	})

	require.NoError(t, result.Err)
	assert.True(t, result.Success)
	assert.Equal(t, "video-1", result.VideoID)
	assert.Equal(t, "videos/user-1/1700000000123.mp4", f.storage.key)
	assert.Equal(t, []byte("mp4-bytes"), f.storage.data)

	require.Len(t, f.videos.posts, 1)
	post := f.videos.posts[0]
	assert.Equal(t, models.ModerationPending, post.ModerationStatus)
	assert.Equal(t, "https://cdn.example.com/videos/user-1/1700000000123.mp4", post.VideoURL)
	assert.Equal(t, "sunset", post.Caption)
	assert.Equal(t, []string{"sunset", "pier"}, post.Tags)
	assert.Equal(t, models.PrivacyExact, post.Location.Privacy)

	require.Len(t, f.queue.reqs, 1)
	assert.Equal(t, moderation.VideoModerationRequest{
		VideoID:  "video-1",
		VideoURL: post.VideoURL,
		UserID:   "user-1",
	}, f.queue.reqs[0])
}

func TestUploaderInsertFailureSkipsModeration(t *testing.T) {
	f := newUploadFixture()
	f.videos.err = errors.New("insert failed")

	result := f.uploader.Upload(context.Background(), UploadRequest{UserID: "user-1", File: strings.NewReader("x")})

	assert.False(t, result.Success)
	assert.ErrorContains(t, result.Err, "insert failed")
	assert.NotEmpty(t, f.storage.key, "storage write should have happened")
	assert.Empty(t, f.queue.reqs)
}

func TestUploaderStorageFailure(t *testing.T) {
	f := newUploadFixture()
	f.storage.err = errors.New("bucket unreachable")

	result := f.uploader.Upload(context.Background(), UploadRequest{UserID: "user-1", File: strings.NewReader("x")})

	assert.False(t, result.Success)
	assert.ErrorContains(t, result.Err, "bucket unreachable")
	assert.Empty(t, f.videos.posts)
	assert.Empty(t, f.queue.reqs)
}

func TestUploaderModerationFailureStillSucceeds(t *testing.T) {
	f := newUploadFixture()
	f.queue.err = ErrQueueFull

	result := f.uploader.Upload(context.Background(), UploadRequest{UserID: "user-1", File: strings.NewReader("x")})

	assert.True(t, result.Success)
	assert.NoError(t, result.Err)
	assert.Len(t, f.queue.reqs, 1)
}

func TestUploaderValidation(t *testing.T) {
	tooLong := 31.0
	cases := []struct {
		name string
		req  UploadRequest
	}{
		{"missingUser", UploadRequest{File: strings.NewReader("x")}},
		{"pathInUser", UploadRequest{UserID: "../etc", File: strings.NewReader("x")}},
		{"missingFile", UploadRequest{UserID: "user-1"}},
		{"tooLong", UploadRequest{UserID: "user-1", File: strings.NewReader("x"), DurationSeconds: &tooLong}},
		{"badLocation", UploadRequest{UserID: "user-1", File: strings.NewReader("x"), Location: &models.Location{Latitude: 200}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newUploadFixture()
			result := f.uploader.Upload(context.Background(), tc.req)

			assert.False(t, result.Success)
			assert.True(t, IsClientError(result.Err), "got %v", result.Err)
			assert.Empty(t, f.storage.key)
		})
	}
}

func TestUploaderMissingDependencies(t *testing.T) {
	u := &Uploader{}
	result := u.Upload(context.Background(), UploadRequest{UserID: "user-1", File: strings.NewReader("x")})

	assert.ErrorIs(t, result.Err, ErrStorageUnavailable)
}
