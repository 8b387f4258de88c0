package inventory

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/golden-vcr/inventory-portal/internal/backend"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Client exposes the inventory backend's REST surface: videos, users, assignments,
// and activity logs. Requests are made as whoever the underlying backend client's
// credentials identify.
type Client struct {
	c   *backend.Client
	now func() time.Time
}

func NewClient(c *backend.Client) *Client {
	return &Client{
		c:   c,
		now: time.Now,
	}
}

// As returns a copy of the Client that makes requests with the given credentials
func (c *Client) As(creds backend.CredentialSource) *Client {
	return &Client{
		c:   c.c.WithCredentials(creds),
		now: c.now,
	}
}

func (c *Client) ListVideos(ctx context.Context, page *Page) (*backend.Response[[]Video], error) {
	return backend.Get[[]Video](ctx, c.c, "/videos", page.params())
}

func (c *Client) GetVideo(ctx context.Context, id int64) (*Video, error) {
	r, err := backend.Get[Video](ctx, c.c, videoPath(id), nil)
	if err != nil {
		return nil, err
	}
	return &r.Data, nil
}

func (c *Client) UpdateVideo(ctx context.Context, video Video) (*Video, error) {
	r, err := backend.Put[Video](ctx, c.c, videoPath(video.Id), video, nil)
	if err != nil {
		return nil, err
	}
	return &r.Data, nil
}

func (c *Client) DeleteVideo(ctx context.Context, id int64) error {
	_, err := backend.Delete[any](ctx, c.c, videoPath(id), nil)
	return err
}

// UploadVideo sends a new video file to the backend, returning the video as stored
func (c *Client) UploadVideo(ctx context.Context, upload VideoUpload, content io.Reader) (*Video, error) {
	if upload.Title == "" {
		return nil, fmt.Errorf("a title is required to upload a video")
	}
	r, err := backend.Upload[Video](ctx, c.c, "/videos/upload", backend.Form{
		Fields: map[string]string{
			"title":       upload.Title,
			"description": upload.Description,
		},
		Files: []backend.FormFile{{Field: "file", Filename: upload.Filename, Content: content}},
	}, nil)
	if err != nil {
		return nil, err
	}
	return &r.Data, nil
}

// ListUserVideos returns the videos assigned to the calling user
func (c *Client) ListUserVideos(ctx context.Context) ([]Video, error) {
	r, err := backend.Get[[]Video](ctx, c.c, "/videos/user-videos", nil)
	if err != nil {
		return nil, err
	}
	return r.Data, nil
}

func (c *Client) ListAssignments(ctx context.Context, page *Page) (*backend.Response[[]Assignment], error) {
	return backend.Get[[]Assignment](ctx, c.c, "/videos/assignments", page.params())
}

func (c *Client) AssignVideo(ctx context.Context, videoId int64, userId int64) (*Assignment, error) {
	r, err := backend.Post[Assignment](ctx, c.c, videoPath(videoId)+"/assign", nil, backend.Params{
		"userId": userId,
	})
	if err != nil {
		return nil, err
	}
	return &r.Data, nil
}

func (c *Client) RemoveAssignment(ctx context.Context, assignmentId int64) error {
	_, err := backend.Delete[any](ctx, c.c, "/videos/remove-assignment/"+strconv.FormatInt(assignmentId, 10), nil)
	return err
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	r, err := backend.Get[[]User](ctx, c.c, "/users", nil)
	if err != nil {
		return nil, err
	}
	return r.Data, nil
}

func (c *Client) ListActivityLogs(ctx context.Context, page *Page) (*backend.Response[[]ActivityLogEntry], error) {
	return backend.Get[[]ActivityLogEntry](ctx, c.c, "/activity-logs", page.params())
}

func (c *Client) ListVideoActivityLogs(ctx context.Context, videoId int64, page *Page) (*backend.Response[[]ActivityLogEntry], error) {
	return backend.Get[[]ActivityLogEntry](ctx, c.c, "/activity-logs/video/"+strconv.FormatInt(videoId, 10), page.params())
}

func (c *Client) ListUserActivityLogs(ctx context.Context, userId int64, page *Page) (*backend.Response[[]ActivityLogEntry], error) {
	return backend.Get[[]ActivityLogEntry](ctx, c.c, "/activity-logs/user/"+strconv.FormatInt(userId, 10), page.params())
}

// RecordActivity logs that a user acted on a video. If the record has no timestamp,
// the current time is used.
func (c *Client) RecordActivity(ctx context.Context, record ActivityRecord) (*ActivityLogEntry, error) {
	if record.Timestamp.IsZero() {
		record.Timestamp = c.now().UTC()
	}
	if err := validate.Struct(record); err != nil {
		return nil, fmt.Errorf("invalid activity record: %w", err)
	}
	r, err := backend.Post[ActivityLogEntry](ctx, c.c, "/activity-logs", record, nil)
	if err != nil {
		return nil, err
	}
	return &r.Data, nil
}

func videoPath(id int64) string {
	return "/videos/" + strconv.FormatInt(id, 10)
}

func (p *Page) params() backend.Params {
	if p == nil {
		return nil
	}
	return backend.Params{
		"page": p.Number,
		"size": p.Size,
	}
}
