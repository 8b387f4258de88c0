package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golden-vcr/inventory-portal/internal/backend"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	body   string
	cookie string
}

func newTestClient(t *testing.T, status int, response string) (*Client, *recordedRequest) {
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		b, _ := io.ReadAll(req.Body)
		rec.method = req.Method
		rec.path = req.URL.Path
		rec.query = req.URL.RawQuery
		rec.body = string(b)
		if c, err := req.Cookie("jwt-token"); err == nil {
			rec.cookie = c.Value
		}
		res.WriteHeader(status)
		res.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(backend.NewClient(backend.DefaultConfig(srv.URL + "/api/v1")))
	c.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return c.As(cookies{{Name: "jwt-token", Value: "AT"}}), rec
}

type cookies []*http.Cookie

func (c cookies) Cookies() []*http.Cookie {
	return c
}

func Test_Client_ListVideos(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{
		"data": [{"id":1,"title":"Intro","description":"","videoUrl":"/uploads/intro.mp4","createdAt":"2024-01-01T00:00:00","modificationDate":"2024-01-02T00:00:00"}],
		"pageInfo": {"totalElements": 1, "totalPages": 1, "currentPage": 0, "pageSize": 10},
		"success": true
	}`)

	r, err := c.ListVideos(context.Background(), &Page{Number: 0, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, "GET", rec.method)
	assert.Equal(t, "/api/v1/videos", rec.path)
	assert.Equal(t, "page=0&size=10", rec.query)
	assert.Equal(t, "AT", rec.cookie)
	require.Len(t, r.Data, 1)
	assert.Equal(t, int64(1), r.Data[0].Id)
	assert.Equal(t, "/uploads/intro.mp4", r.Data[0].VideoUrl)
	assert.Equal(t, int64(1), r.PageInfo.TotalElements)
}

func Test_Client_ListVideos_unpaginated(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{"data":[],"success":true}`)
	_, err := c.ListVideos(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "", rec.query)
}

func Test_Client_endpoints(t *testing.T) {
	tests := []struct {
		name       string
		call       func(c *Client) error
		wantMethod string
		wantPath   string
		wantQuery  string
	}{
		{
			"GetVideo",
			func(c *Client) error { _, err := c.GetVideo(context.Background(), 7); return err },
			"GET", "/api/v1/videos/7", "",
		},
		{
			"DeleteVideo",
			func(c *Client) error { return c.DeleteVideo(context.Background(), 7) },
			"DELETE", "/api/v1/videos/7", "",
		},
		{
			"ListUserVideos",
			func(c *Client) error { _, err := c.ListUserVideos(context.Background()); return err },
			"GET", "/api/v1/videos/user-videos", "",
		},
		{
			"ListAssignments",
			func(c *Client) error {
				_, err := c.ListAssignments(context.Background(), &Page{Number: 2, Size: 5})
				return err
			},
			"GET", "/api/v1/videos/assignments", "page=2&size=5",
		},
		{
			"AssignVideo",
			func(c *Client) error { _, err := c.AssignVideo(context.Background(), 7, 42); return err },
			"POST", "/api/v1/videos/7/assign", "userId=42",
		},
		{
			"RemoveAssignment",
			func(c *Client) error { return c.RemoveAssignment(context.Background(), 99) },
			"DELETE", "/api/v1/videos/remove-assignment/99", "",
		},
		{
			"ListUsers",
			func(c *Client) error { _, err := c.ListUsers(context.Background()); return err },
			"GET", "/api/v1/users", "",
		},
		{
			"ListActivityLogs",
			func(c *Client) error {
				_, err := c.ListActivityLogs(context.Background(), &Page{Number: 0, Size: 20})
				return err
			},
			"GET", "/api/v1/activity-logs", "page=0&size=20",
		},
		{
			"ListVideoActivityLogs",
			func(c *Client) error {
				_, err := c.ListVideoActivityLogs(context.Background(), 7, nil)
				return err
			},
			"GET", "/api/v1/activity-logs/video/7", "",
		},
		{
			"ListUserActivityLogs",
			func(c *Client) error {
				_, err := c.ListUserActivityLogs(context.Background(), 3, &Page{Number: 1, Size: 10})
				return err
			},
			"GET", "/api/v1/activity-logs/user/3", "page=1&size=10",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestClient(t, http.StatusOK, `{"success":true}`)
			require.NoError(t, tt.call(c))
			assert.Equal(t, tt.wantMethod, rec.method)
			assert.Equal(t, tt.wantPath, rec.path)
			assert.Equal(t, tt.wantQuery, rec.query)
			assert.Equal(t, "AT", rec.cookie)
		})
	}
}

func Test_Client_UpdateVideo(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{"data":{"id":7,"title":"Renamed"},"success":true}`)
	v, err := c.UpdateVideo(context.Background(), Video{Id: 7, Title: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "PUT", rec.method)
	assert.Equal(t, "/api/v1/videos/7", rec.path)
	assert.Equal(t, "Renamed", v.Title)

	var sent Video
	require.NoError(t, json.Unmarshal([]byte(rec.body), &sent))
	assert.Equal(t, "Renamed", sent.Title)
	assert.Equal(t, int64(7), sent.Id)
}

func Test_Client_UploadVideo(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{"data":{"id":42,"title":"Intro","videoUrl":"/uploads/intro.mp4"},"success":true}`)
	v, err := c.UploadVideo(context.Background(), VideoUpload{
		Title:       "Intro",
		Description: "First",
		Filename:    "intro.mp4",
	}, strings.NewReader("frames"))
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.Id)
	assert.Equal(t, "/uploads/intro.mp4", v.VideoUrl)
	assert.Equal(t, "/api/v1/videos/upload", rec.path)
	assert.Contains(t, rec.body, `name="title"`)
	assert.Contains(t, rec.body, `filename="intro.mp4"`)
	assert.Contains(t, rec.body, "frames")

	_, err = c.UploadVideo(context.Background(), VideoUpload{Filename: "x.mp4"}, strings.NewReader(""))
	assert.Error(t, err)
}

func Test_Client_RecordActivity(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{"data":{"id":1,"action":"VIEWED"},"success":true}`)
	entry, err := c.RecordActivity(context.Background(), ActivityRecord{
		VideoId: 7,
		UserId:  3,
		Action:  ActionViewed,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.Id)
	assert.Equal(t, "VIEWED", entry.Action)
	assert.Equal(t, "POST", rec.method)
	assert.Equal(t, "/api/v1/activity-logs", rec.path)
	assert.JSONEq(t, `{"videoId":7,"userId":3,"action":"VIEWED","timestamp":"2024-03-01T12:00:00Z"}`, rec.body)
}

func Test_Client_RecordActivity_invalid(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{"success":true}`)
	_, err := c.RecordActivity(context.Background(), ActivityRecord{VideoId: 7, UserId: 3, Action: "DELETED"})
	assert.Error(t, err)
	_, err = c.RecordActivity(context.Background(), ActivityRecord{UserId: 3, Action: ActionViewed})
	assert.Error(t, err)
	assert.Equal(t, "", rec.method, "invalid records should never reach the backend")
}

func Test_Client_unauthorized(t *testing.T) {
	c, _ := newTestClient(t, http.StatusUnauthorized, ``)
	_, err := c.ListUsers(context.Background())
	assert.True(t, errors.Is(err, backend.ErrUnauthorized))
}

func Test_Client_decodes_numeric_ids(t *testing.T) {
	tests := []struct {
		name     string
		response string
		check    func(t *testing.T, c *Client)
	}{
		{
			"user videos",
			`{"success":true,"data":[{"id":1,"title":"Intro","videoUrl":"/uploads/intro.mp4","createdAt":"2024-01-01T10:00:00"}]}`,
			func(t *testing.T, c *Client) {
				videos, err := c.ListUserVideos(context.Background())
				require.NoError(t, err)
				assert.Equal(t, []Video{{Id: 1, Title: "Intro", VideoUrl: "/uploads/intro.mp4", CreatedAt: "2024-01-01T10:00:00"}}, videos)
			},
		},
		{
			"assignments",
			`{"success":true,"data":[{"id":5,"user":{"id":2,"name":"Bob","username":"bob"},"video":{"id":1,"title":"Intro"},"assignedAt":"2024-01-02T09:30:00"}]}`,
			func(t *testing.T, c *Client) {
				r, err := c.ListAssignments(context.Background(), nil)
				require.NoError(t, err)
				assert.Equal(t, []Assignment{{
					Id:         5,
					User:       User{Id: 2, Name: "Bob", Username: "bob"},
					Video:      Video{Id: 1, Title: "Intro"},
					AssignedAt: "2024-01-02T09:30:00",
				}}, r.Data)
			},
		},
		{
			"activity logs",
			`{"success":true,"data":[{"id":9,"user":{"id":2,"username":"bob","role":"USER"},"video":{"id":1,"title":"Intro"},"action":"VIEWED","timestamp":"2024-01-03T00:00:00"}]}`,
			func(t *testing.T, c *Client) {
				r, err := c.ListActivityLogs(context.Background(), nil)
				require.NoError(t, err)
				require.Len(t, r.Data, 1)
				assert.Equal(t, int64(9), r.Data[0].Id)
				assert.Equal(t, int64(1), r.Data[0].Video.Id)
				assert.Equal(t, "bob", r.Data[0].User.Username)
			},
		},
		{
			"assign video",
			`{"success":true,"data":{"id":6,"user":{"id":2,"username":"bob"},"video":{"id":1,"title":"Intro"},"assignedAt":"2024-01-04T00:00:00"}}`,
			func(t *testing.T, c *Client) {
				a, err := c.AssignVideo(context.Background(), 1, 2)
				require.NoError(t, err)
				assert.Equal(t, int64(6), a.Id)
				assert.Equal(t, int64(2), a.User.Id)
				assert.Equal(t, int64(1), a.Video.Id)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.StatusOK, tt.response)
			tt.check(t, c)
		})
	}
}
