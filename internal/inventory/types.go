package inventory

import "time"

// IDs are assigned by the backend and always sent as JSON numbers

type Video struct {
	Id               int64  `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	VideoUrl         string `json:"videoUrl"`
	CreatedAt        string `json:"createdAt"`
	ModificationDate string `json:"modificationDate"`
}

type User struct {
	Id        int64  `json:"id"`
	Name      string `json:"name,omitempty"`
	Username  string `json:"username"`
	Role      string `json:"role,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Assignment records that a video was assigned to a user
type Assignment struct {
	Id         int64  `json:"id"`
	User       User   `json:"user"`
	Video      Video  `json:"video"`
	AssignedAt string `json:"assignedAt"`
}

// Action identifies what a user did with a video
type Action string

const (
	ActionViewed    Action = "VIEWED"
	ActionCompleted Action = "COMPLETED"
)

type ActivityLogEntry struct {
	Id        int64  `json:"id"`
	User      User   `json:"user"`
	Video     Video  `json:"video"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

// ActivityRecord is submitted to log that a user acted on a video
type ActivityRecord struct {
	VideoId   int64     `json:"videoId" validate:"required"`
	UserId    int64     `json:"userId" validate:"required"`
	Action    Action    `json:"action" validate:"required,oneof=VIEWED COMPLETED"`
	Timestamp time.Time `json:"timestamp"`
}

// Page selects one page of a paginated listing; pages are numbered from zero
type Page struct {
	Number int
	Size   int
}

// VideoUpload describes a new video to be uploaded
type VideoUpload struct {
	Title       string
	Description string
	Filename    string
}
