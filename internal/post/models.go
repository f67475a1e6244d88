package post

import (
	"time"

	"github.com/harris-ryder/crema/internal/calendar"
)

type Post struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	ImageURI    string    `json:"imageUri"`
	Description string    `json:"description,omitempty"`
	PostTz      string    `json:"postTz"`
	LocalDate   string    `json:"localDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateRequest struct {
	ImageURI    string `json:"imageUri"`
	Description string `json:"description"`
	PostTz      string `json:"postTz"`
}

// WeekQuery is a validated pagination request. HasAnchor distinguishes an
// explicit (year, week) cursor from the "current week" default.
type WeekQuery struct {
	Count     int
	Year      int
	Week      int
	HasAnchor bool
}

// WeeksResponse is the profile calendar: the user's own posts per week per day.
type WeeksResponse struct {
	Count int                `json:"count"`
	Weeks []calendar.DayWeek `json:"weeks"`
	Next  calendar.Week      `json:"next"`
}

// FeedResponse is the home feed: the viewer's grid plus everyone else's
// posts grouped per week per author.
type FeedResponse struct {
	Count                   int                 `json:"count"`
	MyPostsByWeekDay        []calendar.DayWeek  `json:"myPostsByWeekDay"`
	OtherPostsByWeekAndUser []calendar.UserWeek `json:"otherPostsByWeekAndUser"`
	Next                    calendar.Week       `json:"next"`
}
