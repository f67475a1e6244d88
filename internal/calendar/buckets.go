package calendar

import "time"

// Post is a storage row already filtered to a window and ordered ascending
// by (localDate, createdAt). The user fields are only populated by the
// combined feed query.
type Post struct {
	ID          string    `json:"id"`
	ImageURI    string    `json:"imageUri"`
	Description string    `json:"description,omitempty"`
	LocalDate   string    `json:"localDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UserID      string    `json:"userId,omitempty"`
	Username    string    `json:"username,omitempty"`
	AvatarURI   string    `json:"avatarUri,omitempty"`
}

// Day is one calendar day cell. Posts are ascending by creation time.
type Day struct {
	LocalDate string `json:"localDate"`
	Posts     []Post `json:"posts"`
}

// DayWeek is the self view of one ISO week: a fixed Monday..Sunday grid.
type DayWeek struct {
	WeekYear           int    `json:"weekYear"`
	WeekNumber         int    `json:"weekNumber"`
	WeekStartLocalDate string `json:"weekStartLocalDate"`
	Days               []Day  `json:"days"`
}

// UserWeek is the others view of one ISO week: that week's posts grouped by
// author, each author's posts most-recent-first.
type UserWeek struct {
	WeekYear           int               `json:"weekYear"`
	WeekNumber         int               `json:"weekNumber"`
	WeekStartLocalDate string            `json:"weekStartLocalDate"`
	Users              map[string][]Post `json:"users"`
}

// BuildDayWeeks shapes one user's posts into week-by-day buckets, most
// recent week first. Every day of every week is present even when empty;
// the client renders a placeholder cell per weekday.
func BuildDayWeeks(posts []Post, w Window) []DayWeek {
	byDate := indexByLocalDate(posts)

	weeks := make([]DayWeek, 0, w.Count)
	current := w.AnchorStart
	for i := 0; i < w.Count; i++ {
		year, number := current.ISOWeek()
		days := make([]Day, 0, 7)
		for d := 0; d < 7; d++ {
			date := current.AddDate(0, 0, d).Format(DateLayout)
			dayPosts := byDate[date]
			if dayPosts == nil {
				dayPosts = []Post{}
			}
			days = append(days, Day{LocalDate: date, Posts: dayPosts})
		}
		weeks = append(weeks, DayWeek{
			WeekYear:           year,
			WeekNumber:         number,
			WeekStartLocalDate: current.Format(DateLayout),
			Days:               days,
		})
		current = current.AddDate(0, 0, -7)
	}
	return weeks
}

// BuildUserWeeks shapes other users' posts into week-by-author buckets,
// most recent week first. Within a week each author's posts are newest
// first, since clients surface the latest one as a thumbnail. Authors with
// no posts that week are simply absent.
func BuildUserWeeks(posts []Post, w Window) []UserWeek {
	byDate := indexByLocalDate(posts)

	weeks := make([]UserWeek, 0, w.Count)
	current := w.AnchorStart
	for i := 0; i < w.Count; i++ {
		year, number := current.ISOWeek()
		users := map[string][]Post{}
		for d := 0; d < 7; d++ {
			date := current.AddDate(0, 0, d).Format(DateLayout)
			for _, p := range byDate[date] {
				users[p.UserID] = append(users[p.UserID], p)
			}
		}
		for id := range users {
			reversePosts(users[id])
		}
		weeks = append(weeks, UserWeek{
			WeekYear:           year,
			WeekNumber:         number,
			WeekStartLocalDate: current.Format(DateLayout),
			Users:              users,
		})
		current = current.AddDate(0, 0, -7)
	}
	return weeks
}

// Single pre-pass instead of re-filtering the slice once per day slot.
func indexByLocalDate(posts []Post) map[string][]Post {
	byDate := make(map[string][]Post, len(posts))
	for _, p := range posts {
		byDate[p.LocalDate] = append(byDate[p.LocalDate], p)
	}
	return byDate
}

func reversePosts(posts []Post) {
	for i, j := 0, len(posts)-1; i < j; i, j = i+1, j-1 {
		posts[i], posts[j] = posts[j], posts[i]
	}
}
