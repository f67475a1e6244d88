package post

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/harris-ryder/crema/internal/calendar"
	"github.com/harris-ryder/crema/internal/db"
	"github.com/harris-ryder/crema/internal/stream"

	"github.com/google/uuid"
)

type Service struct {
	db  db.Querier
	hub *stream.Hub
	now func() time.Time
}

func NewService(db db.Querier, hub *stream.Hub) *Service {
	return &Service{db: db, hub: hub, now: time.Now}
}

// CreatePost fixes the post's local calendar date once, from the creation
// instant and the device-reported zone, and persists it. The stored date is
// never recomputed.
func (s *Service) CreatePost(ctx context.Context, input Post) (Post, error) {
	input.ID = uuid.NewString()
	input.PostTz = calendar.NormalizeTimezone(input.PostTz)
	input.LocalDate = calendar.ResolveLocalDate(s.now(), input.PostTz)

	row := s.db.QueryRow(ctx, `
		INSERT INTO posts (id, user_id, image_uri, description, post_tz, local_date)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at
	`, input.ID, input.UserID, input.ImageURI, input.Description, input.PostTz, input.LocalDate)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Post{}, err
	}

	if s.hub != nil {
		payload, err := marshalPostFn(input)
		if err != nil {
			log.Printf("post broadcast encode error: %v", err)
		} else {
			s.hub.Broadcast(payload)
		}
	}
	return input, nil
}

var marshalPostFn = json.Marshal

// UserWeeks returns the requesting user's posts shaped into the profile
// calendar: count ISO weeks ending at the anchor, most recent first, seven
// day cells per week.
func (s *Service) UserWeeks(ctx context.Context, userID string, q WeekQuery) (WeeksResponse, error) {
	anchor := calendar.ResolveAnchor(q.Year, q.Week, q.HasAnchor, s.now())
	window := calendar.NewWindow(anchor, q.Count)

	rows, err := s.db.Query(ctx, `
		SELECT id, image_uri, COALESCE(description,''), local_date::text, created_at
		FROM posts
		WHERE user_id=$1 AND local_date >= $2 AND local_date < $3
		ORDER BY local_date, created_at
	`, userID, window.StartDate(), window.EndDate())
	if err != nil {
		return WeeksResponse{}, err
	}
	defer rows.Close()

	var posts []calendar.Post
	for rows.Next() {
		var p calendar.Post
		if err := rows.Scan(&p.ID, &p.ImageURI, &p.Description, &p.LocalDate, &p.CreatedAt); err != nil {
			return WeeksResponse{}, err
		}
		posts = append(posts, p)
	}

	return WeeksResponse{
		Count: q.Count,
		Weeks: calendar.BuildDayWeeks(posts, window),
		Next:  window.NextCursor(),
	}, nil
}

// FeedWeeks returns the combined home feed for one window: the viewer's own
// posts per week per day, everyone else's per week per author.
func (s *Service) FeedWeeks(ctx context.Context, viewerID string, q WeekQuery) (FeedResponse, error) {
	anchor := calendar.ResolveAnchor(q.Year, q.Week, q.HasAnchor, s.now())
	window := calendar.NewWindow(anchor, q.Count)

	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.image_uri, COALESCE(p.description,''), p.local_date::text, p.created_at,
		       p.user_id, u.username, COALESCE(u.avatar_uri,'')
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.local_date >= $1 AND p.local_date < $2
		ORDER BY p.local_date, p.created_at
	`, window.StartDate(), window.EndDate())
	if err != nil {
		return FeedResponse{}, err
	}
	defer rows.Close()

	var mine, others []calendar.Post
	for rows.Next() {
		var p calendar.Post
		if err := rows.Scan(&p.ID, &p.ImageURI, &p.Description, &p.LocalDate, &p.CreatedAt,
			&p.UserID, &p.Username, &p.AvatarURI); err != nil {
			return FeedResponse{}, err
		}
		if p.UserID == viewerID {
			mine = append(mine, p)
		} else {
			others = append(others, p)
		}
	}

	return FeedResponse{
		Count:                   q.Count,
		MyPostsByWeekDay:        calendar.BuildDayWeeks(mine, window),
		OtherPostsByWeekAndUser: calendar.BuildUserWeeks(others, window),
		Next:                    window.NextCursor(),
	}, nil
}
