package post

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harris-ryder/crema/internal/stream"

	"github.com/pashagolub/pgxmock/v3"
)

var errPost = errors.New("post error")

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCreatePostResolvesLocalDateAcrossMidnight(t *testing.T) {
	mock := newMock(t)
	createdAt := time.Date(2024, 12, 31, 23, 30, 0, 0, time.UTC)

	// 23:30 UTC is already New Year's Day in Auckland; the stored date
	// pins the post to 2025-01-01 forever.
	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(pgxmock.AnyArg(), "user-1", "cup.jpg", "flat white", "Pacific/Auckland", "2025-01-01").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	svc := NewService(mock, nil)
	svc.now = fixedNow(createdAt)

	created, err := svc.CreatePost(context.Background(), Post{
		UserID:      "user-1",
		ImageURI:    "cup.jpg",
		Description: "flat white",
		PostTz:      "Pacific/Auckland",
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if created.LocalDate != "2025-01-01" {
		t.Fatalf("unexpected local date: %s", created.LocalDate)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreatePostCoercesInvalidTimezone(t *testing.T) {
	mock := newMock(t)
	createdAt := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(pgxmock.AnyArg(), "user-1", "cup.jpg", "", "UTC", "2024-06-15").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	svc := NewService(mock, nil)
	svc.now = fixedNow(createdAt)

	created, err := svc.CreatePost(context.Background(), Post{
		UserID:   "user-1",
		ImageURI: "cup.jpg",
		PostTz:   "Not/AZone",
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if created.PostTz != "UTC" {
		t.Fatalf("expected UTC, got %s", created.PostTz)
	}
}

func TestCreatePostBroadcasts(t *testing.T) {
	mock := newMock(t)
	createdAt := time.Now()

	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(pgxmock.AnyArg(), "user-1", "cup.jpg", "", "UTC", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	hub := stream.NewHub(nil)
	client := hub.Register()
	defer hub.Unregister(client)

	svc := NewService(mock, hub)
	if _, err := svc.CreatePost(context.Background(), Post{UserID: "user-1", ImageURI: "cup.jpg"}); err != nil {
		t.Fatalf("create post: %v", err)
	}

	select {
	case msg := <-client.Send:
		if len(msg) == 0 {
			t.Fatalf("empty broadcast payload")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for broadcast")
	}
}

func TestCreatePostSkipsBroadcastOnEncodeFailure(t *testing.T) {
	mock := newMock(t)
	createdAt := time.Now()

	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(pgxmock.AnyArg(), "user-1", "cup.jpg", "", "UTC", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	hub := stream.NewHub(nil)
	client := hub.Register()
	defer hub.Unregister(client)

	oldMarshal := marshalPostFn
	marshalPostFn = func(any) ([]byte, error) { return nil, errPost }
	defer func() { marshalPostFn = oldMarshal }()

	svc := NewService(mock, hub)
	if _, err := svc.CreatePost(context.Background(), Post{UserID: "user-1", ImageURI: "cup.jpg"}); err != nil {
		t.Fatalf("create post: %v", err)
	}

	// The post is persisted either way; nothing goes out on the wire.
	select {
	case msg := <-client.Send:
		t.Fatalf("unexpected broadcast: %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCreatePostError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(pgxmock.AnyArg(), "user-1", "cup.jpg", "", "UTC", pgxmock.AnyArg()).
		WillReturnError(errPost)

	svc := NewService(mock, nil)
	if _, err := svc.CreatePost(context.Background(), Post{UserID: "user-1", ImageURI: "cup.jpg"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestUserWeeks(t *testing.T) {
	mock := newMock(t)
	base := time.Date(2024, 12, 25, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, image_uri`).
		WithArgs("user-1", "2024-12-16", "2024-12-30").
		WillReturnRows(pgxmock.NewRows([]string{"id", "image_uri", "description", "local_date", "created_at"}).
			AddRow("p1", "a.jpg", "", "2024-12-18", base.AddDate(0, 0, -7)).
			AddRow("p2", "b.jpg", "espresso", "2024-12-25", base).
			AddRow("p3", "c.jpg", "", "2024-12-25", base.Add(time.Hour)))

	svc := NewService(mock, nil)
	resp, err := svc.UserWeeks(context.Background(), "user-1", WeekQuery{Count: 2, Year: 2024, Week: 52, HasAnchor: true})
	if err != nil {
		t.Fatalf("user weeks: %v", err)
	}

	if resp.Count != 2 || len(resp.Weeks) != 2 {
		t.Fatalf("unexpected shape: count=%d weeks=%d", resp.Count, len(resp.Weeks))
	}
	if resp.Next.Year != 2024 || resp.Next.Week != 50 {
		t.Fatalf("unexpected cursor: %+v", resp.Next)
	}

	wednesday := resp.Weeks[0].Days[2]
	if len(wednesday.Posts) != 2 || wednesday.Posts[0].ID != "p2" || wednesday.Posts[1].ID != "p3" {
		t.Fatalf("unexpected wednesday posts: %+v", wednesday.Posts)
	}
	if len(resp.Weeks[1].Days[2].Posts) != 1 {
		t.Fatalf("expected one post in previous week")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserWeeksDefaultAnchor(t *testing.T) {
	mock := newMock(t)

	// Tuesday 2024-12-31 is in ISO week 2025-W01, so the default window
	// spans 2024-12-30 to 2025-01-06.
	mock.ExpectQuery(`SELECT id, image_uri`).
		WithArgs("user-1", "2024-12-30", "2025-01-06").
		WillReturnRows(pgxmock.NewRows([]string{"id", "image_uri", "description", "local_date", "created_at"}))

	svc := NewService(mock, nil)
	svc.now = fixedNow(time.Date(2024, 12, 31, 12, 0, 0, 0, time.UTC))

	resp, err := svc.UserWeeks(context.Background(), "user-1", WeekQuery{Count: 1})
	if err != nil {
		t.Fatalf("user weeks: %v", err)
	}
	if len(resp.Weeks) != 1 || resp.Weeks[0].WeekYear != 2025 || resp.Weeks[0].WeekNumber != 1 {
		t.Fatalf("unexpected weeks: %+v", resp.Weeks)
	}
	for _, d := range resp.Weeks[0].Days {
		if len(d.Posts) != 0 {
			t.Fatalf("expected empty day %s", d.LocalDate)
		}
	}
}

func TestUserWeeksQueryError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT id, image_uri`).
		WithArgs("user-1", "2024-12-16", "2024-12-30").
		WillReturnError(errPost)

	svc := NewService(mock, nil)
	if _, err := svc.UserWeeks(context.Background(), "user-1", WeekQuery{Count: 2, Year: 2024, Week: 52, HasAnchor: true}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestUserWeeksScanError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT id, image_uri`).
		WithArgs("user-1", "2024-12-16", "2024-12-30").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("p1"))

	svc := NewService(mock, nil)
	if _, err := svc.UserWeeks(context.Background(), "user-1", WeekQuery{Count: 2, Year: 2024, Week: 52, HasAnchor: true}); err == nil {
		t.Fatalf("expected scan error")
	}
}

func TestFeedWeeks(t *testing.T) {
	mock := newMock(t)
	base := time.Date(2024, 12, 23, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT p.id, p.image_uri`).
		WithArgs("2024-12-23", "2024-12-30").
		WillReturnRows(pgxmock.NewRows([]string{"id", "image_uri", "description", "local_date", "created_at", "user_id", "username", "avatar_uri"}).
			AddRow("m1", "mine.jpg", "", "2024-12-23", base, "viewer", "me", "").
			AddRow("a1", "a1.jpg", "", "2024-12-23", base.Add(time.Hour), "alice", "alice", "alice.png").
			AddRow("a2", "a2.jpg", "", "2024-12-24", base.AddDate(0, 0, 1), "alice", "alice", "alice.png"))

	svc := NewService(mock, nil)
	resp, err := svc.FeedWeeks(context.Background(), "viewer", WeekQuery{Count: 1, Year: 2024, Week: 52, HasAnchor: true})
	if err != nil {
		t.Fatalf("feed weeks: %v", err)
	}

	if len(resp.MyPostsByWeekDay) != 1 || len(resp.OtherPostsByWeekAndUser) != 1 {
		t.Fatalf("unexpected shape")
	}

	monday := resp.MyPostsByWeekDay[0].Days[0]
	if len(monday.Posts) != 1 || monday.Posts[0].ID != "m1" {
		t.Fatalf("viewer post missing from self grid: %+v", monday.Posts)
	}

	others := resp.OtherPostsByWeekAndUser[0].Users
	if len(others) != 1 {
		t.Fatalf("expected only alice, got %+v", others)
	}
	alice := others["alice"]
	if len(alice) != 2 || alice[0].ID != "a2" || alice[1].ID != "a1" {
		t.Fatalf("expected alice newest first, got %+v", alice)
	}
	if resp.Next.Year != 2024 || resp.Next.Week != 51 {
		t.Fatalf("unexpected cursor: %+v", resp.Next)
	}
}

func TestFeedWeeksQueryError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT p.id, p.image_uri`).
		WithArgs("2024-12-23", "2024-12-30").
		WillReturnError(errPost)

	svc := NewService(mock, nil)
	if _, err := svc.FeedWeeks(context.Background(), "viewer", WeekQuery{Count: 1, Year: 2024, Week: 52, HasAnchor: true}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFeedWeeksScanError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT p.id, p.image_uri`).
		WithArgs("2024-12-23", "2024-12-30").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("p1"))

	svc := NewService(mock, nil)
	if _, err := svc.FeedWeeks(context.Background(), "viewer", WeekQuery{Count: 1, Year: 2024, Week: 52, HasAnchor: true}); err == nil {
		t.Fatalf("expected scan error")
	}
}

func TestWeeksAreIdempotent(t *testing.T) {
	base := time.Date(2024, 12, 25, 8, 0, 0, 0, time.UTC)
	rows := func() *pgxmock.Rows {
		return pgxmock.NewRows([]string{"id", "image_uri", "description", "local_date", "created_at"}).
			AddRow("p1", "a.jpg", "", "2024-12-25", base)
	}

	mock := newMock(t)
	mock.ExpectQuery(`SELECT id, image_uri`).
		WithArgs("user-1", "2024-12-23", "2024-12-30").
		WillReturnRows(rows())
	mock.ExpectQuery(`SELECT id, image_uri`).
		WithArgs("user-1", "2024-12-23", "2024-12-30").
		WillReturnRows(rows())

	svc := NewService(mock, nil)
	q := WeekQuery{Count: 1, Year: 2024, Week: 52, HasAnchor: true}

	first, err := svc.UserWeeks(context.Background(), "user-1", q)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := svc.UserWeeks(context.Background(), "user-1", q)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if first.Next != second.Next || len(first.Weeks) != len(second.Weeks) {
		t.Fatalf("identical inputs returned different output")
	}
	for i := range first.Weeks {
		if first.Weeks[i].WeekStartLocalDate != second.Weeks[i].WeekStartLocalDate {
			t.Fatalf("identical inputs returned different weeks")
		}
	}
}
