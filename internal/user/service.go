package user

import (
	"context"
	"errors"
	"regexp"

	"github.com/harris-ryder/crema/internal/db"
)

// Same rules the clients enforce while typing: lowercase letters, digits
// and underscores, 3 to 24 characters.
var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,24}$`)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Get(ctx context.Context, id string) (Profile, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, username, COALESCE(display_name,''), COALESCE(bio,''), COALESCE(avatar_uri,''),
		       created_at, updated_at
		FROM users WHERE id=$1
	`, id)
	var p Profile
	if err := row.Scan(&p.ID, &p.Email, &p.Username, &p.DisplayName, &p.Bio, &p.AvatarURI,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// UsernameAvailable reports whether no other user holds the name.
func (s *Service) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	if !usernamePattern.MatchString(username) {
		return false, nil
	}
	var taken bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE username=$1)
	`, username).Scan(&taken)
	return !taken, err
}

func (s *Service) UpdateUsername(ctx context.Context, id, username string) (Profile, error) {
	if !usernamePattern.MatchString(username) {
		return Profile{}, errors.New("username must be 3-24 lowercase letters, digits or underscores")
	}

	available, err := s.UsernameAvailable(ctx, username)
	if err != nil {
		return Profile{}, err
	}
	if !available {
		return Profile{}, errors.New("username taken")
	}

	_, err = s.db.Exec(ctx, `
		UPDATE users SET username=$2, updated_at=now() WHERE id=$1
	`, id, username)
	if err != nil {
		return Profile{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) UpdateDisplayName(ctx context.Context, id, displayName string) (Profile, error) {
	if displayName == "" {
		return Profile{}, errors.New("displayName required")
	}
	_, err := s.db.Exec(ctx, `
		UPDATE users SET display_name=$2, updated_at=now() WHERE id=$1
	`, id, displayName)
	if err != nil {
		return Profile{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id, bio, avatarURI string) (Profile, error) {
	_, err := s.db.Exec(ctx, `
		UPDATE users
		SET bio=COALESCE(NULLIF($2,''), bio),
		    avatar_uri=COALESCE(NULLIF($3,''), avatar_uri),
		    updated_at=now()
		WHERE id=$1
	`, id, bio, avatarURI)
	if err != nil {
		return Profile{}, err
	}
	return s.Get(ctx, id)
}
