package reaction

import (
	"context"
	"errors"

	"github.com/harris-ryder/crema/internal/db"

	"github.com/google/uuid"
)

// The database enforces the same set via an enum; the check here keeps a
// bad emoji from ever producing a cryptic constraint error.
var allowedEmoji = map[string]struct{}{
	"👍": {}, "❤️": {}, "😂": {}, "🔥": {}, "🎉": {}, "👏": {},
}

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// React sets the user's reaction on a post, replacing any previous one;
// each user holds at most one reaction per post.
func (s *Service) React(ctx context.Context, postID, userID, emoji string) (Reaction, error) {
	if _, ok := allowedEmoji[emoji]; !ok {
		return Reaction{}, errors.New("unsupported emoji")
	}

	reaction := Reaction{
		ID:     uuid.NewString(),
		PostID: postID,
		UserID: userID,
		Emoji:  emoji,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO post_reactions (id, post_id, user_id, emoji)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (post_id, user_id) DO UPDATE
		SET emoji=EXCLUDED.emoji
		RETURNING created_at
	`, reaction.ID, reaction.PostID, reaction.UserID, reaction.Emoji)
	if err := row.Scan(&reaction.CreatedAt); err != nil {
		return Reaction{}, err
	}
	return reaction, nil
}

func (s *Service) List(ctx context.Context, postID string) ([]Reaction, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, post_id, user_id, emoji, created_at
		FROM post_reactions WHERE post_id=$1
		ORDER BY created_at DESC
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reactions []Reaction
	for rows.Next() {
		var r Reaction
		if err := rows.Scan(&r.ID, &r.PostID, &r.UserID, &r.Emoji, &r.CreatedAt); err != nil {
			return nil, err
		}
		reactions = append(reactions, r)
	}
	return reactions, nil
}

func (s *Service) Remove(ctx context.Context, postID, userID string) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM post_reactions WHERE post_id=$1 AND user_id=$2
	`, postID, userID)
	return err
}
