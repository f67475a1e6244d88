package server

import (
	"github.com/harris-ryder/crema/internal/auth"
	"github.com/harris-ryder/crema/internal/config"
	"github.com/harris-ryder/crema/internal/image"
	"github.com/harris-ryder/crema/internal/post"
	"github.com/harris-ryder/crema/internal/reaction"
	"github.com/harris-ryder/crema/internal/stream"
	"github.com/harris-ryder/crema/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	user.RegisterRoutes(s.App.Group("/users"), user.NewService(s.DB), jwtMiddleware)

	// Post routes go first so /weeks and /user/weeks are matched before
	// the /:id reaction routes.
	posts := s.App.Group("/posts")
	post.RegisterRoutes(posts, post.NewService(s.DB, s.Stream), jwtMiddleware)
	reaction.RegisterRoutes(posts, reaction.NewService(s.DB), jwtMiddleware)

	image.RegisterRoutes(s.App.Group("/images"), image.NewService(s.DB), s.Cfg.DataPath, jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
