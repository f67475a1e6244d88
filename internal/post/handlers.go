package post

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const defaultWeekCount = 12

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req CreateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if req.ImageURI == "" {
			return fiber.NewError(fiber.StatusBadRequest, "imageUri required")
		}

		created, err := svc.CreatePost(c.Context(), Post{
			UserID:      localUserID(c),
			ImageURI:    req.ImageURI,
			Description: req.Description,
			PostTz:      req.PostTz,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Get("/user/weeks", authMiddleware, func(c *fiber.Ctx) error {
		q, err := parseWeekQuery(c)
		if err != nil {
			return err
		}
		resp, err := svc.UserWeeks(c.Context(), localUserID(c), q)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(resp)
	})

	r.Get("/weeks", authMiddleware, func(c *fiber.Ctx) error {
		q, err := parseWeekQuery(c)
		if err != nil {
			return err
		}
		resp, err := svc.FeedWeeks(c.Context(), localUserID(c), q)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(resp)
	})
}

// parseWeekQuery validates pagination parameters before anything reaches
// the calendar engine: count in 1..52 (default 12), year and week supplied
// together with year in 1970..3000 and week in 1..53.
func parseWeekQuery(c *fiber.Ctx) (WeekQuery, error) {
	q := WeekQuery{Count: defaultWeekCount}

	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 52 {
			return WeekQuery{}, fiber.NewError(fiber.StatusBadRequest, "count must be an integer between 1 and 52")
		}
		q.Count = n
	}

	rawYear, rawWeek := c.Query("year"), c.Query("week")
	if (rawYear == "") != (rawWeek == "") {
		return WeekQuery{}, fiber.NewError(fiber.StatusBadRequest, "year and week must be supplied together")
	}
	if rawYear != "" {
		year, err := strconv.Atoi(rawYear)
		if err != nil || year < 1970 || year > 3000 {
			return WeekQuery{}, fiber.NewError(fiber.StatusBadRequest, "year must be an integer between 1970 and 3000")
		}
		week, err := strconv.Atoi(rawWeek)
		if err != nil || week < 1 || week > 53 {
			return WeekQuery{}, fiber.NewError(fiber.StatusBadRequest, "week must be an integer between 1 and 53")
		}
		q.Year, q.Week, q.HasAnchor = year, week, true
	}

	return q, nil
}

func localUserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
