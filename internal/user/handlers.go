package user

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/me", authMiddleware, func(c *fiber.Ctx) error {
		profile, err := svc.Get(c.Context(), localUserID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.JSON(profile)
	})

	r.Get("/username-check", func(c *fiber.Ctx) error {
		username := c.Query("username")
		if username == "" {
			return fiber.NewError(fiber.StatusBadRequest, "username required")
		}
		available, err := svc.UsernameAvailable(c.Context(), username)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"username": username, "available": available})
	})

	r.Patch("/username", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Username string `json:"username"`
		}
		if err := c.BodyParser(&body); err != nil || body.Username == "" {
			return fiber.NewError(fiber.StatusBadRequest, "username required")
		}
		profile, err := svc.UpdateUsername(c.Context(), localUserID(c), body.Username)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(profile)
	})

	r.Patch("/display-name", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			DisplayName string `json:"displayName"`
		}
		if err := c.BodyParser(&body); err != nil || body.DisplayName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "displayName required")
		}
		profile, err := svc.UpdateDisplayName(c.Context(), localUserID(c), body.DisplayName)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(profile)
	})

	r.Patch("/profile", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Bio       string `json:"bio"`
			AvatarURI string `json:"avatarUri"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		profile, err := svc.UpdateProfile(c.Context(), localUserID(c), body.Bio, body.AvatarURI)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(profile)
	})
}

func localUserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
