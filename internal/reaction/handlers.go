package reaction

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/:id/reactions", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Emoji string `json:"emoji"`
		}
		if err := c.BodyParser(&body); err != nil || body.Emoji == "" {
			return fiber.NewError(fiber.StatusBadRequest, "emoji required")
		}
		reaction, err := svc.React(c.Context(), c.Params("id"), localUserID(c), body.Emoji)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(reaction)
	})

	r.Get("/:id/reactions", func(c *fiber.Ctx) error {
		reactions, err := svc.List(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(reactions)
	})

	r.Delete("/:id/reactions", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Remove(c.Context(), c.Params("id"), localUserID(c)); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func localUserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
