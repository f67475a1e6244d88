package image

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
)

var ErrUnsupportedType = errors.New("unsupported image type")

func RegisterRoutes(r fiber.Router, svc *Service, dataPath string, authMiddleware fiber.Handler) {
	imageDir := filepath.Join(dataPath, "images")

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		file, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file required")
		}

		uri, err := svc.SaveImage(c.Context(), localUserID(c), file.Header.Get("Content-Type"))
		if errors.Is(err, ErrUnsupportedType) {
			return fiber.NewError(fiber.StatusUnsupportedMediaType, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		if err := os.MkdirAll(imageDir, 0o755); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if err := c.SaveFile(file, filepath.Join(imageDir, uri)); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"uri": uri})
	})

	r.Get("/:uri", func(c *fiber.Ctx) error {
		uri, ok := imageName(c.Params("uri"))
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "invalid uri")
		}
		path := filepath.Join(imageDir, uri)
		if _, err := os.Stat(path); err != nil {
			return fiber.NewError(fiber.StatusNotFound, "image not found")
		}
		return c.SendFile(path)
	})
}

// imageName decodes a :uri parameter and rejects anything other than a bare
// file name. The router normalizes encoded traversal out of the path before
// routing; this guard covers anything that reaches the handler regardless.
func imageName(param string) (string, bool) {
	name, err := url.PathUnescape(param)
	if err != nil || name == "" || name != filepath.Base(name) {
		return "", false
	}
	return name, true
}

func localUserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
