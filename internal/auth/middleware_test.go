package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestJWTMiddlewareAllowsValidToken(t *testing.T) {
	svc := NewService("secret", nil)
	token, err := svc.signToken("user-1", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	app := fiber.New()
	app.Get("/me", JWTMiddleware("secret"), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("user_id")})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ok, got %v %v", resp.StatusCode, err)
	}
}

func TestJWTMiddlewareMissingToken(t *testing.T) {
	app := fiber.New()
	app.Get("/me", JWTMiddleware("secret"), func(c *fiber.Ctx) error { return nil })

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized")
	}
}

func TestJWTMiddlewareBadToken(t *testing.T) {
	app := fiber.New()
	app.Get("/me", JWTMiddleware("secret"), func(c *fiber.Ctx) error { return nil })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized")
	}
}

func TestJWTMiddlewareWrongScheme(t *testing.T) {
	app := fiber.New()
	app.Get("/me", JWTMiddleware("secret"), func(c *fiber.Ctx) error { return nil })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized")
	}
}

func TestJWTMiddlewareEmptyIDClaim(t *testing.T) {
	svc := NewService("secret", nil)
	token, err := svc.signToken("", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	app := fiber.New()
	app.Get("/me", JWTMiddleware("secret"), func(c *fiber.Ctx) error { return nil })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized for empty id claim")
	}
}

func TestBearerToken(t *testing.T) {
	if token, ok := bearerToken("Bearer abc"); !ok || token != "abc" {
		t.Fatalf("expected token")
	}
	if token, ok := bearerToken("bearer abc"); !ok || token != "abc" {
		t.Fatalf("expected case-insensitive scheme")
	}
	for _, header := range []string{"", "abc", "Bearer ", "Basic abc"} {
		if _, ok := bearerToken(header); ok {
			t.Fatalf("bearerToken(%q) accepted", header)
		}
	}
}
