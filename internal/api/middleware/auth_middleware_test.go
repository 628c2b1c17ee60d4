package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/scheduling-dashboard/configs"
	"github.com/maheshrc27/scheduling-dashboard/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(cfg config.Config) *fiber.App {
	app := fiber.New()
	app.Use(NewAuthMiddleware(cfg).AuthMiddleware())
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_id").(string))
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	cfg := config.Config{SecretKey: "secret", CookieName: "dashboard_session"}
	app := newApp(cfg)

	token, err := utils.GenerateToken("secret", "user-1", time.Hour)
	require.NoError(t, err)
	wrong, err := utils.GenerateToken("other", "user-1", time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{name: "missing", want: http.StatusUnauthorized},
		{name: "bearer", header: "Bearer " + token, want: http.StatusOK},
		{name: "cookie", cookie: token, want: http.StatusOK},
		{name: "bad signature", header: "Bearer " + wrong, want: http.StatusUnauthorized},
		{name: "bad cookie", cookie: "garbage", want: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", want: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: tc.cookie})
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestAuthMiddlewareDisabledWithoutSecret(t *testing.T) {
	app := newApp(config.Config{CookieName: "dashboard_session"})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
