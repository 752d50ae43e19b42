package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	authctrl "github.com/spoorthi4230-pixel/book-worm-desk/app/echoServer/controller/auth"
	bookctrl "github.com/spoorthi4230-pixel/book-worm-desk/app/echoServer/controller/book"
	circctrl "github.com/spoorthi4230-pixel/book-worm-desk/app/echoServer/controller/circulation"
	reportctrl "github.com/spoorthi4230-pixel/book-worm-desk/app/echoServer/controller/report"
	userctrl "github.com/spoorthi4230-pixel/book-worm-desk/app/echoServer/controller/user"
)

type C struct {
	Auth        *authctrl.Controller
	Book        *bookctrl.Controller
	Circulation *circctrl.Controller
	User        *userctrl.Controller
	Report      *reportctrl.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)
	pub.GET("/books", c.Book.List)
	pub.GET("/books/:code", c.Book.Detail)

	// Auth
	auth := e.Group("/v1")
	auth.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(c.JWTSecret),
		TokenLookup: "header:Authorization:Bearer ",
	}))
	auth.Use(claims())

	// Catalog management (admin-gated inside the controller)
	auth.POST("/books", c.Book.Create)
	auth.DELETE("/books/:code", c.Book.Delete)

	// Profiles
	auth.GET("/users/me", c.User.Me)
	auth.POST("/users/me/document", c.User.UploadDocument)
	auth.GET("/users", c.User.List)
	auth.PATCH("/users/:id/verification", c.User.Verify)

	// Circulation desk
	auth.GET("/circulation/books/:code", c.Circulation.LookupBook)
	auth.GET("/circulation/users/:usn", c.Circulation.LookupUser)
	auth.GET("/circulation/open", c.Circulation.ListOpen)
	auth.POST("/circulation/issue", c.Circulation.Issue)
	auth.POST("/circulation/return", c.Circulation.Return)

	// Admin dashboard
	auth.GET("/admin/dashboard", c.Report.Dashboard)
}

// claims lifts account id and role out of the verified token so handlers
// read plain context keys.
func claims() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tok, ok := ctx.Get("user").(*jwt.Token)
			if !ok || tok == nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			mc, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			sub, ok := mc["sub"].(float64)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("account_id", int64(sub))
			if role, ok := mc["role"].(string); ok {
				ctx.Set("role", role)
			}
			return next(ctx)
		}
	}
}
