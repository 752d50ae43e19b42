package report

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/spoorthi4230-pixel/book-worm-desk/app/echoServer/jwtx"
	reportsvc "github.com/spoorthi4230-pixel/book-worm-desk/service/report"
)

type Controller struct {
	Svc reportsvc.Service
	Log *slog.Logger
}

// GET /v1/admin/dashboard
func (h *Controller) Dashboard(c echo.Context) error {
	if !jwtx.IsAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	d, err := h.Svc.Dashboard(c.Request().Context())
	if err != nil {
		h.Log.Error("dashboard", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, d)
}
