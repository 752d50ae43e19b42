package user

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/spoorthi4230-pixel/book-worm-desk/app/echoServer/jwtx"
	"github.com/spoorthi4230-pixel/book-worm-desk/model"
	profilesvc "github.com/spoorthi4230-pixel/book-worm-desk/service/profile"
)

type Controller struct {
	Svc profilesvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/users/me
func (h *Controller) Me(c echo.Context) error {
	uid, err := jwtx.AccountIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	p, err := h.Svc.Me(c.Request().Context(), uid)
	if err != nil {
		if profilesvc.Code(err) == profilesvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "profile not found"})
		}
		h.Log.Error("profile me", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, p)
}

// POST /v1/users/me/document accepts a multipart upload of the identity document.
func (h *Controller) UploadDocument(c echo.Context) error {
	uid, err := jwtx.AccountIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	fh, err := c.FormFile("document")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "document file required"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "unreadable file"})
	}
	defer f.Close()

	p, err := h.Svc.UploadDocument(
		c.Request().Context(), uid,
		fh.Filename, fh.Header.Get("Content-Type"), f,
	)
	if err != nil {
		switch profilesvc.Code(err) {
		case profilesvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad upload"})
		case profilesvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "profile not found"})
		case profilesvc.ErrUploadFailed:
			h.Log.Error("document upload", "err", err)
			return c.JSON(http.StatusBadGateway, echo.Map{"message": "document store unavailable"})
		default:
			h.Log.Error("document upload", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, p)
}

// GET /v1/users  (admin)
func (h *Controller) List(c echo.Context) error {
	if !jwtx.IsAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("profile list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// PATCH /v1/users/:id/verification  (admin)
func (h *Controller) Verify(c echo.Context) error {
	if !jwtx.IsAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req VerifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "status must be verified or rejected"})
	}

	if err := h.Svc.SetVerification(c.Request().Context(), id, model.DocStatus(req.Status)); err != nil {
		switch profilesvc.Code(err) {
		case profilesvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad status"})
		case profilesvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "profile not found"})
		default:
			h.Log.Error("profile verify", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}
