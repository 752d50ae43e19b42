package circulation

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/spoorthi4230-pixel/book-worm-desk/app/echoServer/jwtx"
	"github.com/spoorthi4230-pixel/book-worm-desk/service/catalog"
	cs "github.com/spoorthi4230-pixel/book-worm-desk/service/circulation"
)

// Controller drives the issue/return desk. Every route is admin-only: the
// JWT role claim is the authorization answer and nothing runs without it.
type Controller struct {
	Svc cs.Service
	Cat catalog.Service
	V   *validator.Validate
	Log *slog.Logger
}

func (h *Controller) statusFor(c echo.Context, op string, err error) error {
	switch cs.Code(err) {
	case cs.ErrBadInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid code"})
	case cs.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	case cs.ErrBookUnavailable:
		return c.JSON(http.StatusConflict, echo.Map{"message": "book is currently issued"})
	case cs.ErrBookNotIssued:
		return c.JSON(http.StatusConflict, echo.Map{"message": "book is not issued"})
	case cs.ErrInconsistentState:
		h.Log.Error("ledger inconsistency detected", "op", op, "err", err)
		return c.JSON(http.StatusConflict, echo.Map{
			"message": "book state inconsistent, operator review required",
		})
	case cs.ErrStoreUnavailable:
		h.Log.Error("store unavailable", "op", op, "err", err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "store unavailable, retry later"})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

func (h *Controller) catalogStatus(c echo.Context, op string, err error) error {
	switch catalog.Code(err) {
	case catalog.ErrBadInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid code"})
	case catalog.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	case catalog.ErrStoreUnavailable:
		h.Log.Error("store unavailable", "op", op, "err", err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "store unavailable, retry later"})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

// GET /v1/circulation/books/:code is the desk preview before confirming: the
// resolved record plus its circulation history.
func (h *Controller) LookupBook(c echo.Context) error {
	if !jwtx.IsAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	ctx := c.Request().Context()
	b, err := h.Cat.FindBookByCode(ctx, c.Param("code"))
	if err != nil {
		return h.catalogStatus(c, "circulation lookup book", err)
	}
	rows, err := h.Svc.HistoryForBook(ctx, b.Code)
	if err != nil {
		return h.statusFor(c, "circulation lookup book", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"book": b, "history": rows})
}

// GET /v1/circulation/users/:usn
func (h *Controller) LookupUser(c echo.Context) error {
	if !jwtx.IsAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	ctx := c.Request().Context()
	u, err := h.Cat.FindUserBySerial(ctx, c.Param("usn"))
	if err != nil {
		return h.catalogStatus(c, "circulation lookup user", err)
	}
	rows, err := h.Svc.HistoryForUser(ctx, u.USN)
	if err != nil {
		return h.statusFor(c, "circulation lookup user", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u, "history": rows})
}

// POST /v1/circulation/issue
func (h *Controller) Issue(c echo.Context) error {
	if !jwtx.IsAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	var req IssueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	out, err := h.Svc.Issue(c.Request().Context(), req.BookCode, req.USN)
	if err != nil {
		return h.statusFor(c, "circulation issue", err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"book_code": out.Book.Code,
		"usn":       out.User.USN,
		"issued_at": out.Txn.IssuedAt.Format(time.RFC3339),
		"due_at":    out.Txn.DueAt.Format(time.RFC3339),
	})
}

// POST /v1/circulation/return
func (h *Controller) Return(c echo.Context) error {
	if !jwtx.IsAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	var req ReturnReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	out, err := h.Svc.Return(c.Request().Context(), req.BookCode, cs.ReturnOpts{
		ForceAvailable: req.ForceAvailable,
	})
	if err != nil {
		return h.statusFor(c, "circulation return", err)
	}

	resp := echo.Map{"book_code": out.Book.Code}
	if out.Txn != nil && out.Txn.ReturnedAt != nil {
		resp["returned_at"] = out.Txn.ReturnedAt.Format(time.RFC3339)
	} else {
		resp["repaired"] = true
	}
	return c.JSON(http.StatusOK, resp)
}

// GET /v1/circulation/open lists all books currently out.
func (h *Controller) ListOpen(c echo.Context) error {
	if !jwtx.IsAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	rows, err := h.Svc.ListOpen(c.Request().Context())
	if err != nil {
		h.Log.Error("circulation list open", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
