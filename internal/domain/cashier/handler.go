package cashier

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mediccore/mediccore/internal/platform/auth"
	"github.com/mediccore/mediccore/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "cajero"))
	g.GET("/turnos", h.List)
	g.GET("/turnos/activo", h.GetActive)
	g.POST("/turnos/abrir", h.Open)
	g.POST("/turnos/cerrar", h.Close)
}

func (h *Handler) Open(c echo.Context) error {
	userID, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
	}

	shift, err := h.svc.Open(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, shift)
}

func (h *Handler) Close(c echo.Context) error {
	var body struct {
		Confirmar bool `json:"confirmar"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	shift, err := h.svc.Close(c.Request().Context(), body.Confirmar)
	if err != nil {
		if errors.Is(err, ErrNoOpenShift) {
			return echo.NewHTTPError(http.StatusNotFound, "no hay turno abierto")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, shift)
}

func (h *Handler) GetActive(c echo.Context) error {
	shift, err := h.svc.GetActive(c.Request().Context())
	if err != nil {
		if errors.Is(err, ErrNoOpenShift) {
			return echo.NewHTTPError(http.StatusNotFound, "no hay turno abierto")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, shift)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)

	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
