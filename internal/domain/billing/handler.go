package billing

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mediccore/mediccore/internal/platform/auth"
	"github.com/mediccore/mediccore/pkg/pagination"
)

type Handler struct {
	svc    *Service
	ledger *Ledger
}

func NewHandler(svc *Service, ledger *Ledger) *Handler {
	return &Handler{svc: svc, ledger: ledger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "cajero", "recepcion"))
	read.GET("/facturas", h.List)
	read.GET("/facturas/numero/:numero", h.GetByNumero)
	read.GET("/facturas/:id", h.Get)
	read.GET("/caja/resumen", h.LedgerSnapshot)

	write := api.Group("", auth.RequireRole("admin", "cajero"))
	write.POST("/facturas", h.Create)
	write.PUT("/facturas/:id/anular", h.Anular)
}

func (h *Handler) Create(c echo.Context) error {
	var inv Invoice
	if err := c.Bind(&inv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &inv); err != nil {
		if errors.Is(err, ErrCajaCerrada) {
			return echo.NewHTTPError(http.StatusPreconditionFailed, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, inv)
}

func (h *Handler) GetByNumero(c echo.Context) error {
	inv, err := h.svc.GetByNumero(c.Request().Context(), c.Param("numero"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "factura not found")
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	inv, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "factura not found")
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) Anular(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	inv, err := h.svc.Anular(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)

	params := map[string]string{}
	for _, key := range []string{"estado", "paciente_id", "numero"} {
		if v := c.QueryParam(key); v != "" {
			params[key] = v
		}
	}

	items, total, err := h.svc.List(c.Request().Context(), params, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) LedgerSnapshot(c echo.Context) error {
	return c.JSON(http.StatusOK, h.ledger.Snapshot())
}
