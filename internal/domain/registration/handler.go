package registration

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mediccore/mediccore/internal/domain/billing"
	"github.com/mediccore/mediccore/internal/domain/identity"
	"github.com/mediccore/mediccore/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/registro", auth.RequireRole("admin", "recepcion", "cajero"))
	g.POST("", h.Start)
	g.GET("/:id", h.Get)
	g.POST("/:id/paciente", h.SetPatient)
	g.POST("/:id/estudios", h.AddStudy)
	g.DELETE("/:id/estudios/:estudioId", h.RemoveStudy)
	g.PUT("/:id/cobertura", h.SetCobertura)
	g.PUT("/:id/pago", h.SetPago)
	g.POST("/:id/avanzar", h.Advance)
	g.POST("/:id/atras", h.Back)
	g.POST("/:id/finalizar", h.Finalize)
}

func (h *Handler) Start(c echo.Context) error {
	w := h.svc.Start()
	return c.JSON(http.StatusCreated, NewView(w))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	w, err := h.svc.Get(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "registro not found")
	}
	return c.JSON(http.StatusOK, NewView(w))
}

// SetPatient accepts either an existing paciente_id or a full new-patient
// form, mirroring the two identification paths of the intake screen.
func (h *Handler) SetPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var body struct {
		PacienteID *uuid.UUID        `json:"paciente_id"`
		Paciente   *identity.Patient `json:"paciente"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	switch {
	case body.PacienteID != nil:
		err = h.svc.SelectPatient(c.Request().Context(), id, *body.PacienteID)
	case body.Paciente != nil:
		err = h.svc.SubmitNewPatient(id, body.Paciente)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "paciente_id or paciente is required")
	}
	if err != nil {
		return h.wizardError(err)
	}
	return h.respond(c, id)
}

func (h *Handler) AddStudy(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var body struct {
		EstudioID uuid.UUID `json:"estudio_id"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.svc.AddStudy(c.Request().Context(), id, body.EstudioID); err != nil {
		return h.wizardError(err)
	}
	return h.respond(c, id)
}

func (h *Handler) RemoveStudy(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	estudioID, err := uuid.Parse(c.Param("estudioId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid estudio id")
	}

	if err := h.svc.RemoveStudy(id, estudioID); err != nil {
		return h.wizardError(err)
	}
	return h.respond(c, id)
}

func (h *Handler) SetCobertura(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var body struct {
		EstudioID uuid.UUID `json:"estudio_id"`
		Monto     float64   `json:"monto"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.svc.SetCobertura(id, body.EstudioID, body.Monto); err != nil {
		return h.wizardError(err)
	}
	return h.respond(c, id)
}

func (h *Handler) SetPago(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var body struct {
		MetodoPago  string   `json:"metodo_pago"`
		MontoPagado float64  `json:"monto_pagado"`
		Descuento   *float64 `json:"descuento"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if body.Descuento != nil {
		if err := h.svc.SetDescuento(id, *body.Descuento); err != nil {
			return h.wizardError(err)
		}
	}
	if err := h.svc.SetPago(id, body.MetodoPago, body.MontoPagado); err != nil {
		return h.wizardError(err)
	}
	return h.respond(c, id)
}

func (h *Handler) Advance(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Advance(id); err != nil {
		return h.wizardError(err)
	}
	return h.respond(c, id)
}

func (h *Handler) Back(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Back(id); err != nil {
		return h.wizardError(err)
	}
	return h.respond(c, id)
}

func (h *Handler) Finalize(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	result, err := h.svc.Finalize(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, billing.ErrCajaCerrada) {
			return echo.NewHTTPError(http.StatusPreconditionFailed, err.Error())
		}
		if errors.Is(err, ErrSaveFailed) {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return h.wizardError(err)
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) respond(c echo.Context, id uuid.UUID) error {
	w, err := h.svc.Get(id)
	if err != nil {
		return h.wizardError(err)
	}
	return c.JSON(http.StatusOK, NewView(w))
}

func (h *Handler) wizardError(err error) error {
	if errors.Is(err, ErrSessionNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}
