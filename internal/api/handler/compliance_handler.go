package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

// ComplianceHandler proxies inspections, violation cases and penalties.
type ComplianceHandler struct {
	control ports.ControlGateway
}

func NewComplianceHandler(control ports.ControlGateway) *ComplianceHandler {
	return &ComplianceHandler{control: control}
}

type createInspectionRequest struct {
	InspectedActorID   int    `json:"inspected_actor_id" validate:"omitempty,gt=0"`
	InspectedLotID     int    `json:"inspected_lot_id" validate:"omitempty,gt=0"`
	InspectedInvoiceID int    `json:"inspected_invoice_id" validate:"omitempty,gt=0"`
	Result             string `json:"result" validate:"required,oneof=conforme non_conforme"`
	ReasonCode         string `json:"reason_code"`
	Notes              string `json:"notes"`
	GeoPointID         int    `json:"geo_point_id" validate:"omitempty,gt=0"`
}

type createViolationRequest struct {
	InspectionID  int    `json:"inspection_id" validate:"required,gt=0"`
	ViolationType string `json:"violation_type" validate:"required"`
	LegalBasisRef string `json:"legal_basis_ref"`
}

type createPenaltyRequest struct {
	ViolationCaseID int     `json:"violation_case_id" validate:"required,gt=0"`
	PenaltyType     string  `json:"penalty_type" validate:"required"`
	Amount          float64 `json:"amount" validate:"omitempty,gt=0"`
}

// Inspections handles GET /inspections.
func (h *ComplianceHandler) Inspections(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	inspections, err := h.control.Inspections(c.Request().Context(), sess, parseListQuery(c))
	if err != nil {
		return err
	}
	if inspections == nil {
		inspections = []domain.Inspection{}
	}
	return c.JSON(http.StatusOK, inspections)
}

// CreateInspection handles POST /inspections. An inspection must target
// at least one of actor, lot or invoice.
func (h *ComplianceHandler) CreateInspection(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createInspectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.InspectedActorID == 0 && req.InspectedLotID == 0 && req.InspectedInvoiceID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "inspection needs a target: actor, lot or invoice")
	}

	inspection, err := h.control.CreateInspection(c.Request().Context(), sess, ports.CreateInspectionInput{
		InspectedActorID:   req.InspectedActorID,
		InspectedLotID:     req.InspectedLotID,
		InspectedInvoiceID: req.InspectedInvoiceID,
		Result:             req.Result,
		ReasonCode:         req.ReasonCode,
		Notes:              req.Notes,
		GeoPointID:         req.GeoPointID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, inspection)
}

// Violations handles GET /violations.
func (h *ComplianceHandler) Violations(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	violations, err := h.control.Violations(c.Request().Context(), sess, queryInt(c, "inspection_id"))
	if err != nil {
		return err
	}
	if violations == nil {
		violations = []domain.Violation{}
	}
	return c.JSON(http.StatusOK, violations)
}

// CreateViolation handles POST /violations.
func (h *ComplianceHandler) CreateViolation(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createViolationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	violation, err := h.control.CreateViolation(c.Request().Context(), sess, ports.CreateViolationInput{
		InspectionID:  req.InspectionID,
		ViolationType: req.ViolationType,
		LegalBasisRef: req.LegalBasisRef,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, violation)
}

// Penalties handles GET /penalties.
func (h *ComplianceHandler) Penalties(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	penalties, err := h.control.Penalties(c.Request().Context(), sess, queryInt(c, "violation_case_id"))
	if err != nil {
		return err
	}
	if penalties == nil {
		penalties = []domain.Penalty{}
	}
	return c.JSON(http.StatusOK, penalties)
}

// CreatePenalty handles POST /penalties.
func (h *ComplianceHandler) CreatePenalty(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createPenaltyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	penalty, err := h.control.CreatePenalty(c.Request().Context(), sess, ports.CreatePenaltyInput{
		ViolationCaseID: req.ViolationCaseID,
		PenaltyType:     req.PenaltyType,
		Amount:          req.Amount,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, penalty)
}
