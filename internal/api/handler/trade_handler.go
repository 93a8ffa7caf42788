package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/madavola/tracegate/internal/core/ports"
)

// TradeHandler proxies transactions and their payments.
type TradeHandler struct {
	trades ports.TradeGateway
}

func NewTradeHandler(trades ports.TradeGateway) *TradeHandler {
	return &TradeHandler{trades: trades}
}

type createTransactionRequest struct {
	SellerActorID int     `json:"seller_actor_id" validate:"required,gt=0"`
	BuyerActorID  int     `json:"buyer_actor_id" validate:"required,gt=0"`
	LotID         int     `json:"lot_id" validate:"required,gt=0"`
	Quantity      float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice     float64 `json:"unit_price" validate:"required,gt=0"`
}

type initiatePaymentRequest struct {
	ProviderCode   string `json:"provider_code" validate:"required"`
	ExternalRef    string `json:"external_ref"`
	IdempotencyKey string `json:"idempotency_key"`
}

// List handles GET /transactions.
func (h *TradeHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	page, err := h.trades.Transactions(c.Request().Context(), sess, parseListQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Get handles GET /transactions/:id.
func (h *TradeHandler) Get(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	tx, err := h.trades.Transaction(c.Request().Context(), sess, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tx)
}

// Create handles POST /transactions.
//
// @Summary      Record a trade
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        body  body      createTransactionRequest  true  "Trade details"
// @Success      201   {object}  domain.Transaction
// @Failure      400   {object}  map[string]string
// @Router       /transactions [post]
func (h *TradeHandler) Create(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createTransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tx, err := h.trades.CreateTransaction(c.Request().Context(), sess, ports.CreateTransactionInput{
		SellerActorID: req.SellerActorID,
		BuyerActorID:  req.BuyerActorID,
		LotID:         req.LotID,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tx)
}

// InitiatePayment handles POST /transactions/:id/payments.
func (h *TradeHandler) InitiatePayment(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req initiatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	payment, err := h.trades.InitiatePayment(c.Request().Context(), sess, id, ports.InitiatePaymentInput{
		ProviderCode:   req.ProviderCode,
		ExternalRef:    req.ExternalRef,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, payment)
}

// Payments handles GET /transactions/:id/payments.
func (h *TradeHandler) Payments(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	payments, err := h.trades.TransactionPayments(c.Request().Context(), sess, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payments)
}
