package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-storefront-checkout/internal/checkout"
	"github.com/ariefcatur/go-storefront-checkout/internal/orders"
	"github.com/ariefcatur/go-storefront-checkout/internal/telemetry"
)

const (
	maxBodyBytes      = 1 << 20
	unexpectedMessage = "unexpected error, please try again later"
)

// Checkout is implemented by *checkout.Service.
type Checkout interface {
	CreateOrder(ctx context.Context, in checkout.CreateOrderInput) (checkout.CreateOrderResult, error)
	ConfirmOrder(ctx context.Context, in checkout.ConfirmOrderInput) (checkout.ConfirmOrderResult, error)
}

type OrdersHandler struct {
	Checkout Checkout
	Log      *zap.Logger
}

type CreateOrderReq struct {
	Customer *orders.Customer  `json:"customer"`
	Items    []orders.LineItem `json:"items"`
	Shipping *decimal.Decimal  `json:"shipping,omitempty"` // hitungan client, cuma buat dicek
}

type CreateOrderResp struct {
	Success bool        `json:"success"`
	OrderID string      `json:"orderId"`
	Total   json.Number `json:"total"`
}

// ConfirmOrderReq carries the provider's approval object as the storefront received it.
type ConfirmOrderReq struct {
	PaymentDetails *struct {
		ID    string `json:"id"`
		Payer *struct {
			EmailAddress string `json:"email_address"`
			Name         struct {
				GivenName string `json:"given_name"`
				Surname   string `json:"surname"`
			} `json:"name"`
		} `json:"payer,omitempty"`
	} `json:"paymentDetails"`
}

type ConfirmOrderResp struct {
	Success       bool   `json:"success"`
	OrderID       string `json:"orderId"`
	TransactionID string `json:"transactionId"`
}

type errorResp struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Post("/orders", h.createOrder)
	r.Post("/orders/{orderId}/confirm", h.confirmOrder)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code. Only validation and payment-status
// messages reach the caller; anything else gets a generic message.
func (h *OrdersHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := orders.CodeOf(err)
	status, msg := http.StatusInternalServerError, unexpectedMessage
	switch code {
	case orders.CodeValidation, orders.CodePaymentNotCompleted:
		status = http.StatusBadRequest
		var e *orders.Error
		if errors.As(err, &e) {
			msg = e.Message
		}
	case orders.CodePaymentLookup:
		msg = "could not verify the payment, please try again later"
	}

	if status >= 500 {
		telemetry.WithTrace(r.Context(), h.Log).Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.String("code", code),
			zap.Error(err))
	}
	writeJSON(w, status, errorResp{Error: strings.ToLower(code), Message: msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return orders.Validationf("invalid json: %v", err)
	}
	return nil
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.Checkout.CreateOrder(r.Context(), checkout.CreateOrderInput{
		Customer:     req.Customer,
		Items:        req.Items,
		ShippingHint: req.Shipping,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreateOrderResp{
		Success: true,
		OrderID: res.OrderID,
		Total:   json.Number(res.Total.StringFixed(2)),
	})
}

func (h *OrdersHandler) confirmOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	var req ConfirmOrderReq
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.PaymentDetails == nil {
		h.writeError(w, r, orders.Validationf("paymentDetails is required"))
		return
	}

	in := checkout.ConfirmOrderInput{OrderID: orderID, PaymentID: req.PaymentDetails.ID}
	if p := req.PaymentDetails.Payer; p != nil {
		in.Payer = orders.Payer{
			Email: p.EmailAddress,
			Name:  strings.TrimSpace(p.Name.GivenName + " " + p.Name.Surname),
		}
	}

	res, err := h.Checkout.ConfirmOrder(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ConfirmOrderResp{Success: true, OrderID: res.OrderID, TransactionID: res.TransactionID})
}
