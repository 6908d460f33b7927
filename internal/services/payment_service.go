package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"vitrina/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutRequest is what the shop asks the payment provider to charge.
type CheckoutRequest struct {
	OrderID     string
	Description string
	Currency    string
	// Amount in minor currency units.
	Amount int64
}

// PaymentGateway turns a checkout request into a hosted payment page URL.
type PaymentGateway interface {
	CheckoutURL(ctx context.Context, req CheckoutRequest) (string, error)
}

// FondyGateway talks to a Fondy compatible checkout API.
type FondyGateway struct {
	baseURL    string
	merchantID string
	secretKey  string
	timeout    time.Duration
}

// NewFondyGateway creates a gateway for the merchant account at baseURL.
func NewFondyGateway(baseURL, merchantID, secretKey string, timeout time.Duration) *FondyGateway {
	return &FondyGateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		merchantID: merchantID,
		secretKey:  secretKey,
		timeout:    timeout,
	}
}

type fondyEnvelope struct {
	Request map[string]string `json:"request"`
}

type fondyResponse struct {
	Response struct {
		Status       string `json:"response_status"`
		CheckoutURL  string `json:"checkout_url"`
		ErrorMessage string `json:"error_message"`
		ErrorCode    int    `json:"error_code"`
	} `json:"response"`
}

// Signature signs params the way the provider expects: SHA1 over the secret and every
// non-empty value ordered by key, joined with "|".
func Signature(secret string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if k == "signature" || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+1)
	parts = append(parts, secret)
	for _, k := range keys {
		parts = append(parts, params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// CheckoutURL posts a signed checkout request and returns the hosted page URL.
func (g *FondyGateway) CheckoutURL(ctx context.Context, req CheckoutRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := map[string]string{
		"merchant_id": g.merchantID,
		"order_id":    req.OrderID,
		"order_desc":  req.Description,
		"currency":    req.Currency,
		"amount":      strconv.FormatInt(req.Amount, 10),
	}
	params["signature"] = Signature(g.secretKey, params)

	a := fiber.Post(g.baseURL + "/api/checkout/url/").Timeout(g.timeout)
	a.JSON(fondyEnvelope{Request: params})
	if err := a.Parse(); err != nil {
		return "", fmt.Errorf("%w: checkout request: %v", models.ErrUpstream, err)
	}

	var out fondyResponse
	code, _, errs := a.Struct(&out)
	if len(errs) > 0 {
		return "", fmt.Errorf("%w: checkout request: %v", models.ErrUpstream, errs[0])
	}
	if code != fiber.StatusOK {
		return "", fmt.Errorf("%w: checkout answered %d", models.ErrUpstream, code)
	}
	if out.Response.Status != "success" || out.Response.CheckoutURL == "" {
		return "", fmt.Errorf("%w: checkout rejected (%d): %s", models.ErrUpstream, out.Response.ErrorCode, out.Response.ErrorMessage)
	}
	return out.Response.CheckoutURL, nil
}

// PaymentService starts the payment of a cart.
type PaymentService struct {
	gateway   PaymentGateway
	currency  string
	publisher EventPublisher
	logger    *zap.Logger
}

// NewPaymentService creates a new PaymentService. publisher may be nil.
func NewPaymentService(gateway PaymentGateway, currency string, publisher EventPublisher, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		gateway:   gateway,
		currency:  currency,
		publisher: publisher,
		logger:    logger,
	}
}

// Checkout returns the URL to send the buyer to. A zero amount has nothing to pay;
// skipped is then true and the gateway is not called.
func (s *PaymentService) Checkout(ctx context.Context, amount float64) (redirectURL string, skipped bool, err error) {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "", false, models.NewValidationError("amount", "must be greater than or equal to 0")
	}
	minorUnits := math.Round(amount * 100)
	// float64(math.MaxInt64) is 2^63, the first value that no longer fits.
	if minorUnits >= float64(math.MaxInt64) {
		return "", false, models.NewValidationError("amount", "is too large")
	}
	minor := int64(minorUnits)
	if minor == 0 {
		return "", true, nil
	}

	req := CheckoutRequest{
		OrderID:     uuid.NewString(),
		Description: "vitrina order",
		Currency:    s.currency,
		Amount:      minor,
	}
	url, err := s.gateway.CheckoutURL(ctx, req)
	if err != nil {
		s.logger.Error("checkout failed", zap.String("order_id", req.OrderID), zap.Int64("amount", minor), zap.Error(err))
		return "", false, err
	}

	s.logger.Info("checkout started", zap.String("order_id", req.OrderID), zap.Int64("amount", minor))
	publish(s.publisher, s.logger, EventCheckoutStarted, map[string]interface{}{
		"order_id": req.OrderID,
		"amount":   minor,
		"currency": req.Currency,
	})
	return url, false, nil
}
