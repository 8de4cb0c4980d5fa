package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/jpvillanueva/oos-backend/pkg/errors"
	"github.com/jpvillanueva/oos-backend/pkg/logger"
	"github.com/jpvillanueva/oos-backend/pkg/metrics"
)

// Saga step names, also used as metric labels.
const (
	stepDeliveryInfo = "delivery_info"
	stepCartItem     = "cart_item"
	stepFinalize     = "finalize"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// Service runs the payment confirmation saga: persist delivery info, push
// each cart line into the ordering service, then finalize the order. There is
// no compensation; a mid-saga failure leaves earlier steps committed and the
// failing step's error is surfaced with its step name attached.
type Service interface {
	ConfirmPayment(ctx context.Context, token, idempotencyKey string, input ConfirmPaymentInput) error
	CreateCheckout(ctx context.Context, input CheckoutInput) (string, error)
}

type service struct {
	ordering OrderingClient
	checkout CheckoutProvider
	saga     *metrics.SagaMetrics
	logg     *logger.Logger
}

// NewService wires the orchestrator. The checkout provider may be nil when no
// processor is configured; CreateCheckout then reports the dependency missing.
func NewService(ordering OrderingClient, checkout CheckoutProvider, saga *metrics.SagaMetrics, logg *logger.Logger) (Service, error) {
	if ordering == nil {
		return nil, fmt.Errorf("ordering client is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{ordering: ordering, checkout: checkout, saga: saga, logg: logg}, nil
}

// CreateCheckout opens a hosted checkout session with the processor and hands
// back the URL the buyer pays at. Amounts arrive in pesos and the processor
// takes centavos.
func (s *service) CreateCheckout(ctx context.Context, input CheckoutInput) (string, error) {
	if !input.Amount.IsPositive() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if strings.TrimSpace(input.Description) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if strings.TrimSpace(input.ReferenceNumber) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "reference number is required")
	}
	if strings.TrimSpace(input.RedirectURL) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "redirect url is required")
	}
	if s.checkout == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "checkout provider not configured")
	}

	session, err := s.checkout.CreateCheckoutSession(ctx, CheckoutSessionParams{
		Name:        checkoutLineName,
		AmountCents: input.Amount.Mul(decimal.NewFromInt(100)).IntPart(),
		Description: input.Description,
		Reference:   input.ReferenceNumber,
		SuccessURL:  input.RedirectURL + "?status=success",
	})
	if err != nil {
		s.logg.Error(ctx, "checkout session failed", err)
		if typed := pkgerrors.As(err); typed != nil {
			return "", typed
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create checkout session")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"reference_number": input.ReferenceNumber,
	}), "checkout session created")
	return session.CheckoutURL, nil
}

func (s *service) ConfirmPayment(ctx context.Context, token, idempotencyKey string, input ConfirmPaymentInput) error {
	if strings.TrimSpace(input.Username) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if strings.TrimSpace(input.OrderType) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order type is required")
	}
	// Steps derive their own keys from the saga key so a retried confirm
	// replays instead of double-applying.
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	ctx = s.logg.WithUsername(ctx, input.Username)

	if err := s.run(ctx, stepDeliveryInfo, func(ctx context.Context) error {
		if input.DeliveryInfo == nil {
			return nil
		}
		info := *input.DeliveryInfo
		// Checkout-level notes back-fill the delivery record when it has none.
		if (info.Notes == nil || strings.TrimSpace(*info.Notes) == "") && strings.TrimSpace(input.Notes) != "" {
			notes := input.Notes
			info.Notes = &notes
		}
		return s.ordering.SaveDeliveryInfo(ctx, token, idempotencyKey+":delivery", info)
	}); err != nil {
		return s.fail(ctx, err)
	}

	for i, item := range input.CartItems {
		stepKey := fmt.Sprintf("%s:item:%d", idempotencyKey, i)
		request := addToCartRequest{
			Username:        input.Username,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			ProductType:     item.ProductType,
			ProductCategory: item.ProductCategory,
			Quantity:        item.Quantity,
			Price:           item.Price,
			OrderType:       input.OrderType,
			PaymentMethod:   input.PaymentMethod,
		}
		index := i
		if err := s.run(ctx, stepCartItem, func(ctx context.Context) error {
			return s.ordering.AddCartItem(ctx, token, stepKey, request)
		}); err != nil {
			if typed := pkgerrors.As(err); typed != nil {
				typed.WithDetails(map[string]any{"step": stepCartItem, "item_index": index})
			}
			return s.fail(ctx, err)
		}
	}

	if err := s.run(ctx, stepFinalize, func(ctx context.Context) error {
		return s.ordering.FinalizeOrder(ctx, token, idempotencyKey+":finalize", input.Username)
	}); err != nil {
		return s.fail(ctx, err)
	}

	s.saga.IncSaga(outcomeSuccess)
	s.logg.Info(ctx, "payment confirmed")
	return nil
}

// run executes one saga step, aborting when the caller has gone away and
// tagging failures with the step name.
func (s *service) run(ctx context.Context, step string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saga aborted").
			WithDetails(map[string]any{"step": step})
	}

	stepCtx := s.logg.WithSagaStep(ctx, step)
	start := time.Now()
	err := fn(stepCtx)
	s.saga.ObserveStep(step, time.Since(start))
	if err == nil {
		return nil
	}

	s.saga.IncStepFailure(step)
	s.logg.Error(stepCtx, "saga step failed", err)

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saga step failed")
	}
	if typed.Details() == nil {
		typed.WithDetails(map[string]any{"step": step})
	}
	return typed
}

func (s *service) fail(ctx context.Context, err error) error {
	s.saga.IncSaga(outcomeFailure)
	return err
}
