package payment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpvillanueva/oos-backend/pkg/config"
	pkgerrors "github.com/jpvillanueva/oos-backend/pkg/errors"
	"github.com/jpvillanueva/oos-backend/pkg/logger"
)

// orderingStub plays the ordering service for saga tests, recording each call
// and failing where the test scripts it to.
type orderingStub struct {
	mu sync.Mutex

	deliveryCalls  int
	deliveryBodies []DeliveryInfoPayload
	cartBodies     []addToCartRequest
	finalizeCalls  int
	idemKeys       []string

	failCartAt int // 1-based index of the cart call to 500, 0 for never
	failAll    int // status to return for every call, 0 for none
}

func (s *orderingStub) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.idemKeys = append(s.idemKeys, r.Header.Get("Idempotency-Key"))

		if s.failAll != 0 {
			w.WriteHeader(s.failAll)
			return
		}

		switch {
		case r.URL.Path == "/deliveryinfo":
			s.deliveryCalls++
			raw, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			var body DeliveryInfoPayload
			require.NoError(t, json.Unmarshal(raw, &body))
			s.deliveryBodies = append(s.deliveryBodies, body)
			w.WriteHeader(http.StatusCreated)
		case r.URL.Path == "/cart":
			raw, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			var body addToCartRequest
			require.NoError(t, json.Unmarshal(raw, &body))

			if s.failCartAt > 0 && len(s.cartBodies)+1 == s.failCartAt {
				http.Error(w, "store exploded", http.StatusInternalServerError)
				return
			}
			s.cartBodies = append(s.cartBodies, body)
			w.WriteHeader(http.StatusCreated)
		case r.URL.Path == "/cart/finalize":
			s.finalizeCalls++
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newSagaService(t *testing.T, stub *orderingStub) Service {
	t.Helper()
	srv := httptest.NewServer(stub.handler(t))
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(config.OrderingConfig{BaseURL: srv.URL}, sagaConfig())
	require.NoError(t, err)

	logg := logger.New(logger.Options{ServiceName: "payment-test", Output: io.Discard})
	svc, err := NewService(client, nil, nil, logg)
	require.NoError(t, err)
	return svc
}

func confirmInput() ConfirmPaymentInput {
	middle := "D"
	return ConfirmPaymentInput{
		Username:  "alice",
		OrderType: "delivery",
		CartItems: []CartItemPayload{
			{ProductName: "Burger", Quantity: 2, Price: decimal.NewFromInt(150)},
			{ProductName: "Fries", Quantity: 1, Price: decimal.NewFromInt(60)},
		},
		DeliveryInfo: &DeliveryInfoPayload{
			FirstName:   "alice",
			MiddleName:  &middle,
			LastName:    "Reyes",
			Address:     "123 Mabini St",
			City:        "Quezon City",
			Province:    "Metro Manila",
			PhoneNumber: "09171234567",
		},
	}
}

func TestConfirmPaymentRunsAllSteps(t *testing.T) {
	stub := &orderingStub{}
	svc := newSagaService(t, stub)

	err := svc.ConfirmPayment(context.Background(), "tok", "saga-1", confirmInput())
	require.NoError(t, err)

	assert.Equal(t, 1, stub.deliveryCalls)
	require.Len(t, stub.cartBodies, 2)
	assert.Equal(t, "alice", stub.cartBodies[0].Username)
	assert.Equal(t, "Burger", stub.cartBodies[0].ProductName)
	assert.Equal(t, "delivery", stub.cartBodies[0].OrderType)
	assert.Equal(t, 1, stub.finalizeCalls)

	// Step keys derive from the saga key so a retried confirm replays.
	assert.Equal(t,
		[]string{"saga-1:delivery", "saga-1:item:0", "saga-1:item:1", "saga-1:finalize"},
		stub.idemKeys)
}

func TestConfirmPaymentSkipsDeliveryWhenAbsent(t *testing.T) {
	stub := &orderingStub{}
	svc := newSagaService(t, stub)

	input := confirmInput()
	input.DeliveryInfo = nil

	require.NoError(t, svc.ConfirmPayment(context.Background(), "tok", "saga-2", input))
	assert.Equal(t, 0, stub.deliveryCalls)
	assert.Equal(t, 1, stub.finalizeCalls)
}

func TestConfirmPaymentPartialFailureLeavesEarlierStepsCommitted(t *testing.T) {
	stub := &orderingStub{failCartAt: 2}
	svc := newSagaService(t, stub)

	err := svc.ConfirmPayment(context.Background(), "tok", "saga-3", confirmInput())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, http.StatusInternalServerError, typed.HTTPStatus())

	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, stepCartItem, details["step"])
	assert.Equal(t, 1, details["item_index"])

	// No compensation: the delivery row and the first line stay applied,
	// finalize is never reached.
	assert.Equal(t, 1, stub.deliveryCalls)
	require.Len(t, stub.cartBodies, 1)
	assert.Equal(t, "Burger", stub.cartBodies[0].ProductName)
	assert.Equal(t, 0, stub.finalizeCalls)
}

func TestConfirmPaymentSurfacesNoPendingOrder(t *testing.T) {
	stub := &orderingStub{failAll: http.StatusNotFound}
	svc := newSagaService(t, stub)

	input := confirmInput()
	input.DeliveryInfo = nil
	input.CartItems = nil

	err := svc.ConfirmPayment(context.Background(), "tok", "saga-4", input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.True(t, strings.Contains(typed.Message(), "no pending order"), "got %q", typed.Message())
}

func TestConfirmPaymentValidation(t *testing.T) {
	svc := newSagaService(t, &orderingStub{})

	err := svc.ConfirmPayment(context.Background(), "tok", "", ConfirmPaymentInput{OrderType: "delivery"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	err = svc.ConfirmPayment(context.Background(), "tok", "", ConfirmPaymentInput{Username: "alice"})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestConfirmPaymentForwardsStorefrontFields(t *testing.T) {
	stub := &orderingStub{}
	svc := newSagaService(t, stub)

	productID := int64(7)
	input := confirmInput()
	input.Notes = "leave at the gate"
	input.Subtotal = decimal.NewFromInt(360)
	input.DeliveryFee = decimal.NewFromInt(50)
	input.Total = decimal.NewFromInt(410)
	input.CartItems[0].ProductID = &productID

	require.NoError(t, svc.ConfirmPayment(context.Background(), "tok", "saga-6", input))

	require.Len(t, stub.deliveryBodies, 1)
	require.NotNil(t, stub.deliveryBodies[0].Notes)
	assert.Equal(t, "leave at the gate", *stub.deliveryBodies[0].Notes)

	require.Len(t, stub.cartBodies, 2)
	require.NotNil(t, stub.cartBodies[0].ProductID)
	assert.Equal(t, int64(7), *stub.cartBodies[0].ProductID)
	assert.Nil(t, stub.cartBodies[1].ProductID)
}

func TestConfirmPaymentKeepsDeliveryNotesWhenSet(t *testing.T) {
	stub := &orderingStub{}
	svc := newSagaService(t, stub)

	own := "ring the bell"
	input := confirmInput()
	input.Notes = "leave at the gate"
	input.DeliveryInfo.Notes = &own

	require.NoError(t, svc.ConfirmPayment(context.Background(), "tok", "saga-7", input))

	require.Len(t, stub.deliveryBodies, 1)
	require.NotNil(t, stub.deliveryBodies[0].Notes)
	assert.Equal(t, "ring the bell", *stub.deliveryBodies[0].Notes)
}

func TestConfirmPaymentAbortsWhenCallerGone(t *testing.T) {
	stub := &orderingStub{}
	svc := newSagaService(t, stub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.ConfirmPayment(ctx, "tok", "saga-5", confirmInput())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
	assert.Equal(t, 0, stub.deliveryCalls)
	assert.Equal(t, 0, stub.finalizeCalls)
}
