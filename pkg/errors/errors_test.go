package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	t.Parallel()

	if got := MetadataFor(CodeValidation).HTTPStatus; got != http.StatusBadRequest {
		t.Fatalf("validation status = %d", got)
	}
	if got := MetadataFor(CodeNotFound).HTTPStatus; got != http.StatusNotFound {
		t.Fatalf("not found status = %d", got)
	}
	if got := MetadataFor(Code("bogus")).HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("unknown code status = %d", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("driver exploded")
	err := Wrap(CodeInternal, cause, "persist order")

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable")
	}
	if err.Code() != CodeInternal {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestNewUpstreamOverridesStatus(t *testing.T) {
	t.Parallel()

	err := NewUpstream(http.StatusInternalServerError, "cart service error")
	if err.Code() != CodeUpstream {
		t.Fatalf("unexpected code %s", err.Code())
	}
	if got := err.HTTPStatus(); got != http.StatusInternalServerError {
		t.Fatalf("expected peer status passthrough, got %d", got)
	}

	plain := New(CodeUpstream, "no status attached")
	if got := plain.HTTPStatus(); got != http.StatusBadGateway {
		t.Fatalf("expected default upstream status, got %d", got)
	}
}

func TestAsUnwrapsNestedTypedError(t *testing.T) {
	t.Parallel()

	inner := New(CodeNotFound, "no pending order")
	outer := Wrap(CodeInternal, inner, "finalize")

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeInternal {
		t.Fatalf("expected outermost code, got %s", typed.Code())
	}
	if As(errors.New("plain")) != nil {
		t.Fatal("plain errors must not convert")
	}
}
