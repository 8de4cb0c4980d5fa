package redis

import "testing"

func TestKeyBuilding(t *testing.T) {
	t.Parallel()

	c := &Client{}

	if got := c.IdempotencyKey("alice|POST|/cart", "abc"); got != "oos:idempotency:alice|POST|/cart:abc" {
		t.Fatalf("unexpected idempotency key %q", got)
	}
	if got := c.CounterKey("orders"); got != "oos:counter:orders" {
		t.Fatalf("unexpected counter key %q", got)
	}
	if got := c.buildKey("a", "", "b"); got != "oos:a:b" {
		t.Fatalf("empty parts should be skipped, got %q", got)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	t.Parallel()

	c := &Client{}
	if err := c.Ping(t.Context()); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if _, err := c.Get(t.Context(), "k"); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
}
