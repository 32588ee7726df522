package service_test

import (
	"testing"

	"github.com/msomdec/service-market/internal/service"
)

func TestRateLimiter_AllowsBurstThenDenies(t *testing.T) {
	// Effectively no refill during the test.
	rl := service.NewRateLimiter(0.0001, 3)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("expected request %d within burst to be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("expected request beyond burst to be denied")
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := service.NewRateLimiter(0.0001, 1)

	if !rl.Allow("a") {
		t.Fatal("expected first request for key a")
	}
	if rl.Allow("a") {
		t.Fatal("expected key a to be exhausted")
	}
	if !rl.Allow("b") {
		t.Fatal("expected key b to have its own bucket")
	}
}
