package llmclient

import (
	"errors"
	"testing"
	"time"
)

func TestClassifyRecognizesRateLimitByMessage(t *testing.T) {
	kind, _ := classify(errors.New("received 429 too many requests"))
	if kind != faultRateLimit {
		t.Fatalf("expected faultRateLimit, got %v", kind)
	}
}

func TestClassifyRecognizesTransientServerFault(t *testing.T) {
	kind, _ := classify(errors.New("503 service unavailable"))
	if kind != faultTransient {
		t.Fatalf("expected faultTransient, got %v", kind)
	}
}

func TestClassifyUnknownDefaultsToUnknown(t *testing.T) {
	kind, _ := classify(errors.New("something bizarre happened"))
	if kind != faultUnknown {
		t.Fatalf("expected faultUnknown, got %v", kind)
	}
}

func TestBackoffForHonorsRetryAfterOnRateLimit(t *testing.T) {
	c := &Client{cfg: Config{BaseDelay: time.Second, MaxDelay: time.Minute}.withDefaults()}
	sleep := c.backoffFor(faultRateLimit, 0, 5*time.Second)
	if sleep != 5*time.Second {
		t.Fatalf("expected retry-after to be honored verbatim, got %v", sleep)
	}
}

func TestBackoffForExponentialWithJitterBounds(t *testing.T) {
	c := &Client{cfg: Config{BaseDelay: 100 * time.Millisecond, MaxDelay: 10 * time.Second}.withDefaults()}
	for attempt := 0; attempt < 6; attempt++ {
		base := float64(100*time.Millisecond) * pow2(attempt)
		if base > float64(10*time.Second) {
			base = float64(10 * time.Second)
		}
		lo := time.Duration(base * 0.75)
		hi := time.Duration(base * 1.25)
		sleep := c.backoffFor(faultTransient, attempt, 0)
		if sleep < lo || sleep > hi {
			t.Fatalf("attempt %d: sleep %v out of jitter bounds [%v,%v]", attempt, sleep, lo, hi)
		}
	}
}

func pow2(n int) float64 {
	v := 1.0
	for i := 0; i < n; i++ {
		v *= 2
	}
	return v
}
