package ratelimit

import (
	"testing"
	"time"
)

func TestAllowDrainsBucket(t *testing.T) {
	rl := New(Config{MaxRequestsPerMinute: 3, WindowDuration: time.Minute})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.allow("10.0.0.1", 1) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.allow("10.0.0.1", 1) {
		t.Error("request over budget should be rejected")
	}
}

func TestTrainingCostDrainsFaster(t *testing.T) {
	rl := New(Config{MaxRequestsPerMinute: 10, WindowDuration: time.Minute, TrainingCost: 5})
	defer rl.Stop()

	if !rl.allow("10.0.0.2", 5) {
		t.Fatal("first training run should be allowed")
	}
	if !rl.allow("10.0.0.2", 5) {
		t.Fatal("second training run should be allowed")
	}
	if rl.allow("10.0.0.2", 1) {
		t.Error("bucket should be empty after two training runs")
	}
}

func TestClientsAreIsolated(t *testing.T) {
	rl := New(Config{MaxRequestsPerMinute: 1, WindowDuration: time.Minute})
	defer rl.Stop()

	if !rl.allow("10.0.0.3", 1) {
		t.Fatal("first client should be allowed")
	}
	if !rl.allow("10.0.0.4", 1) {
		t.Error("second client has its own bucket")
	}
}
