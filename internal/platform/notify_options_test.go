package platform

import (
	"testing"
	"time"
)

func TestOptionsTimeoutDefaults(t *testing.T) {
	if got := (Options{}).timeout(); got != DefaultTimeout {
		t.Fatalf("got %v, want %v", got, DefaultTimeout)
	}
	if got := (Options{Timeout: time.Second}).timeout(); got != time.Second {
		t.Fatalf("got %v", got)
	}
}
