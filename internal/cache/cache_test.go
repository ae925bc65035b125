package cache_test

import (
	"testing"
	"time"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/cache"
)

func TestCache(t *testing.T) {
	c, err := cache.New(100, time.Minute)
	if err != nil {
		t.Fatalf("New() returned unexpected error: %v", err)
	}
	defer c.Close()

	c.Set("search:AAPL", "Apple Inc")
	c.Wait()

	got, ok := c.Get("search:AAPL")
	if !ok {
		t.Fatal("Expected cached value after Wait")
	}
	if got.(string) != "Apple Inc" {
		t.Errorf("Expected 'Apple Inc', got %v", got)
	}

	if _, ok := c.Get("search:MSFT"); ok {
		t.Error("Expected miss for unknown key")
	}
}

// WHY: stale symbol matches must age out so renamed or delisted tickers are
// searched again.
func TestCacheExpiry(t *testing.T) {
	// Setup
	c, err := cache.New(100, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("New() returned unexpected error: %v", err)
	}
	defer c.Close()

	c.Set("search:AAPL", "Apple Inc")
	c.Wait()

	// Execute
	time.Sleep(60 * time.Millisecond)

	// Assert
	if _, ok := c.Get("search:AAPL"); ok {
		t.Error("Expected miss after the TTL elapsed")
	}
}
