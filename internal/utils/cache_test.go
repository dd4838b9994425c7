package utils

import (
	"sync"
	"testing"
	"time"
)

func TestGetCacheIsOneInstance(t *testing.T) {
	const workers = 16
	instances := make([]*GlobalCache, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			instances[i] = GetCache()
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if instances[i] != instances[0] {
			t.Fatalf("concurrent GetCache returned distinct instances at %d", i)
		}
	}
}

func TestCacheExpiry(t *testing.T) {
	c := GetCache()
	c.Set("cache_test_expiry", "value", 20*time.Millisecond)

	if got := c.Get("cache_test_expiry"); got != "value" {
		t.Fatalf("Get before expiry = %v, want value", got)
	}

	time.Sleep(50 * time.Millisecond)
	if got := c.Get("cache_test_expiry"); got != nil {
		t.Errorf("Get after expiry = %v, want nil", got)
	}
}

func TestCacheDelete(t *testing.T) {
	c := GetCache()
	c.Set("cache_test_delete", 42, time.Minute)
	c.Delete("cache_test_delete")

	if got := c.Get("cache_test_delete"); got != nil {
		t.Errorf("Get after Delete = %v, want nil", got)
	}
}

func TestCacheInvalidateTag(t *testing.T) {
	c := GetCache()
	c.Set("tagged:one", 1, time.Minute)
	c.Set("tagged:two", 2, time.Minute)
	c.Set("untagged", 3, time.Minute)

	c.InvalidateTag("tagged:")

	if got := c.Get("tagged:one"); got != nil {
		t.Errorf("tagged:one survived invalidation: %v", got)
	}
	if got := c.Get("tagged:two"); got != nil {
		t.Errorf("tagged:two survived invalidation: %v", got)
	}
	if got := c.Get("untagged"); got != 3 {
		t.Errorf("untagged = %v, want 3 to survive", got)
	}
}
