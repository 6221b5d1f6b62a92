package pubstatic

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func countingBuild(fail *bool) (BuildFunc, *int) {
	var mu sync.Mutex
	calls := 0
	return func(ctx context.Context) (*BuildResult, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if fail != nil && *fail {
			return nil, errors.New("boom")
		}
		return &BuildResult{BuiltAt: time.Now()}, nil
	}, &calls
}

func TestSiteCacheReusesResult(t *testing.T) {
	build, calls := countingBuild(nil)
	c := NewSiteCache(build, time.Minute, nil)

	first, err := c.Get(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, _ := c.Get(context.Background())
	if first != second {
		t.Error("Get within TTL should return the cached result")
	}
	if *calls != 1 {
		t.Errorf("build called %d times, want 1", *calls)
	}
}

func TestSiteCacheInvalidate(t *testing.T) {
	build, calls := countingBuild(nil)
	c := NewSiteCache(build, time.Minute, nil)

	c.Get(context.Background())
	c.Invalidate()
	c.Get(context.Background())
	if *calls != 2 {
		t.Errorf("build called %d times, want 2", *calls)
	}
}

func TestSiteCacheExpires(t *testing.T) {
	build, calls := countingBuild(nil)
	c := NewSiteCache(build, time.Nanosecond, nil)

	c.Get(context.Background())
	time.Sleep(time.Millisecond)
	c.Get(context.Background())
	if *calls != 2 {
		t.Errorf("build called %d times, want 2", *calls)
	}
}

func TestSiteCacheServesPreviousOnFailure(t *testing.T) {
	fail := false
	build, _ := countingBuild(&fail)
	c := NewSiteCache(build, time.Minute, nil)

	first, err := c.Get(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	fail = true
	c.Invalidate()
	got, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("Get after failed rebuild = %v, want previous result", err)
	}
	if got != first {
		t.Error("failed rebuild should serve the previous result")
	}

	empty := NewSiteCache(build, time.Minute, nil)
	if _, err := empty.Get(context.Background()); err == nil {
		t.Error("Get with no previous result should return the build error")
	}
}

func TestSiteCacheConcurrentGet(t *testing.T) {
	build, calls := countingBuild(nil)
	c := NewSiteCache(build, time.Minute, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Get(context.Background()); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if *calls != 1 {
		t.Errorf("build called %d times, want 1", *calls)
	}
}
