package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go-image-compress/internal/config"
)

type stubEngine struct {
	name string
}

func (s *stubEngine) Name() string { return s.name }

func (s *stubEngine) Compress(ctx context.Context, data []byte, opts Options) (*Result, error) {
	return &Result{Data: data}, nil
}

func TestProvider_ImagingMode(t *testing.T) {
	p := NewProvider(config.EngineImaging)

	eng, err := p.Acquire()
	if err != nil {
		t.Fatalf("Expected imaging engine, got error: %v", err)
	}
	if eng.Name() != "imaging" {
		t.Errorf("Expected engine name 'imaging', got %q", eng.Name())
	}

	// Second acquisition returns the same cached instance
	again, err := p.Acquire()
	if err != nil {
		t.Fatalf("Second Acquire failed: %v", err)
	}
	if again != eng {
		t.Error("Expected Acquire to return the memoized engine instance")
	}
}

func TestProvider_FailureIsCachedWithoutRetry(t *testing.T) {
	attempts := 0
	p := &chainProvider{
		strategies: []strategy{
			{name: "broken", build: func() (Engine, error) {
				attempts++
				return nil, errors.New("load failed")
			}},
		},
	}

	_, firstErr := p.Acquire()
	if firstErr == nil {
		t.Fatal("Expected acquisition failure")
	}

	_, secondErr := p.Acquire()
	if secondErr == nil {
		t.Fatal("Expected cached acquisition failure")
	}

	if attempts != 1 {
		t.Errorf("Expected exactly 1 strategy attempt, got %d", attempts)
	}
	if firstErr.Error() != secondErr.Error() {
		t.Errorf("Expected identical cached error, got %q then %q", firstErr, secondErr)
	}
}

func TestProvider_FallsThroughToNextStrategy(t *testing.T) {
	p := &chainProvider{
		strategies: []strategy{
			{name: "broken", build: func() (Engine, error) {
				return nil, errors.New("load failed")
			}},
			{name: "working", build: func() (Engine, error) {
				return &stubEngine{name: "working"}, nil
			}},
		},
	}

	eng, err := p.Acquire()
	if err != nil {
		t.Fatalf("Expected fallback engine, got error: %v", err)
	}
	if eng.Name() != "working" {
		t.Errorf("Expected engine 'working', got %q", eng.Name())
	}
}

func TestProvider_ConcurrentAcquireResolvesOnce(t *testing.T) {
	attempts := 0
	p := &chainProvider{
		strategies: []strategy{
			{name: "counted", build: func() (Engine, error) {
				attempts++
				return &stubEngine{name: "counted"}, nil
			}},
		},
	}

	var wg sync.WaitGroup
	engines := make([]Engine, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			eng, err := p.Acquire()
			if err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			engines[idx] = eng
		}(i)
	}
	wg.Wait()

	if attempts != 1 {
		t.Errorf("Expected 1 resolution across concurrent callers, got %d", attempts)
	}
	for i := 1; i < len(engines); i++ {
		if engines[i] != engines[0] {
			t.Fatal("Expected all callers to share one engine instance")
		}
	}
}
