package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/MrSnakeDoc/beanstalk/internal/store"
)

var _ store.Gateway = (*Store)(nil)

func TestNew(t *testing.T) {
	s := New()
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.Len() != 0 {
		t.Errorf("New() should start empty, got %d keys", s.Len())
	}
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, ok, err := s.Load(ctx, store.KeyStreak); err != nil || ok {
		t.Fatalf("Load() of missing key = ok=%v err=%v, want ok=false err=nil", ok, err)
	}

	if err := s.Save(ctx, store.KeyStreak, "3"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Save(ctx, store.KeyStreak, "4"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	v, ok, err := s.Load(ctx, store.KeyStreak)
	if err != nil || !ok || v != "4" {
		t.Errorf("Load() = %q, %v, %v, want \"4\", true, nil", v, ok, err)
	}
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, k := range store.Keys() {
		if err := s.Save(ctx, k, "x"); err != nil {
			t.Fatalf("Save(%s) error = %v", k, err)
		}
	}

	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("ClearAll() left %d keys", s.Len())
	}
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Save(ctx, store.KeyStreak, "1")
		}()
		go func() {
			defer wg.Done()
			_, _, _ = s.Load(ctx, store.KeyStreak)
		}()
	}
	wg.Wait()

	if v, ok, _ := s.Load(ctx, store.KeyStreak); !ok || v != "1" {
		t.Errorf("Load() after concurrent writes = %q, %v", v, ok)
	}
}
