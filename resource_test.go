package rescache

import (
	"sync"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindImage, "Image"},
		{KindMatrix, "Matrix"},
		{KindPaint, "Paint"},
		{KindShader, "Shader"},
		{Kind(200), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestResourceIDsNeverZero(t *testing.T) {
	if ResourceID(0).Valid() {
		t.Error("the zero sentinel reports itself valid")
	}
	for i := 0; i < 100; i++ {
		if id := newResourceID(); !id.Valid() {
			t.Fatalf("newResourceID issued invalid ID %d", id)
		}
	}
}

func TestResourceIDsUniqueAcrossGoroutines(t *testing.T) {
	const goroutines = 8
	const perGoroutine = 1000

	var mu sync.Mutex
	seen := make(map[ResourceID]bool, goroutines*perGoroutine)

	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids := make([]ResourceID, 0, perGoroutine)
			for i := 0; i < perGoroutine; i++ {
				ids = append(ids, newResourceID())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range ids {
				if seen[id] {
					t.Errorf("resource ID %d issued twice", id)
				}
				seen[id] = true
			}
		}()
	}
	wg.Wait()
}
