package syncs

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSemaphore(t *testing.T) {
	sem := NewSemaphore(1)
	sem.Acquire()

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*10)
	defer cancel()
	if err := sem.AcquireContext(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v", err)
	}

	sem.Release()
	if err := sem.AcquireContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	sem.Release()
}
