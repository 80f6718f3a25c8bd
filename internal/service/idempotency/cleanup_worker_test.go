package idempotency

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

var _ domain.IdempotencyRepository = (*fakeCleanupRepo)(nil)

func TestCleanupWorker_DeleteExpired_Batches(t *testing.T) {
	t.Parallel()

	repo := &fakeCleanupRepo{deleteResults: []int{2, 2, 1}}
	worker := NewCleanupWorker(repo, WithBatchSize(2))

	deleted, err := worker.DeleteExpired(context.Background(), time.Now().UTC())
	if err != nil {
		t.Fatalf("DeleteExpired failed: %v", err)
	}
	if deleted != 5 {
		t.Fatalf("deleted total: got=%d want=5", deleted)
	}
	if calls := repo.calls(); calls != 3 {
		t.Fatalf("delete calls: got=%d want=3", calls)
	}
}

func TestCleanupWorker_DeleteExpired_Error(t *testing.T) {
	t.Parallel()

	repo := &fakeCleanupRepo{deleteErrors: []error{errors.New("boom")}}
	worker := NewCleanupWorker(repo, WithBatchSize(10))

	deleted, err := worker.DeleteExpired(context.Background(), time.Now().UTC())
	if err == nil {
		t.Fatal("expected DeleteExpired error")
	}
	if deleted != 0 {
		t.Fatalf("deleted total: got=%d want=0", deleted)
	}
}

func TestCleanupWorker_DeleteExpired_CanceledContext(t *testing.T) {
	t.Parallel()

	repo := &fakeCleanupRepo{deleteResults: []int{5}}
	worker := NewCleanupWorker(repo, WithBatchSize(5))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	deleted, err := worker.DeleteExpired(ctx, time.Now().UTC())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if deleted != 0 {
		t.Fatalf("deleted total: got=%d want=0", deleted)
	}
	if calls := repo.calls(); calls != 0 {
		t.Fatalf("delete calls: got=%d want=0", calls)
	}
}

func TestCleanupWorker_Run_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	repo := &fakeCleanupRepo{deleteResults: []int{0, 0, 0}}
	worker := NewCleanupWorker(
		repo,
		WithInterval(5*time.Millisecond),
		WithBatchSize(10),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Run(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on context cancel")
	}

	if calls := repo.calls(); calls == 0 {
		t.Fatal("expected at least one cleanup pass")
	}
}

type fakeCleanupRepo struct {
	mu sync.Mutex

	deleteResults []int
	deleteErrors  []error
	callCount     int
}

func (f *fakeCleanupRepo) CreateProcessing(string, string, time.Time) (domain.IdempotencyRecord, error) {
	panic("not implemented")
}

func (f *fakeCleanupRepo) Get(string) (domain.IdempotencyRecord, error) {
	panic("not implemented")
}

func (f *fakeCleanupRepo) MarkDone(string, []byte, int) error {
	panic("not implemented")
}

func (f *fakeCleanupRepo) MarkFailed(string, []byte, int) error {
	panic("not implemented")
}

func (f *fakeCleanupRepo) DeleteExpired(_ time.Time, _ int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.callCount++

	if len(f.deleteErrors) > 0 {
		err := f.deleteErrors[0]
		f.deleteErrors = f.deleteErrors[1:]
		if err != nil {
			return 0, err
		}
	}

	if len(f.deleteResults) == 0 {
		return 0, nil
	}
	result := f.deleteResults[0]
	f.deleteResults = f.deleteResults[1:]
	return result, nil
}

func (f *fakeCleanupRepo) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.callCount
}
