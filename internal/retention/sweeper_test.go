package retention_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jeswinthayil/Lostandfound/internal/domain"
	"github.com/jeswinthayil/Lostandfound/internal/repository"
	"github.com/jeswinthayil/Lostandfound/internal/retention"
)

// ---- fakes ----

type fakeItemRepo struct {
	deleteClaimedBefore   func(ctx context.Context, cutoff time.Time) (int64, error)
	deleteUnclaimedBefore func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (r *fakeItemRepo) Create(context.Context, *domain.Item) (*domain.Item, error) {
	panic("not used")
}
func (r *fakeItemRepo) GetByID(context.Context, string) (*domain.Item, error) { panic("not used") }
func (r *fakeItemRepo) List(context.Context, repository.ListItemsInput) ([]*domain.Item, error) {
	panic("not used")
}
func (r *fakeItemRepo) ListByPoster(context.Context, string) ([]*domain.Item, error) {
	panic("not used")
}
func (r *fakeItemRepo) Search(context.Context, string) ([]*domain.Item, error) { panic("not used") }
func (r *fakeItemRepo) AddContactRequest(context.Context, string, string) error {
	panic("not used")
}
func (r *fakeItemRepo) MarkClaimed(context.Context, string, time.Time) error { panic("not used") }
func (r *fakeItemRepo) DeleteOwned(context.Context, string, string) error    { panic("not used") }
func (r *fakeItemRepo) Delete(context.Context, string) error                 { panic("not used") }
func (r *fakeItemRepo) Count(context.Context) (int64, error)                 { panic("not used") }
func (r *fakeItemRepo) CountClaimed(context.Context) (int64, error)          { panic("not used") }

func (r *fakeItemRepo) DeleteClaimedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.deleteClaimedBefore(ctx, cutoff)
}

func (r *fakeItemRepo) DeleteUnclaimedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.deleteUnclaimedBefore(ctx, cutoff)
}

type fakeRevocationRepo struct {
	purgeExpired func(ctx context.Context, now time.Time) (int64, error)
}

func (r *fakeRevocationRepo) Revoke(context.Context, string, time.Time) error { panic("not used") }
func (r *fakeRevocationRepo) IsRevoked(context.Context, string) (bool, error) { panic("not used") }

func (r *fakeRevocationRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.purgeExpired(ctx, now)
}

// ---- helpers ----

var sweepClock = time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC)

func newSweeper(t *testing.T, items *fakeItemRepo, revocations *fakeRevocationRepo) *retention.Sweeper {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := retention.NewSweeper(items, revocations, logger, "@daily", func() time.Time { return sweepClock })
	if err != nil {
		t.Fatalf("new sweeper: %v", err)
	}
	return s
}

// ---- tests ----

func TestNewSweeper_RejectsBadSchedule(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := retention.NewSweeper(&fakeItemRepo{}, &fakeRevocationRepo{}, logger, "not a cron expr", func() time.Time { return sweepClock })
	if err == nil {
		t.Fatal("expected an error for an unparsable schedule")
	}
}

func TestRunOnce_CutoffsDeriveFromClock(t *testing.T) {
	var claimedCutoff, unclaimedCutoff, purgeNow time.Time

	items := &fakeItemRepo{
		deleteClaimedBefore: func(_ context.Context, cutoff time.Time) (int64, error) {
			claimedCutoff = cutoff
			return 2, nil
		},
		deleteUnclaimedBefore: func(_ context.Context, cutoff time.Time) (int64, error) {
			unclaimedCutoff = cutoff
			return 3, nil
		},
	}
	revocations := &fakeRevocationRepo{
		purgeExpired: func(_ context.Context, now time.Time) (int64, error) {
			purgeNow = now
			return 1, nil
		},
	}

	newSweeper(t, items, revocations).RunOnce(context.Background())

	if want := sweepClock.Add(-7 * 24 * time.Hour); !claimedCutoff.Equal(want) {
		t.Errorf("claimed cutoff = %v, want now-7d = %v", claimedCutoff, want)
	}
	if want := sweepClock.Add(-30 * 24 * time.Hour); !unclaimedCutoff.Equal(want) {
		t.Errorf("unclaimed cutoff = %v, want now-30d = %v", unclaimedCutoff, want)
	}
	if !purgeNow.Equal(sweepClock) {
		t.Errorf("purge reference = %v, want the sweep clock %v", purgeNow, sweepClock)
	}
}

func TestRunOnce_OneFailureDoesNotBlockTheOthers(t *testing.T) {
	var unclaimedRan, purgeRan bool

	items := &fakeItemRepo{
		deleteClaimedBefore: func(_ context.Context, _ time.Time) (int64, error) {
			return 0, errors.New("db down")
		},
		deleteUnclaimedBefore: func(_ context.Context, _ time.Time) (int64, error) {
			unclaimedRan = true
			return 0, nil
		},
	}
	revocations := &fakeRevocationRepo{
		purgeExpired: func(_ context.Context, _ time.Time) (int64, error) {
			purgeRan = true
			return 0, nil
		},
	}

	newSweeper(t, items, revocations).RunOnce(context.Background())

	if !unclaimedRan {
		t.Error("unclaimed sweep skipped after claimed sweep failed")
	}
	if !purgeRan {
		t.Error("revocation purge skipped after claimed sweep failed")
	}
}

func TestRunOnce_SecondRunIsHarmless(t *testing.T) {
	calls := 0
	items := &fakeItemRepo{
		deleteClaimedBefore: func(_ context.Context, _ time.Time) (int64, error) {
			calls++
			// Nothing left to delete on the second pass.
			if calls > 1 {
				return 0, nil
			}
			return 5, nil
		},
		deleteUnclaimedBefore: func(_ context.Context, _ time.Time) (int64, error) { return 0, nil },
	}
	revocations := &fakeRevocationRepo{
		purgeExpired: func(_ context.Context, _ time.Time) (int64, error) { return 0, nil },
	}

	s := newSweeper(t, items, revocations)
	s.RunOnce(context.Background())
	s.RunOnce(context.Background())

	if calls != 2 {
		t.Errorf("claimed sweep ran %d times, want 2", calls)
	}
}
