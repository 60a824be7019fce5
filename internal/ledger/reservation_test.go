package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feastly/restaurant-backend/internal/clock"
	"github.com/feastly/restaurant-backend/internal/model"
)

// fakeHoldStore keeps holds in memory and applies the same expire_at
// filtering the SQL store does.
type fakeHoldStore struct {
	mu     sync.Mutex
	nextID uint64
	holds  []model.TableHold
}

func newFakeHoldStore() *fakeHoldStore {
	return &fakeHoldStore{nextID: 1}
}

func (s *fakeHoldStore) ActiveByTableAndDate(_ context.Context, tableCode, date string, now time.Time) ([]model.TableHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.TableHold
	for _, h := range s.holds {
		if h.TableCode == tableCode && h.Date == date && h.ExpireAt.After(now) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *fakeHoldStore) Insert(_ context.Context, h *model.TableHold) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h.ID = s.nextID
	s.nextID++
	s.holds = append(s.holds, *h)
	return nil
}

func (s *fakeHoldStore) DeleteHolding(_ context.Context, tableCode, claimant string, now time.Time) (*model.TableHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, h := range s.holds {
		if h.TableCode == tableCode && h.HeldBy == claimant && h.Status == model.HoldStatusHolding && h.ExpireAt.After(now) {
			s.holds = append(s.holds[:i], s.holds[i+1:]...)
			return &h, nil
		}
	}
	return nil, nil
}

func (s *fakeHoldStore) FindHolding(_ context.Context, tableCode, claimant, date, timeOfDay string, now time.Time) (*model.TableHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.holds {
		h := s.holds[i]
		if h.TableCode == tableCode && h.HeldBy == claimant && h.Date == date && h.Time == timeOfDay &&
			h.Status == model.HoldStatusHolding && h.ExpireAt.After(now) {
			return &h, nil
		}
	}
	return nil, nil
}

func (s *fakeHoldStore) MarkBooked(_ context.Context, holdID, reservationID uint64, expireAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.holds {
		if s.holds[i].ID == holdID {
			s.holds[i].Status = model.HoldStatusBooked
			s.holds[i].ReservationID = &reservationID
			s.holds[i].ExpireAt = expireAt
			return nil
		}
	}
	return nil
}

func (s *fakeHoldStore) FindActiveSlot(_ context.Context, tableCode, date, timeOfDay string, now time.Time) (*model.TableHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.holds {
		h := s.holds[i]
		if h.TableCode == tableCode && h.Date == date && h.Time == timeOfDay && h.ExpireAt.After(now) {
			return &h, nil
		}
	}
	return nil, nil
}

func (s *fakeHoldStore) ListActive(_ context.Context, now time.Time) ([]model.TableHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.TableHold
	for _, h := range s.holds {
		if h.ExpireAt.After(now) {
			out = append(out, h)
		}
	}
	return out, nil
}

func TestReservationLedger_Hold(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("creates a holding record with one hour TTL", func(t *testing.T) {
		store := newFakeHoldStore()
		led := NewReservationLedger(store, clock.NewFixed(now))

		h, err := led.Hold(context.Background(), "T1", "user-7", "2025-06-01", "18:00")
		require.NoError(t, err)
		assert.Equal(t, model.HoldStatusHolding, h.Status)
		assert.Equal(t, now.Add(HoldTTL), h.ExpireAt)
		assert.NotZero(t, h.ID)
	})

	t.Run("rejects overlapping window on the same table", func(t *testing.T) {
		store := newFakeHoldStore()
		led := NewReservationLedger(store, clock.NewFixed(now))

		_, err := led.Hold(context.Background(), "T1", "alice", "2025-06-01", "18:00")
		require.NoError(t, err)

		// 19:30-22:30 intersects 18:00-21:00.
		_, err = led.Hold(context.Background(), "T1", "bob", "2025-06-01", "19:30")
		assert.ErrorIs(t, err, ErrAlreadyHeld)
		assert.Len(t, store.holds, 1)
	})

	t.Run("allows non-overlapping window on the same table", func(t *testing.T) {
		store := newFakeHoldStore()
		led := NewReservationLedger(store, clock.NewFixed(now))

		_, err := led.Hold(context.Background(), "T1", "alice", "2025-06-01", "12:00")
		require.NoError(t, err)

		// 16:00-19:00 does not intersect 12:00-15:00.
		_, err = led.Hold(context.Background(), "T1", "bob", "2025-06-01", "16:00")
		assert.NoError(t, err)
	})

	t.Run("back to back windows do not overlap", func(t *testing.T) {
		store := newFakeHoldStore()
		led := NewReservationLedger(store, clock.NewFixed(now))

		_, err := led.Hold(context.Background(), "T1", "alice", "2025-06-01", "12:00")
		require.NoError(t, err)

		_, err = led.Hold(context.Background(), "T1", "bob", "2025-06-01", "15:00")
		assert.NoError(t, err)
	})

	t.Run("other tables are never compared", func(t *testing.T) {
		store := newFakeHoldStore()
		led := NewReservationLedger(store, clock.NewFixed(now))

		_, err := led.Hold(context.Background(), "T1", "alice", "2025-06-01", "18:00")
		require.NoError(t, err)

		_, err = led.Hold(context.Background(), "T2", "bob", "2025-06-01", "18:00")
		assert.NoError(t, err)
	})

	t.Run("expired holds do not block", func(t *testing.T) {
		store := newFakeHoldStore()
		store.holds = append(store.holds, model.TableHold{
			ID: 99, TableCode: "T1", Date: "2025-06-01", Time: "18:00",
			Status: model.HoldStatusHolding, HeldBy: "ghost",
			ExpireAt: now.Add(-time.Minute),
		})
		led := NewReservationLedger(store, clock.NewFixed(now))

		_, err := led.Hold(context.Background(), "T1", "alice", "2025-06-01", "18:00")
		assert.NoError(t, err)
	})

	t.Run("validates input before touching the store", func(t *testing.T) {
		led := NewReservationLedger(newFakeHoldStore(), clock.NewFixed(now))

		_, err := led.Hold(context.Background(), "", "alice", "2025-06-01", "18:00")
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = led.Hold(context.Background(), "T1", "alice", "2025-06-01", "25:99")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("concurrent holds for the same slot admit exactly one", func(t *testing.T) {
		store := newFakeHoldStore()
		led := NewReservationLedger(store, clock.NewFixed(now))

		const n = 16
		errs := make(chan error, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := led.Hold(context.Background(), "T1", "claimant", "2025-06-01", "18:00")
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)

		ok := 0
		for err := range errs {
			if err == nil {
				ok++
			} else {
				assert.ErrorIs(t, err, ErrAlreadyHeld)
			}
		}
		assert.Equal(t, 1, ok)
		assert.Len(t, store.holds, 1)
	})
}

func TestReservationLedger_Release(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("frees the slot for other claimants", func(t *testing.T) {
		store := newFakeHoldStore()
		led := NewReservationLedger(store, clock.NewFixed(now))

		_, err := led.Hold(context.Background(), "T1", "alice", "2025-06-01", "18:00")
		require.NoError(t, err)

		released, err := led.Release(context.Background(), "T1", "alice")
		require.NoError(t, err)
		require.NotNil(t, released)
		assert.Equal(t, "alice", released.HeldBy)

		_, err = led.Hold(context.Background(), "T1", "bob", "2025-06-01", "18:00")
		assert.NoError(t, err)
	})

	t.Run("is a no-op without a matching hold", func(t *testing.T) {
		led := NewReservationLedger(newFakeHoldStore(), clock.NewFixed(now))

		released, err := led.Release(context.Background(), "T1", "nobody")
		assert.NoError(t, err)
		assert.Nil(t, released)
	})

	t.Run("does not touch another claimant's hold", func(t *testing.T) {
		store := newFakeHoldStore()
		led := NewReservationLedger(store, clock.NewFixed(now))

		_, err := led.Hold(context.Background(), "T1", "alice", "2025-06-01", "18:00")
		require.NoError(t, err)

		released, err := led.Release(context.Background(), "T1", "bob")
		assert.NoError(t, err)
		assert.Nil(t, released)
		assert.Len(t, store.holds, 1)
	})

	t.Run("treats an expired hold as already gone", func(t *testing.T) {
		store := newFakeHoldStore()
		led := NewReservationLedger(store, clock.NewFixed(now))

		_, err := led.Hold(context.Background(), "T1", "alice", "2025-06-01", "18:00")
		require.NoError(t, err)

		// Past the TTL the row may still be waiting for the purge, but
		// release must behave as if it never existed.
		later := NewReservationLedger(store, clock.NewFixed(now.Add(HoldTTL+time.Minute)))
		released, err := later.Release(context.Background(), "T1", "alice")
		assert.NoError(t, err)
		assert.Nil(t, released)
		assert.Len(t, store.holds, 1)
	})
}

func TestReservationLedger_Book(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("transitions hold to booked and extends expiry", func(t *testing.T) {
		store := newFakeHoldStore()
		led := NewReservationLedger(store, clock.NewFixed(now))

		_, err := led.Hold(context.Background(), "T1", "alice", "2025-06-01", "18:00")
		require.NoError(t, err)

		booked, err := led.Book(context.Background(), "T1", "alice", 42, "2025-06-01", "18:00")
		require.NoError(t, err)
		assert.Equal(t, model.HoldStatusBooked, booked.Status)
		require.NotNil(t, booked.ReservationID)
		assert.EqualValues(t, 42, *booked.ReservationID)

		// Expiry moves to the end of the dining window, not now+TTL.
		end := time.Date(2025, 6, 1, 21, 0, 0, 0, time.UTC)
		assert.Equal(t, end, booked.ExpireAt)

		got, err := led.Status(context.Background(), "T1", "2025-06-01", "18:00")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, model.HoldStatusBooked, got.Status)
		require.NotNil(t, got.ReservationID)
		assert.EqualValues(t, 42, *got.ReservationID)
	})

	t.Run("fails without a prior hold", func(t *testing.T) {
		led := NewReservationLedger(newFakeHoldStore(), clock.NewFixed(now))

		_, err := led.Book(context.Background(), "T1", "alice", 42, "2025-06-01", "18:00")
		assert.ErrorIs(t, err, ErrHoldNotFound)
	})

	t.Run("fails when the hold belongs to someone else", func(t *testing.T) {
		store := newFakeHoldStore()
		led := NewReservationLedger(store, clock.NewFixed(now))

		_, err := led.Hold(context.Background(), "T1", "alice", "2025-06-01", "18:00")
		require.NoError(t, err)

		_, err = led.Book(context.Background(), "T1", "bob", 42, "2025-06-01", "18:00")
		assert.ErrorIs(t, err, ErrHoldNotFound)
	})
}

func TestReservationLedger_Status(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("returns nil for a free slot", func(t *testing.T) {
		led := NewReservationLedger(newFakeHoldStore(), clock.NewFixed(now))

		got, err := led.Status(context.Background(), "T1", "2025-06-01", "18:00")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("treats expired records as nonexistent", func(t *testing.T) {
		store := newFakeHoldStore()
		store.holds = append(store.holds, model.TableHold{
			ID: 5, TableCode: "T1", Date: "2025-06-01", Time: "18:00",
			Status: model.HoldStatusHolding, HeldBy: "alice",
			ExpireAt: now.Add(-time.Second),
		})
		led := NewReservationLedger(store, clock.NewFixed(now))

		got, err := led.Status(context.Background(), "T1", "2025-06-01", "18:00")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestReservationLedger_ListActive(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	store := newFakeHoldStore()
	led := NewReservationLedger(store, clock.NewFixed(now))

	_, err := led.Hold(context.Background(), "T1", "alice", "2025-06-01", "18:00")
	require.NoError(t, err)
	_, err = led.Hold(context.Background(), "T2", "bob", "2025-06-02", "12:00")
	require.NoError(t, err)
	store.holds = append(store.holds, model.TableHold{
		ID: 77, TableCode: "T3", Date: "2025-05-30", Time: "19:00",
		Status: model.HoldStatusHolding, HeldBy: "ghost",
		ExpireAt: now.Add(-time.Hour),
	})

	active, err := led.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestWindowOverlap(t *testing.T) {
	mk := func(date, tod string) Window {
		w, err := DiningWindowAt(date, tod)
		require.NoError(t, err)
		return w
	}

	cases := []struct {
		name string
		a, b Window
		want bool
	}{
		{"identical", mk("2025-06-01", "18:00"), mk("2025-06-01", "18:00"), true},
		{"partial", mk("2025-06-01", "18:00"), mk("2025-06-01", "19:30"), true},
		{"touching ends", mk("2025-06-01", "12:00"), mk("2025-06-01", "15:00"), false},
		{"disjoint", mk("2025-06-01", "12:00"), mk("2025-06-01", "16:00"), false},
		{"different day", mk("2025-06-01", "18:00"), mk("2025-06-02", "18:00"), false},
		{"across midnight", mk("2025-06-01", "23:00"), mk("2025-06-02", "01:00"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a))
		})
	}
}

func TestCombineDateTime(t *testing.T) {
	got, err := CombineDateTime("2025-06-01", "18:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 18, 30, 0, 0, time.UTC), got)

	_, err = CombineDateTime("2025-13-01", "18:30")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = CombineDateTime("2025-06-01", "6pm")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
