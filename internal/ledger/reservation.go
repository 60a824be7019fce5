package ledger

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/feastly/restaurant-backend/internal/clock"
	"github.com/feastly/restaurant-backend/internal/model"
)

// HoldStore is the persistence surface the reservation ledger needs.
// Every read must already filter out rows whose expire_at has passed
// the supplied now; the ledger still treats the filter as defensive and
// never assumes a background purge has run.
type HoldStore interface {
	// ActiveByTableAndDate returns all non-expired holds and bookings
	// for one table on one calendar date.
	ActiveByTableAndDate(ctx context.Context, tableCode, date string, now time.Time) ([]model.TableHold, error)

	// Insert persists a new hold and fills in its generated ID.
	Insert(ctx context.Context, h *model.TableHold) error

	// DeleteHolding removes the claimant's own non-expired record with
	// status holding on the given table and returns it, or nil when no
	// such record exists.
	DeleteHolding(ctx context.Context, tableCode, claimant string, now time.Time) (*model.TableHold, error)

	// FindHolding returns the claimant's non-expired holding record for
	// the exact slot, or nil.
	FindHolding(ctx context.Context, tableCode, claimant, date, timeOfDay string, now time.Time) (*model.TableHold, error)

	// MarkBooked transitions a hold in place to booked, attaching the
	// reservation id and the recomputed expiry.
	MarkBooked(ctx context.Context, holdID, reservationID uint64, expireAt time.Time) error

	// FindActiveSlot returns the single non-expired record for the
	// exact table+date+time slot regardless of claimant, or nil.
	FindActiveSlot(ctx context.Context, tableCode, date, timeOfDay string, now time.Time) (*model.TableHold, error)

	// ListActive returns every non-expired record across all tables.
	ListActive(ctx context.Context, now time.Time) ([]model.TableHold, error)
}

// ReservationLedger enforces at most one active claim per table per
// overlapping 3-hour window.
//
// Concurrency: the overlap check and the insert are two store
// round-trips, so two racing Hold calls for the same slot could both
// pass the check before either insert lands.  The ledger closes that
// race with an in-process mutex keyed by table code around the
// check-then-insert sequence; operations on different tables never
// contend.  The MySQL store additionally runs each operation inside a
// transaction, but the mutex is what makes the check-then-act safe.
type ReservationLedger struct {
	store HoldStore
	clock clock.Clock

	mu     sync.Mutex             // guards tables
	tables map[string]*sync.Mutex // per-table-code serialization
}

// NewReservationLedger builds a ledger over the given store and clock.
func NewReservationLedger(store HoldStore, clk clock.Clock) *ReservationLedger {
	return &ReservationLedger{
		store:  store,
		clock:  clk,
		tables: make(map[string]*sync.Mutex),
	}
}

func (l *ReservationLedger) tableLock(tableCode string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.tables[tableCode]
	if !ok {
		m = &sync.Mutex{}
		l.tables[tableCode] = m
	}
	return m
}

// Hold claims the 3-hour window starting at date+timeOfDay on the given
// table.  It fails with ErrAlreadyHeld when any non-expired record for
// the same table strictly overlaps the requested window, writing
// nothing in that case.  On success the created record has status
// holding and expires one hour from now.
func (l *ReservationLedger) Hold(ctx context.Context, tableCode, claimant, date, timeOfDay string) (*model.TableHold, error) {
	tableCode = strings.TrimSpace(tableCode)
	claimant = strings.TrimSpace(claimant)
	if tableCode == "" || claimant == "" || date == "" || timeOfDay == "" {
		return nil, ErrInvalidInput
	}
	want, err := DiningWindowAt(date, timeOfDay)
	if err != nil {
		return nil, err
	}

	lock := l.tableLock(tableCode)
	lock.Lock()
	defer lock.Unlock()

	now := l.clock.Now()
	existing, err := l.store.ActiveByTableAndDate(ctx, tableCode, date, now)
	if err != nil {
		return nil, err
	}
	for _, h := range existing {
		w, err := DiningWindowAt(h.Date, h.Time)
		if err != nil {
			// A stored record that no longer parses cannot be compared;
			// treat it as blocking rather than silently double-booking.
			return nil, ErrAlreadyHeld
		}
		if want.Overlaps(w) {
			return nil, ErrAlreadyHeld
		}
	}

	hold := &model.TableHold{
		TableCode: tableCode,
		Date:      date,
		Time:      timeOfDay,
		Status:    model.HoldStatusHolding,
		HeldBy:    claimant,
		ExpireAt:  now.Add(HoldTTL),
	}
	if err := l.store.Insert(ctx, hold); err != nil {
		return nil, err
	}
	return hold, nil
}

// Release removes the claimant's own holding record on the table and
// returns it.  It is a no-op returning (nil, nil) when the claimant
// holds nothing there or the hold has already expired; other claimants'
// holds are never touched and a booked record cannot be released this
// way.
func (l *ReservationLedger) Release(ctx context.Context, tableCode, claimant string) (*model.TableHold, error) {
	tableCode = strings.TrimSpace(tableCode)
	claimant = strings.TrimSpace(claimant)
	if tableCode == "" || claimant == "" {
		return nil, ErrInvalidInput
	}
	return l.store.DeleteHolding(ctx, tableCode, claimant, l.clock.Now())
}

// Book transitions the claimant's holding record for the exact slot to
// booked, attaching the reservation id and extending the expiry to the
// end of the dining window.  Fails with ErrHoldNotFound when no
// matching active holding record exists: there is no implicit
// hold-on-book.
func (l *ReservationLedger) Book(ctx context.Context, tableCode, claimant string, reservationID uint64, date, timeOfDay string) (*model.TableHold, error) {
	tableCode = strings.TrimSpace(tableCode)
	claimant = strings.TrimSpace(claimant)
	if tableCode == "" || claimant == "" || reservationID == 0 {
		return nil, ErrInvalidInput
	}
	w, err := DiningWindowAt(date, timeOfDay)
	if err != nil {
		return nil, err
	}

	lock := l.tableLock(tableCode)
	lock.Lock()
	defer lock.Unlock()

	now := l.clock.Now()
	hold, err := l.store.FindHolding(ctx, tableCode, claimant, date, timeOfDay, now)
	if err != nil {
		return nil, err
	}
	if hold == nil {
		return nil, ErrHoldNotFound
	}
	if err := l.store.MarkBooked(ctx, hold.ID, reservationID, w.End); err != nil {
		return nil, err
	}
	hold.Status = model.HoldStatusBooked
	hold.ReservationID = &reservationID
	hold.ExpireAt = w.End
	return hold, nil
}

// Status returns the single non-expired record for the exact slot, or
// nil when the slot is free.
func (l *ReservationLedger) Status(ctx context.Context, tableCode, date, timeOfDay string) (*model.TableHold, error) {
	if tableCode == "" || date == "" || timeOfDay == "" {
		return nil, ErrInvalidInput
	}
	if _, err := CombineDateTime(date, timeOfDay); err != nil {
		return nil, err
	}
	return l.store.FindActiveSlot(ctx, tableCode, date, timeOfDay, l.clock.Now())
}

// ListActive returns every non-expired hold and booking across all
// tables.  Listings use it to annotate table availability; it takes no
// locks because it never writes.
func (l *ReservationLedger) ListActive(ctx context.Context) ([]model.TableHold, error) {
	return l.store.ListActive(ctx, l.clock.Now())
}
