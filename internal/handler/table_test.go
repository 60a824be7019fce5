package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feastly/restaurant-backend/internal/clock"
	"github.com/feastly/restaurant-backend/internal/ledger"
	"github.com/feastly/restaurant-backend/internal/model"
)

type fakeTableStore struct {
	tables []model.DiningTable
}

func (s *fakeTableStore) Create(_ context.Context, t *model.DiningTable) error {
	s.tables = append(s.tables, *t)
	return nil
}

func (s *fakeTableStore) GetByCode(_ context.Context, code string) (*model.DiningTable, error) {
	for i := range s.tables {
		if s.tables[i].Code == code {
			return &s.tables[i], nil
		}
	}
	return nil, nil
}

func (s *fakeTableStore) List(_ context.Context, includeInactive bool) ([]model.DiningTable, error) {
	var out []model.DiningTable
	for _, t := range s.tables {
		if t.IsActive || includeInactive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeTableStore) Update(_ context.Context, _ *model.DiningTable) error { return nil }

// staticHoldStore serves a fixed set of holds; only the read side is
// exercised by listing tests.
type staticHoldStore struct {
	holds []model.TableHold
}

func (s *staticHoldStore) ActiveByTableAndDate(_ context.Context, tableCode, date string, now time.Time) ([]model.TableHold, error) {
	var out []model.TableHold
	for _, h := range s.holds {
		if h.TableCode == tableCode && h.Date == date && h.ExpireAt.After(now) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *staticHoldStore) Insert(_ context.Context, _ *model.TableHold) error { return nil }

func (s *staticHoldStore) DeleteHolding(_ context.Context, _, _ string, _ time.Time) (*model.TableHold, error) {
	return nil, nil
}

func (s *staticHoldStore) FindHolding(_ context.Context, _, _, _, _ string, _ time.Time) (*model.TableHold, error) {
	return nil, nil
}

func (s *staticHoldStore) MarkBooked(_ context.Context, _, _ uint64, _ time.Time) error { return nil }

func (s *staticHoldStore) FindActiveSlot(_ context.Context, _, _, _ string, _ time.Time) (*model.TableHold, error) {
	return nil, nil
}

func (s *staticHoldStore) ListActive(_ context.Context, now time.Time) ([]model.TableHold, error) {
	var out []model.TableHold
	for _, h := range s.holds {
		if h.ExpireAt.After(now) {
			out = append(out, h)
		}
	}
	return out, nil
}

func TestTableHandler_List(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	tables := &fakeTableStore{tables: []model.DiningTable{
		{ID: 1, Code: "T1", Capacity: 4, IsActive: true},
		{ID: 2, Code: "T2", Capacity: 2, IsActive: true},
	}}
	holds := &staticHoldStore{holds: []model.TableHold{
		{ID: 1, TableCode: "T1", Date: "2025-06-01", Time: "18:00", Status: model.HoldStatusHolding, HeldBy: "alice", ExpireAt: now.Add(time.Hour)},
		{ID: 2, TableCode: "T1", Date: "2025-06-02", Time: "12:00", Status: model.HoldStatusBooked, HeldBy: "bob", ExpireAt: now.Add(26 * time.Hour)},
		{ID: 3, TableCode: "T2", Date: "2025-06-01", Time: "19:00", Status: model.HoldStatusHolding, HeldBy: "carol", ExpireAt: now.Add(-time.Minute)},
	}}
	h := NewTableHandler(tables, ledger.NewReservationLedger(holds, clock.NewFixed(now)))

	type listResp struct {
		Tables []struct {
			Code  string
			Holds []struct {
				Date   string
				Time   string
				Status string
			}
		}
	}

	list := func(t *testing.T, target string) (*httptest.ResponseRecorder, listResp) {
		t.Helper()
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		require.NoError(t, h.List(e.NewContext(req, rec)))
		var body listResp
		if rec.Code == http.StatusOK {
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		}
		return rec, body
	}

	t.Run("annotates each table with its active holds", func(t *testing.T) {
		rec, body := list(t, "/v1/tables")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, body.Tables, 2)

		require.Equal(t, "T1", body.Tables[0].Code)
		require.Len(t, body.Tables[0].Holds, 2)
		assert.Equal(t, model.HoldStatusHolding, body.Tables[0].Holds[0].Status)
		assert.Equal(t, model.HoldStatusBooked, body.Tables[0].Holds[1].Status)

		// T2's only hold has expired, so it shows up free.
		assert.Equal(t, "T2", body.Tables[1].Code)
		assert.Empty(t, body.Tables[1].Holds)
	})

	t.Run("narrows annotations to the requested date", func(t *testing.T) {
		rec, body := list(t, "/v1/tables?date=2025-06-02")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, body.Tables, 2)
		require.Len(t, body.Tables[0].Holds, 1)
		assert.Equal(t, "2025-06-02", body.Tables[0].Holds[0].Date)
		assert.Equal(t, "12:00", body.Tables[0].Holds[0].Time)
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		rec, _ := list(t, "/v1/tables?date=junk")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
