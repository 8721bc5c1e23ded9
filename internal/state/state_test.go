package state

import (
	"sync"
	"testing"
	"time"

	"spx-dashboard/internal/analysis"
	"spx-dashboard/internal/fixture"
	"spx-dashboard/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	fx, err := fixture.Default()
	require.NoError(t, err)
	risk := analysis.RiskInputs{AccountBalance: decimal.NewFromInt(100000), RiskPercent: decimal.NewFromInt(2)}
	return NewStore(FromDataset(fx.Dataset(), risk))
}

func TestSetRSI_Clamps(t *testing.T) {
	s := newTestStore(t)
	at := time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)

	st, err := s.Dispatch(SetRSI(120, at))
	require.NoError(t, err)
	assert.Equal(t, 100.0, st.Market.RSI)
	assert.Equal(t, at, st.Market.Timestamp)

	st, err = s.Dispatch(NudgeRSI(-250, at))
	require.NoError(t, err)
	assert.Equal(t, 0.0, st.Market.RSI)
}

func TestSetQuote(t *testing.T) {
	s := newTestStore(t)
	at := time.Date(2025, 9, 15, 14, 0, 0, 0, time.UTC)
	price := decimal.RequireFromString("6450.25")

	st, err := s.Dispatch(SetQuote(31, price, at))
	require.NoError(t, err)
	assert.Equal(t, 31.0, st.Market.RSI)
	assert.True(t, st.Market.Price.Equal(price))
	assert.Equal(t, at, st.Market.Timestamp)

	st, err = s.Dispatch(SetQuote(140, decimal.Zero, at.Add(time.Minute)))
	require.NoError(t, err)
	assert.Equal(t, 100.0, st.Market.RSI)
	assert.True(t, st.Market.Price.Equal(price), "zero price keeps the last one")
}

func TestModalTransitions(t *testing.T) {
	s := newTestStore(t)
	day1 := model.NewDate(2025, 9, 15)
	day2 := model.NewDate(2025, 9, 16)

	_, err := s.Dispatch(CloseModal())
	assert.ErrorIs(t, err, ErrModalClosed)

	st, err := s.Dispatch(OpenModal(day1))
	require.NoError(t, err)
	assert.True(t, st.Modal.Open)
	assert.Equal(t, day1, st.Modal.EntryDate)

	_, err = s.Dispatch(OpenModal(day1))
	assert.ErrorIs(t, err, ErrModalOpen)

	st, err = s.Dispatch(CloseModal())
	require.NoError(t, err)
	assert.Equal(t, Modal{}, st.Modal)

	st, err = s.Dispatch(OpenModal(day2))
	require.NoError(t, err)
	assert.Equal(t, day2, st.Modal.EntryDate)
}

func TestAddPosition(t *testing.T) {
	s := newTestStore(t)
	before := s.Get()
	_, err := s.Dispatch(OpenModal(model.NewDate(2025, 9, 15)))
	require.NoError(t, err)

	p := model.Position{ID: 1, Quantity: 1, Status: model.StatusOpen}
	st, err := s.Dispatch(AddPosition(p))
	require.NoError(t, err)

	require.Len(t, st.Positions, len(before.Positions)+1)
	added := st.Positions[len(st.Positions)-1]
	assert.NotEqual(t, int64(1), added.ID, "id collision must be resolved")
	assert.False(t, st.Modal.Open)
	assert.Len(t, before.Positions, 2, "earlier snapshots are not affected")
}

func TestAddPosition_MaxPositions(t *testing.T) {
	s := newTestStore(t)
	st := s.Get()
	st.Params.MaxPositions = st.OpenPositions()
	_, err := s.Dispatch(SetParams(st.Params))
	require.NoError(t, err)

	v := s.Get().Version
	_, err = s.Dispatch(AddPosition(model.Position{ID: 99, Quantity: 1, Status: model.StatusOpen}))
	assert.ErrorIs(t, err, ErrMaxPositions)
	assert.Equal(t, v, s.Get().Version, "failed reducer leaves state untouched")
}

func TestSetParams_KeepsSpreadWidth(t *testing.T) {
	s := newTestStore(t)
	st, err := s.Dispatch(SetParams(model.StrategyParams{RSIThreshold: 40, DaysToExpiry: 7, ProfitTarget: 60, PositionSize: 2, MaxPositions: 3}))
	require.NoError(t, err)
	assert.Equal(t, 40.0, st.Params.RSIThreshold)
	assert.True(t, st.Params.SpreadWidth.Equal(decimal.NewFromInt(10)))
}

func TestRefreshDaysToExpiry(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2025, 9, 20, 8, 0, 0, 0, time.UTC)
	st, err := s.Dispatch(RefreshDaysToExpiry(now))
	require.NoError(t, err)
	for _, p := range st.Positions {
		if p.IsOpen() {
			assert.Equal(t, p.Expiry.DaysUntil(now), p.DaysToExpiry)
		}
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := newTestStore(t)
	a := s.Get()
	a.Positions[0].Quantity = 999
	a.History = nil
	b := s.Get()
	assert.NotEqual(t, 999, b.Positions[0].Quantity)
	assert.NotEmpty(t, b.History)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	s := newTestStore(t)
	at := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Dispatch(NudgeRSI(0.1, at))
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(50), s.Get().Version)
}
