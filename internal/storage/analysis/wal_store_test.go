package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avolkhov/marketcore/internal/domain"
)

func testEvent(pair string, reward float64) domain.AnalysisEvent {
	return domain.AnalysisEvent{
		ID:           "test-" + pair,
		Pair:         pair,
		Interval:     "1h",
		CurrentPrice: 50000,
		Reward:       &domain.RewardBonus{Reward: reward, Flags: 1, Reasons: []string{"test"}},
		Timestamp:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newTestStore(t *testing.T) *WALStore {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func TestWALStore_SaveAndReplay(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(testEvent("BTC_USDT", 40)))
	require.NoError(t, store.Save(testEvent("ETH_USDT", 25)))
	require.Equal(t, uint64(2), store.CurrentIndex())

	records, err := store.EventsAfter(0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "BTC_USDT", records[0].Event.Pair)
	require.Equal(t, uint64(1), records[0].Index)
	require.InDelta(t, 25, records[1].Event.Reward.Reward, 1e-9)
}

func TestWALStore_EventsAfter_Tail(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(testEvent("BTC_USDT", 40)))
	require.NoError(t, store.Save(testEvent("BTC_USDT", 55)))

	records, err := store.EventsAfter(1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.InDelta(t, 55, records[0].Event.Reward.Reward, 1e-9)

	records, err = store.EventsAfter(2)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestWALStore_Save_RequiresPair(t *testing.T) {
	store := newTestStore(t)

	event := testEvent("", 10)
	require.Error(t, store.Save(event))
}

func TestWALStore_Uninitialized(t *testing.T) {
	var store *WALStore
	require.Error(t, store.Save(testEvent("BTC_USDT", 10)))
	require.Zero(t, store.CurrentIndex())
}
