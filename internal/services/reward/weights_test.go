package reward

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	require.InDelta(t, 40, w.TrendEmaAroon, 1e-9)
	require.InDelta(t, 25, w.VolDelta, 1e-9)
	require.InDelta(t, 60, w.Cap, 1e-9)
}

func TestWeightsFromEnv_Overrides(t *testing.T) {
	t.Setenv("REW_TREND_EMA_AROON", "55")
	t.Setenv("REWARD_CAP", "80")

	w := WeightsFromEnv()
	require.InDelta(t, 55, w.TrendEmaAroon, 1e-9)
	require.InDelta(t, 80, w.Cap, 1e-9)
	require.InDelta(t, 25, w.VolDelta, 1e-9)
}

func TestWeightsFromEnv_MalformedValueKeepsDefault(t *testing.T) {
	t.Setenv("REW_VOL_DELTA", "not-a-number")
	t.Setenv("REW_LIQ_SAFE_7", "30")

	// one broken variable must not poison the rest
	w := WeightsFromEnv()
	require.InDelta(t, 25, w.VolDelta, 1e-9)
	require.InDelta(t, 30, w.LiqSafe7, 1e-9)
}

func TestWeightsFromEnv_EmptyValueKeepsDefault(t *testing.T) {
	t.Setenv("REW_RSI_MOMO", "")

	w := WeightsFromEnv()
	require.InDelta(t, 10, w.RsiMomentum, 1e-9)
}
