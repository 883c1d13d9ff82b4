package domain

import "time"

// AnalysisEvent one full analytics pass for a pair, as journaled by the
// host process. The analytics core itself keeps no state; events exist
// only because the caller chose to record them.
type AnalysisEvent struct {
	ID           string                  `json:"id"`
	Pair         string                  `json:"pair"`
	Interval     string                  `json:"interval"`
	CurrentPrice float64                 `json:"currentPrice"`
	Session      *VolumeProfile          `json:"session,omitempty"`
	Composite    *CompositeVolumeProfile `json:"composite,omitempty"`
	Metrics      *EnhancedMetrics        `json:"metrics,omitempty"`
	Reward       *RewardBonus            `json:"reward,omitempty"`
	Timestamp    time.Time               `json:"timestamp"`
}

// AnalysisEventRecord couples an event with its journal index.
type AnalysisEventRecord struct {
	Index uint64        `json:"index"`
	Event AnalysisEvent `json:"event"`
}
