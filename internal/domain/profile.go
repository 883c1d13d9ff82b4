package domain

import "time"

// SessionType analysis window label for a volume profile.
type SessionType string

const (
	SessionDaily   SessionType = "daily"
	SessionWeekly  SessionType = "weekly"
	SessionMonthly SessionType = "monthly"
)

// PriceBin one slot of the price/volume histogram. Price is the bin
// midpoint, not an edge.
type PriceBin struct {
	Price  float64 `json:"price"`
	Volume float64 `json:"volume"`
}

// PriceRange inclusive [Low, High] price band.
type PriceRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// VolumeProfile is the session volume profile: the price/volume
// distribution of one candle window plus its derived markers.
//
// The distribution is an approximation: each candle's volume is spread
// proportionally over every bin its high/low range overlaps, so the sum
// of bin volumes is not guaranteed to equal the sum of candle volumes.
// The HVN/LVN/value-area thresholds are tuned against that scale.
type VolumeProfile struct {
	// POC is the price of the bin holding the greatest volume.
	POC float64 `json:"poc"`
	// VAH and VAL bound the value area containing ~70% of total volume.
	VAH float64 `json:"vah"`
	VAL float64 `json:"val"`
	// HVN holds up to five bins well above average volume (candidate
	// support/resistance), LVN up to five bins well below it.
	HVN []PriceBin `json:"hvn"`
	LVN []PriceBin `json:"lvn"`
	// Profile lists all non-empty bins in ascending price order.
	Profile     []PriceBin  `json:"profile"`
	TotalVolume float64     `json:"totalVolume"`
	SessionType SessionType `json:"sessionType"`
	Timestamp   time.Time   `json:"timestamp"`
}

// VolumeZone price region holding a disproportionate share of volume
// relative to the current price (accumulation below, distribution above).
type VolumeZone struct {
	PriceRange  PriceRange `json:"priceRange"`
	VolumeRatio float64    `json:"volumeRatio"`
	Strength    string     `json:"strength"`
}

// BalanceZone contiguous price band with locally consistent volume.
type BalanceZone struct {
	PriceRange PriceRange `json:"priceRange"`
	Volume     float64    `json:"volume"`
	Center     float64    `json:"center"`
}

// CompositeVolumeProfile extends a session profile built over a
// multi-window range with zone classification. AccumulationZone and
// DistributionZone are mutually exclusive; at most one is non-nil.
type CompositeVolumeProfile struct {
	VolumeProfile

	TimeRange        SessionType   `json:"timeRange"`
	AccumulationZone *VolumeZone   `json:"accumulationZone"`
	DistributionZone *VolumeZone   `json:"distributionZone"`
	BalanceZones     []BalanceZone `json:"balanceZones"`
	CompositePOC     float64       `json:"compositePoc"`
	CompositeVAH     float64       `json:"compositeVah"`
	CompositeVAL     float64       `json:"compositeVal"`
}
