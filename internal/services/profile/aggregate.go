package profile

import (
	"sort"

	"github.com/avolkhov/marketcore/internal/domain"
)

const (
	valueAreaShare = 0.70
	hvnFactor      = 1.5
	lvnFactor      = 0.5
	maxVolumeNodes = 5
)

// aggregates holds everything derived from a populated bin array.
type aggregates struct {
	pocIdx      int
	poc         float64
	vah         float64
	val         float64
	hvn         []domain.PriceBin
	lvn         []domain.PriceBin
	profile     []domain.PriceBin
	totalVolume float64
}

// aggregate derives POC, value area, HVN/LVN and the non-empty profile
// from the binned distribution. Total given valid bins; no failure mode.
func aggregate(bins []domain.PriceBin) aggregates {
	var agg aggregates

	for i, b := range bins {
		agg.totalVolume += b.Volume
		// strict > keeps the first (lowest-price) bin on exact ties
		if b.Volume > bins[agg.pocIdx].Volume {
			agg.pocIdx = i
		}
	}
	agg.poc = bins[agg.pocIdx].Price

	agg.vah, agg.val = valueArea(bins, agg.pocIdx, agg.totalVolume)
	agg.hvn, agg.lvn = volumeNodes(bins, agg.totalVolume)

	for _, b := range bins {
		if b.Volume > 0 {
			agg.profile = append(agg.profile, b)
		}
	}

	return agg
}

// valueArea expands outward from POC until the accumulated volume
// reaches 70% of the total. Candidates are taken in (volume desc,
// distance-from-POC asc) order and only the extremal touched index per
// side is tracked, so the reported band is not verified contiguous: a
// heavy far bin can stretch VAH/VAL past untouched bins in between.
// That matches the historical behavior downstream consumers rely on.
func valueArea(bins []domain.PriceBin, pocIdx int, totalVolume float64) (vah, val float64) {
	type candidate struct {
		idx      int
		volume   float64
		distance int
	}

	candidates := make([]candidate, 0, len(bins)-1)
	for i, b := range bins {
		if i == pocIdx {
			continue
		}
		dist := i - pocIdx
		if dist < 0 {
			dist = -dist
		}
		candidates = append(candidates, candidate{idx: i, volume: b.Volume, distance: dist})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].volume != candidates[j].volume {
			return candidates[i].volume > candidates[j].volume
		}
		return candidates[i].distance < candidates[j].distance
	})

	target := valueAreaShare * totalVolume
	accumulated := bins[pocIdx].Volume

	vahIdx, valIdx := -1, -1
	for _, c := range candidates {
		if accumulated >= target {
			break
		}
		accumulated += c.volume
		if c.idx > pocIdx && c.idx > vahIdx {
			vahIdx = c.idx
		}
		if c.idx < pocIdx && (valIdx == -1 || c.idx < valIdx) {
			valIdx = c.idx
		}
	}

	if vahIdx == -1 {
		vahIdx = len(bins) - 1
	}
	if valIdx == -1 {
		valIdx = 0
	}

	return bins[vahIdx].Price, bins[valIdx].Price
}

// volumeNodes picks up to five bins well above average volume (HVN) and
// the five lowest-volume bins below half the average (LVN). The two
// sets are disjoint by construction.
func volumeNodes(bins []domain.PriceBin, totalVolume float64) (hvn, lvn []domain.PriceBin) {
	avg := totalVolume / float64(len(bins))

	for _, b := range bins {
		switch {
		case b.Volume > hvnFactor*avg:
			hvn = append(hvn, b)
		case b.Volume > 0 && b.Volume < lvnFactor*avg:
			lvn = append(lvn, b)
		}
	}

	sort.SliceStable(hvn, func(i, j int) bool { return hvn[i].Volume > hvn[j].Volume })
	sort.SliceStable(lvn, func(i, j int) bool { return lvn[i].Volume < lvn[j].Volume })

	if len(hvn) > maxVolumeNodes {
		hvn = hvn[:maxVolumeNodes]
	}
	if len(lvn) > maxVolumeNodes {
		lvn = lvn[:maxVolumeNodes]
	}

	return hvn, lvn
}
