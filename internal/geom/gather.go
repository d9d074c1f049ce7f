package geom

import "sort"

// Item is a static collectible: loot or an office, placed at Position with a
// collision radius of Width.
type Item struct {
	Position Point
	Width    float64
}

// Gatherer is a moving collector: a dog's displacement over one tick, from
// StartPos to EndPos, with a collision radius of Width.
type Gatherer struct {
	StartPos, EndPos Point
	Width            float64
}

// GatherEvent records that Gatherer index GathererIdx swept through Item
// index ItemIdx. T is the fractional projection of the item's position onto
// the gatherer's path (0 at StartPos, 1 at EndPos), i.e. the point of closest
// approach; SqDistance is the squared distance from the item to that point.
type GatherEvent struct {
	ItemIdx     int
	GathererIdx int
	SqDistance  float64
	T           float64
}

// FindGatherEvents returns every (gatherer, item) pair whose swept path
// intersects the item's disk of radius item.Width + gatherer.Width, ordered
// by ascending T and, for ties, by (GathererIdx, ItemIdx). This is the
// canonical event order consumed by the session tick (spec.md §4.4).
//
// A non-moving gatherer (StartPos == EndPos) never produces an event: it
// cannot sweep through anything during the tick.
func FindGatherEvents(items []Item, gatherers []Gatherer) []GatherEvent {
	var events []GatherEvent
	for gi, g := range gatherers {
		for ii, it := range items {
			prox := project(g.StartPos, g.EndPos, it.Position)
			if !prox.moving {
				continue
			}
			r := it.Width + g.Width
			if prox.t < 0 || prox.t > 1 {
				continue
			}
			if prox.sqDist > r*r {
				continue
			}
			events = append(events, GatherEvent{
				ItemIdx:     ii,
				GathererIdx: gi,
				SqDistance:  prox.sqDist,
				T:           prox.t,
			})
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.T != b.T {
			return a.T < b.T
		}
		if a.GathererIdx != b.GathererIdx {
			return a.GathererIdx < b.GathererIdx
		}
		return a.ItemIdx < b.ItemIdx
	})
	return events
}
