package world

import (
	"math"
	"time"

	"github.com/collectgame/server/internal/geom"
)

// Tick advances the session by dt, following the strict order in spec.md
// §4.4: motion → clamp-to-road → idle accounting → collision → retirement →
// loot regeneration. retirementThreshold is τ (default 60s).
func (s *Session) Tick(dt time.Duration, retirementThreshold time.Duration) TickResult {
	ids := s.sortedDogIDs()

	starts := make(map[uint64]geom.Point, len(ids))
	ends := make(map[uint64]geom.Point, len(ids))
	wasMoving := make(map[uint64]bool, len(ids))

	// Steps 1-2: snapshot motion intents, clamp to road.
	for _, id := range ids {
		d := s.Dogs[id]
		p0 := d.Position
		v := d.Velocity
		wasMoving[id] = v.X != 0 || v.Y != 0

		starts[id] = p0
		if v.X == 0 && v.Y == 0 {
			ends[id] = p0
			continue
		}

		dtSec := dt.Seconds()
		p1 := geom.Point{X: p0.X + v.X*dtSec, Y: p0.Y + v.Y*dtSec}

		if v.X != 0 {
			limit, ok := s.Map.FindHorRoad(p0)
			if !ok {
				limit, _ = s.Map.FindVertRoad(p0)
			}
			if p1.X >= limit.XMin && p1.X <= limit.XMax {
				d.Position = geom.Point{X: p1.X, Y: p0.Y}
			} else {
				x := limit.XMax
				if v.X < 0 {
					x = limit.XMin
				}
				d.Position = geom.Point{X: roundToOneDecimal(x), Y: p0.Y}
				d.Velocity = geom.Point{}
			}
		} else {
			limit, ok := s.Map.FindVertRoad(p0)
			if !ok {
				limit, _ = s.Map.FindHorRoad(p0)
			}
			if p1.Y >= limit.YMin && p1.Y <= limit.YMax {
				d.Position = geom.Point{X: p0.X, Y: p1.Y}
			} else {
				y := limit.YMax
				if v.Y < 0 {
					y = limit.YMin
				}
				d.Position = geom.Point{X: p0.X, Y: roundToOneDecimal(y)}
				d.Velocity = geom.Point{}
			}
		}
		ends[id] = d.Position
	}

	// Step 3: idle accounting.
	var toRetire []uint64
	for _, id := range ids {
		d := s.Dogs[id]
		if wasMoving[id] {
			d.InGame += d.Standby
			d.Standby = 0
			d.InGame += dt
			continue
		}
		prevStandby := d.Standby
		newStandby := d.Standby + dt
		if prevStandby <= retirementThreshold && newStandby > retirementThreshold {
			d.InGame += retirementThreshold
			d.Standby = newStandby
			toRetire = append(toRetire, id)
		} else {
			d.Standby = newStandby
		}
	}

	// Step 4: collision.
	s.runCollisions(ids, starts, ends)

	// Step 5: retirement.
	var retired []RetiredDog
	for _, id := range toRetire {
		d := s.Dogs[id]
		retired = append(retired, RetiredDog{
			DogID:       d.ID,
			Name:        d.Name,
			Score:       d.Score,
			PlaySeconds: d.InGame.Seconds(),
		})
		s.RemoveDog(id)
	}

	// Step 6: loot regeneration.
	s.regenerateLoot(dt)

	return TickResult{Retired: retired}
}

// roundToOneDecimal rounds v to one decimal place — applied only when
// clamping to a wall, never during free motion (spec.md §9 Floating point).
func roundToOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
