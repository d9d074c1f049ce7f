package app

import "github.com/collectgame/server/internal/world"

// MapSummary is the {id,name} pair returned by GET /maps.
type MapSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BagItemView is one entry in a dog's bag (spec.md §8 scenario 3: bag=[loot]).
type BagItemView struct {
	ID   uint64 `json:"id"`
	Type int    `json:"type"`
}

// PlayerView is the per-dog payload inside GET /game/state's "players" map.
type PlayerView struct {
	Pos   [2]float64    `json:"pos"`
	Speed [2]float64    `json:"speed"`
	Dir   string        `json:"dir"`
	Bag   []BagItemView `json:"bag"`
	Score int           `json:"score"`
}

// LostObjectView is the per-loot-item payload inside GET /game/state's
// "lostObjects" map.
type LostObjectView struct {
	Type int        `json:"type"`
	Pos  [2]float64 `json:"pos"`
}

// GameStateView is the full GET /game/state response body.
type GameStateView struct {
	Players     map[string]PlayerView     `json:"players"`
	LostObjects map[string]LostObjectView `json:"lostObjects"`
}

// directionLetter maps a Direction to the "L"/"R"/"U"/"D" wire encoding
// (spec.md §6: "L","R","U","D" mapped to WEST,EAST,NORTH,SOUTH).
func directionLetter(d world.Direction) string {
	switch d {
	case world.West:
		return "L"
	case world.East:
		return "R"
	case world.North:
		return "U"
	case world.South:
		return "D"
	default:
		return "U"
	}
}

// letterDirection is the inverse of directionLetter; ok is false for any
// value other than the four accepted letters (spec.md §6).
func letterDirection(s string) (world.Direction, bool) {
	switch s {
	case "L":
		return world.West, true
	case "R":
		return world.East, true
	case "U":
		return world.North, true
	case "D":
		return world.South, true
	default:
		return 0, false
	}
}

func buildGameStateView(sess *world.Session) GameStateView {
	view := GameStateView{
		Players:     make(map[string]PlayerView, len(sess.Dogs)),
		LostObjects: make(map[string]LostObjectView, len(sess.Loot)),
	}
	for id, d := range sess.Dogs {
		bag := make([]BagItemView, len(d.Bag))
		for i, be := range d.Bag {
			bag[i] = BagItemView{ID: be.LootID, Type: be.LootType}
		}
		view.Players[formatID(id)] = PlayerView{
			Pos:   [2]float64{d.Position.X, d.Position.Y},
			Speed: [2]float64{d.Velocity.X, d.Velocity.Y},
			Dir:   directionLetter(d.Facing),
			Bag:   bag,
			Score: d.Score,
		}
	}
	for id, l := range sess.Loot {
		view.LostObjects[formatID(id)] = LostObjectView{
			Type: l.Type,
			Pos:  [2]float64{l.Position.X, l.Position.Y},
		}
	}
	return view
}
