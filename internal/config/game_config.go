package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/collectgame/server/internal/geom"
	"github.com/collectgame/server/internal/worldmap"
)

// GameConfig is the parsed -c/--config-file document: default dog speed and
// bag capacity, the loot generator's period/probability, the retirement
// threshold, and the set of maps. Field names mirror original_source's
// json_loader.cpp exactly (defaultDogSpeed, lootGeneratorConfig, ...).
type GameConfig struct {
	DefaultDogSpeed    float64            `json:"defaultDogSpeed"`
	DefaultBagCapacity int                `json:"defaultBagCapacity"`
	LootGenerator      lootGeneratorJSON  `json:"lootGeneratorConfig"`
	DogRetirementTime  float64            `json:"dogRetirementTime"` // seconds
	Maps               []mapJSON          `json:"maps"`
}

type lootGeneratorJSON struct {
	Period      float64 `json:"period"` // seconds
	Probability float64 `json:"probability"`
}

type mapJSON struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	DogSpeed    *float64          `json:"dogSpeed"`
	BagCapacity *int              `json:"bagCapacity"`
	LootTypes   []json.RawMessage `json:"lootTypes"`
	Roads       []roadJSON        `json:"roads"`
	Buildings   []buildingJSON    `json:"buildings"`
	Offices     []officeJSON      `json:"offices"`
}

type roadJSON struct {
	X0 int  `json:"x0"`
	Y0 int  `json:"y0"`
	X1 *int `json:"x1"`
	Y1 *int `json:"y1"`
}

type buildingJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type officeJSON struct {
	ID      string `json:"id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	OffsetX int    `json:"offsetX"`
	OffsetY int    `json:"offsetY"`
}

// LoadGame reads and parses the game config file at path.
func LoadGame(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read game config %s: %w", path, err)
	}
	var cfg GameConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse game config %s: %w", path, err)
	}
	return &cfg, nil
}

// RetirementThreshold returns the configured idle-retirement duration.
func (c *GameConfig) RetirementThreshold() time.Duration {
	return time.Duration(c.DogRetirementTime * float64(time.Second))
}

// LootGeneratorPeriod and LootGeneratorProbability feed lootgen.New.
func (c *GameConfig) LootGeneratorPeriod() time.Duration {
	return time.Duration(c.LootGenerator.Period * float64(time.Second))
}

func (c *GameConfig) LootGeneratorProbability() float64 {
	return c.LootGenerator.Probability
}

// BuildMaps constructs a *worldmap.Map for every entry in c.Maps, applying
// the default dog speed / bag capacity when a map doesn't override them
// (original_source: "dog_speed = *override : game.GetDefaultSpeed()").
func (c *GameConfig) BuildMaps() ([]*worldmap.Map, error) {
	maps := make([]*worldmap.Map, 0, len(c.Maps))
	for _, mj := range c.Maps {
		speed := c.DefaultDogSpeed
		if mj.DogSpeed != nil {
			speed = *mj.DogSpeed
		}
		capacity := c.DefaultBagCapacity
		if mj.BagCapacity != nil {
			capacity = *mj.BagCapacity
		}

		roads := make([]worldmap.Road, 0, len(mj.Roads))
		for _, rj := range mj.Roads {
			r, err := buildRoad(rj)
			if err != nil {
				return nil, fmt.Errorf("map %s: %w", mj.ID, err)
			}
			roads = append(roads, r)
		}

		offices := make([]worldmap.Office, 0, len(mj.Offices))
		for _, oj := range mj.Offices {
			offices = append(offices, worldmap.Office{
				ID:       oj.ID,
				Position: geom.Point{X: float64(oj.X), Y: float64(oj.Y)},
				OffsetX:  oj.OffsetX,
				OffsetY:  oj.OffsetY,
			})
		}

		lootTypes := make([]worldmap.LootType, 0, len(mj.LootTypes))
		for _, raw := range mj.LootTypes {
			var v struct {
				Value int `json:"value"`
			}
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, fmt.Errorf("map %s: loot type: %w", mj.ID, err)
			}
			lootTypes = append(lootTypes, worldmap.LootType{Value: v.Value, Extra: raw})
		}

		m := worldmap.New(mj.ID, mj.Name, roads, offices, lootTypes, speed, capacity)
		m.Buildings = make([]worldmap.Building, 0, len(mj.Buildings))
		for _, bj := range mj.Buildings {
			m.Buildings = append(m.Buildings, worldmap.Building{X: bj.X, Y: bj.Y, W: bj.W, H: bj.H})
		}

		maps = append(maps, m)
	}
	return maps, nil
}

func buildRoad(rj roadJSON) (worldmap.Road, error) {
	if rj.X1 != nil {
		return worldmap.Road{
			Orientation: worldmap.Horizontal,
			Start:       geom.Point{X: float64(rj.X0), Y: float64(rj.Y0)},
			End:         geom.Point{X: float64(*rj.X1), Y: float64(rj.Y0)},
		}, nil
	}
	if rj.Y1 != nil {
		return worldmap.Road{
			Orientation: worldmap.Vertical,
			Start:       geom.Point{X: float64(rj.X0), Y: float64(rj.Y0)},
			End:         geom.Point{X: float64(rj.X0), Y: float64(*rj.Y1)},
		}, nil
	}
	return worldmap.Road{}, fmt.Errorf("road at (%d,%d) has neither x1 nor y1", rj.X0, rj.Y0)
}
