package httpapi

import (
	"encoding/json"

	"github.com/collectgame/server/internal/app"
	"github.com/collectgame/server/internal/worldmap"
)

// mapSummaryView is one entry of GET /api/v1/maps (spec.md §6).
type mapSummaryView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type roadView struct {
	Orientation string     `json:"orientation"`
	Start       [2]float64 `json:"start"`
	End         [2]float64 `json:"end"`
}

type buildingView struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type officeView struct {
	ID       string     `json:"id"`
	Position [2]float64 `json:"position"`
}

// mapDetailView is the GET /api/v1/maps/{id} response body: the full map
// topology, echoed verbatim down to each loot type's opaque front-end
// metadata (spec.md §6: "full map incl. lootTypes").
type mapDetailView struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Roads       []roadView        `json:"roads"`
	Buildings   []buildingView    `json:"buildings"`
	Offices     []officeView      `json:"offices"`
	LootTypes   []json.RawMessage `json:"lootTypes"`
	DogSpeed    float64           `json:"dogSpeed"`
	BagCapacity int               `json:"bagCapacity"`
}

func buildMapSummaries(summaries []app.MapSummary) []mapSummaryView {
	out := make([]mapSummaryView, len(summaries))
	for i, s := range summaries {
		out[i] = mapSummaryView{ID: s.ID, Name: s.Name}
	}
	return out
}

func buildMapDetail(m *worldmap.Map) mapDetailView {
	roads := make([]roadView, len(m.Roads))
	for i, r := range m.Roads {
		orientation := "horizontal"
		if r.Orientation == worldmap.Vertical {
			orientation = "vertical"
		}
		roads[i] = roadView{
			Orientation: orientation,
			Start:       [2]float64{r.Start.X, r.Start.Y},
			End:         [2]float64{r.End.X, r.End.Y},
		}
	}

	buildings := make([]buildingView, len(m.Buildings))
	for i, b := range m.Buildings {
		buildings[i] = buildingView{X: b.X, Y: b.Y, W: b.W, H: b.H}
	}

	offices := make([]officeView, len(m.Offices))
	for i, o := range m.Offices {
		offices[i] = officeView{ID: o.ID, Position: [2]float64{o.Position.X, o.Position.Y}}
	}

	lootTypes := make([]json.RawMessage, len(m.LootTypes))
	for i, lt := range m.LootTypes {
		lootTypes[i] = lt.Extra
	}

	return mapDetailView{
		ID:          m.ID,
		Name:        m.Name,
		Roads:       roads,
		Buildings:   buildings,
		Offices:     offices,
		LootTypes:   lootTypes,
		DogSpeed:    m.DogSpeed,
		BagCapacity: m.BagCapacity,
	}
}
