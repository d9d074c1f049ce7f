package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleGameConfig = `{
  "defaultDogSpeed": 3.0,
  "defaultBagCapacity": 3,
  "lootGeneratorConfig": {"period": 5.0, "probability": 0.5},
  "dogRetirementTime": 60.0,
  "maps": [
    {
      "id": "map1",
      "name": "Map 1",
      "lootTypes": [{"value": 10, "name": "key"}, {"value": 20}],
      "roads": [{"x0": 0, "y0": 0, "x1": 30}, {"x0": 0, "y0": 0, "y1": 30}],
      "buildings": [{"x": 5, "y": 5, "w": 2, "h": 2}],
      "offices": [{"id": "o1", "x": 0, "y": 0, "offsetX": 0, "offsetY": 1}]
    },
    {
      "id": "map2",
      "name": "Map 2",
      "dogSpeed": 5.0,
      "bagCapacity": 10,
      "lootTypes": [{"value": 1}],
      "roads": [{"x0": 0, "y0": 0, "x1": 10}],
      "buildings": [],
      "offices": []
    }
  ]
}`

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadGameParsesTopLevelFields(t *testing.T) {
	path := writeTempConfig(t, sampleGameConfig)
	cfg, err := LoadGame(path)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if cfg.DefaultDogSpeed != 3.0 || cfg.DefaultBagCapacity != 3 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.LootGeneratorProbability() != 0.5 {
		t.Fatalf("expected probability 0.5, got %v", cfg.LootGeneratorProbability())
	}
	if cfg.RetirementThreshold().Seconds() != 60.0 {
		t.Fatalf("expected retirement threshold 60s, got %v", cfg.RetirementThreshold())
	}
}

func TestBuildMapsAppliesDefaultsAndOverrides(t *testing.T) {
	path := writeTempConfig(t, sampleGameConfig)
	cfg, err := LoadGame(path)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	maps, err := cfg.BuildMaps()
	if err != nil {
		t.Fatalf("BuildMaps: %v", err)
	}
	if len(maps) != 2 {
		t.Fatalf("expected 2 maps, got %d", len(maps))
	}

	m1 := maps[0]
	if m1.DogSpeed != 3.0 || m1.BagCapacity != 3 {
		t.Fatalf("expected map1 to inherit defaults, got speed=%v capacity=%v", m1.DogSpeed, m1.BagCapacity)
	}
	if len(m1.Roads) != 2 || len(m1.Offices) != 1 || len(m1.Buildings) != 1 {
		t.Fatalf("unexpected map1 topology: %+v", m1)
	}
	if m1.LootTypeCount() != 2 || m1.LootValue(0) != 10 || m1.LootValue(1) != 20 {
		t.Fatalf("unexpected loot types: %+v", m1.LootTypes)
	}

	m2 := maps[1]
	if m2.DogSpeed != 5.0 || m2.BagCapacity != 10 {
		t.Fatalf("expected map2 override, got speed=%v capacity=%v", m2.DogSpeed, m2.BagCapacity)
	}
}

func TestBuildMapsRejectsRoadWithNeitherAxis(t *testing.T) {
	bad := `{"defaultDogSpeed":3,"defaultBagCapacity":3,"lootGeneratorConfig":{"period":1,"probability":0},"dogRetirementTime":60,"maps":[{"id":"m","name":"m","lootTypes":[],"roads":[{"x0":0,"y0":0}],"buildings":[],"offices":[]}]}`
	path := writeTempConfig(t, bad)
	cfg, err := LoadGame(path)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if _, err := cfg.BuildMaps(); err == nil {
		t.Fatalf("expected error building a road with neither x1 nor y1")
	}
}

func TestLoadOpsFallsBackToDefaultsWhenPathEmpty(t *testing.T) {
	cfg, err := LoadOps("")
	if err != nil {
		t.Fatalf("LoadOps: %v", err)
	}
	if cfg.Server.BindAddress == "" || cfg.Logging.Level == "" {
		t.Fatalf("expected non-empty defaults, got %+v", cfg)
	}
}
