package catalog

import (
	"encoding/json"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/samdwyer/cellcrawl/data"
	"github.com/samdwyer/cellcrawl/internal/geom"
)

func sceneJSON(t *testing.T, scene Scene) []byte {
	t.Helper()
	content, err := json.Marshal(scene)
	if err != nil {
		t.Fatalf("marshal scene: %v", err)
	}
	return content
}

func wallScene(width, height int, tags ...string) Scene {
	var walls []int
	for x := 0; x < width; x++ {
		walls = append(walls, x, x+(height-1)*width)
	}
	meta := []Metadata{{Name: "hasCollision"}}
	for _, tag := range tags {
		meta = append(meta, Metadata{Name: tag})
	}
	return Scene{
		Maps: []MapDef{{
			TileNumX: width, TileNumY: height, TileWidth: 64, TileHeight: 64,
			Layers: []LayerDef{
				{Name: "floor", TileGroups: []TileGroupDef{{ImageX: 1, TileIndices: []int{width + 1}}}},
				{Name: "walls", Metadata: meta, TileGroups: []TileGroupDef{{ImageY: 2, TileIndices: walls}}},
			},
		}},
	}
}

func TestLoadEmbedded(t *testing.T) {
	cat, err := Load(data.Cells(), 20, 12)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cat.Len() == 0 {
		t.Fatal("Load() returned no templates")
	}

	hub := cat.Hub()
	if hub == nil {
		t.Fatal("Hub() = nil, want a template with four connectors")
	}
	if hub.Name() != "hub_cavern" {
		t.Errorf("Hub().Name() = %q, want hub_cavern (first in file order)", hub.Name())
	}

	exits := 0
	deadEnds := 0
	for _, ct := range cat.Types() {
		if ct.HasExit() {
			exits++
		}
		if ct.IsDeadEnd() {
			deadEnds++
		}
		w, h := ct.Size()
		if w != 20 || h != 12 {
			t.Errorf("%s: Size() = %dx%d, want 20x12", ct.Name(), w, h)
		}
	}
	if exits != 1 {
		t.Errorf("templates with exit = %d, want 1", exits)
	}
	if deadEnds < 4 {
		t.Errorf("dead ends = %d, want at least 4", deadEnds)
	}
}

func TestConnectorTags(t *testing.T) {
	tests := []struct {
		tag  string
		want geom.Direction
		ok   bool
	}{
		{"hasConnectionLeft", geom.Left, true},
		{"hasConnectionRight", geom.Right, true},
		{"hasConnectionTop", geom.Top, true},
		{"hasConnectionBot", geom.Bottom, true},
		{"HASCONNECTIONBOTTOM", geom.Bottom, true},
		{"hasConnection", 0, false},
		{"connectionLeft", 0, false},
		{"hasCollision", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseConnection(tt.tag)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("parseConnection(%q) = %v, %v, want %v, %v", tt.tag, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNewCellType(t *testing.T) {
	scene := wallScene(4, 3, "hasConnectionLeft", "levelExit")
	scene.Entities = map[string]EntityDef{
		"torches": {
			Metadata:  []Metadata{{Name: SpawnTorch, Value: "#FF8800"}},
			Instances: []InstanceDef{{PosX: 96, PosY: 96, Width: 32, Height: 32}},
		},
	}

	ct, err := NewCellType("room", scene, 4, 3)
	if err != nil {
		t.Fatalf("NewCellType() error = %v", err)
	}

	if !ct.HasConnection(geom.Left) || ct.HasConnection(geom.Right) {
		t.Errorf("connections = %v, want [left]", ct.Connections())
	}
	if !ct.IsDeadEnd() {
		t.Error("IsDeadEnd() = false, want true")
	}
	if !ct.HasExit() {
		t.Error("HasExit() = false, want true")
	}
	if !ct.Solid(0, 0) || ct.Solid(1, 1) {
		t.Errorf("Solid(0,0)=%v Solid(1,1)=%v, want true,false", ct.Solid(0, 0), ct.Solid(1, 1))
	}
	if !ct.Solid(-1, 1) {
		t.Error("Solid() out of bounds = false, want true")
	}

	// Top and bottom rows of a 4x3 room
	if got := len(ct.CollisionTiles()); got != 8 {
		t.Errorf("len(CollisionTiles()) = %d, want 8", got)
	}

	boxes := ct.CollisionBoxes(64)
	if boxes[0] != (geom.Box{X: 0, Y: 0, W: 64, H: 64}) {
		t.Errorf("CollisionBoxes()[0] = %+v, want origin tile", boxes[0])
	}

	spawns := ct.Spawns(SpawnTorch)
	if len(spawns) != 1 || spawns[0].Value != "#FF8800" {
		t.Errorf("Spawns(torch) = %+v, want one #FF8800 torch", spawns)
	}
	if len(ct.Spawns(SpawnEnemy)) != 0 {
		t.Error("Spawns(enemy) should be empty")
	}

	if !ct.Layers()[1].At(0, 0).Set {
		t.Error("walls layer should have a tile at (0,0)")
	}
	if ct.String() != "room[L]" {
		t.Errorf("String() = %q, want room[L]", ct.String())
	}
}

func TestLoadErrors(t *testing.T) {
	twoMaps := wallScene(4, 3)
	twoMaps.Maps = append(twoMaps.Maps, twoMaps.Maps[0])

	tests := []struct {
		name  string
		scene Scene
		want  error
	}{
		{"two maps", twoMaps, ErrMapCount},
		{"no maps", Scene{}, ErrMapCount},
		{"wrong size", wallScene(5, 3), ErrMapSize},
	}

	for _, tt := range tests {
		fsys := fstest.MapFS{"bad.json": {Data: sceneJSON(t, tt.scene)}}
		_, err := Load(fsys, 4, 3)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: Load() error = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestLoadSkipsDirectoriesAndOrdersByName(t *testing.T) {
	fsys := fstest.MapFS{
		"b.json":     {Data: sceneJSON(t, wallScene(4, 3, "hasConnectionTop"))},
		"a.json":     {Data: sceneJSON(t, wallScene(4, 3, "hasConnectionBot"))},
		"notes.txt":  {Data: []byte("ignored")},
		"old/c.json": {Data: []byte("not json")},
	}

	cat, err := Load(fsys, 4, 3)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", cat.Len())
	}
	if cat.Types()[0].Name() != "a" || cat.Types()[1].Name() != "b" {
		t.Errorf("order = %s,%s, want a,b", cat.Types()[0].Name(), cat.Types()[1].Name())
	}
	if cat.Hub() != nil {
		t.Error("Hub() should be nil without a four-way template")
	}
	if cat.ByName("b") != cat.Types()[1] {
		t.Error("ByName(b) did not return the second template")
	}
}

func TestLoadDirMissing(t *testing.T) {
	_, err := LoadDir("/nonexistent/cellcrawl/templates", 20, 12)
	if !errors.Is(err, ErrTemplateDirMissing) {
		t.Errorf("LoadDir() error = %v, want ErrTemplateDirMissing", err)
	}
}

func TestTemplateIDsAreUnique(t *testing.T) {
	cat := MustLoad(data.Cells(), 20, 12)
	seen := make(map[string]bool)
	for _, ct := range cat.Types() {
		id := ct.ID().String()
		if seen[id] {
			t.Errorf("duplicate template id %s", id)
		}
		seen[id] = true
	}
}
