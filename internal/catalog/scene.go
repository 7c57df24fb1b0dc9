package catalog

// Scene is the on-disk form of one room template file.
type Scene struct {
	Maps     []MapDef             `json:"maps"`
	Entities map[string]EntityDef `json:"entities"`
}

// MapDef is a single tile map inside a scene.
type MapDef struct {
	TileNumX   int        `json:"tileNumX"`
	TileNumY   int        `json:"tileNumY"`
	TileWidth  float64    `json:"tileWidth"`
	TileHeight float64    `json:"tileHeight"`
	Layers     []LayerDef `json:"layers"`
}

// LayerDef is one authored layer of a map.
type LayerDef struct {
	Name       string         `json:"name"`
	Metadata   []Metadata     `json:"metadata"`
	TileGroups []TileGroupDef `json:"tileGroups"`
}

// TileGroupDef assigns one tileset image to a list of tile indices (x + y*tileNumX).
type TileGroupDef struct {
	ImageX      int   `json:"imageX"`
	ImageY      int   `json:"imageY"`
	TileIndices []int `json:"tileIndices"`
}

// Metadata is a name/value tag attached to a layer or an entity.
type Metadata struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// EntityDef groups placed instances sharing the same metadata.
type EntityDef struct {
	Metadata  []Metadata    `json:"metadata"`
	Instances []InstanceDef `json:"instances"`
}

// InstanceDef is one placed entity in world units relative to the cell origin.
type InstanceDef struct {
	PosX   float64 `json:"posX"`
	PosY   float64 `json:"posY"`
	PosZ   float64 `json:"posZ"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
