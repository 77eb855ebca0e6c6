package world

type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Tile struct {
	Point     Point              `json:"point"`
	Resources map[string]float64 `json:"resources,omitempty"`
	Landmark  string             `json:"landmark,omitempty"`
	Owner     string             `json:"owner,omitempty"`
}

// HasResource reports whether any resource node with a positive amount sits on the tile.
func (t Tile) HasResource() bool {
	for _, qty := range t.Resources {
		if qty > 0 {
			return true
		}
	}
	return false
}

func (t Tile) HasLandmark() bool {
	return t.Landmark != ""
}
