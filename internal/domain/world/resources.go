package world

const (
	ResourceWood  = "Wood"
	ResourceStone = "Stone"
	ItemCoin      = "Coin"

	EndogenousLabor = "Labor"
)

func ResourceKinds() []string {
	return []string{ResourceWood, ResourceStone}
}
