package chains

// IDs das redes suportadas pelo protocolo Azuro (mainnets e testnets)
const (
	Gnosis      int64 = 100
	Polygon     int64 = 137
	PolygonAmoy int64 = 80002
	Chiliz      int64 = 88888
	ChilizSpicy int64 = 88882
	Base        int64 = 8453
	BaseSepolia int64 = 84532
)

// DefaultChainID é a rede usada quando o usuário ainda não escolheu uma
const DefaultChainID = Polygon

// Chain representa uma rede exposta ao frontend
type Chain struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

var supported = []Chain{
	{ID: Gnosis, Name: "Gnosis"},
	{ID: Polygon, Name: "Polygon"},
	{ID: PolygonAmoy, Name: "Polygon Amoy"},
	{ID: Chiliz, Name: "Chiliz"},
	{ID: ChilizSpicy, Name: "Chiliz Spicy"},
	{ID: Base, Name: "Base"},
	{ID: BaseSepolia, Name: "Base Sepolia"},
}

// Supported retorna uma cópia da lista de redes suportadas
func Supported() []Chain {
	out := make([]Chain, len(supported))
	copy(out, supported)
	return out
}

// IsSupported informa se o chain id pertence a uma rede suportada
func IsSupported(id int64) bool {
	_, ok := Name(id)
	return ok
}

// Name retorna o nome legível da rede
func Name(id int64) (string, bool) {
	for _, c := range supported {
		if c.ID == id {
			return c.Name, true
		}
	}
	return "", false
}
