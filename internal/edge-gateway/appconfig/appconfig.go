package appconfig

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/radieske/sportsbook-edge/internal/shared/config"
	"github.com/radieske/sportsbook-edge/pkg/contracts/chains"
)

// ZeroAddress é usado quando o endereço configurado é inválido ou ausente
var ZeroAddress = common.Address{}.Hex()

// Promo é o texto promocional exibido no frontend
type Promo struct {
	CampaignID string `json:"campaignId"`
	Headline   string `json:"headline"`
	Secondary  string `json:"secondary"`
}

// PublicConfig é a configuração que o frontend pode ver
type PublicConfig struct {
	DefaultChainID   int64          `json:"defaultChainId"`
	Chains           []chains.Chain `json:"chains"`
	AffiliateAddress string         `json:"affiliateAddress"`
	OwnerAddress     string         `json:"ownerAddress"`
	TreasuryAddress  string         `json:"treasuryAddress"`
	Promo            Promo          `json:"promo"`
}

// AsAddress aceita só "0x" + 40 hex; qualquer outra coisa vira ZeroAddress.
// O endereço válido volta no formato checksum (EIP-55).
func AsAddress(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "0x") || !common.IsHexAddress(v) {
		return ZeroAddress
	}
	return common.HexToAddress(v).Hex()
}

// Build monta a configuração pública a partir da config carregada
func Build(c config.AppConfig) PublicConfig {
	return PublicConfig{
		DefaultChainID:   c.DefaultChainID,
		Chains:           chains.Supported(),
		AffiliateAddress: AsAddress(c.AffiliateAddress),
		OwnerAddress:     AsAddress(c.OwnerAddress),
		TreasuryAddress:  AsAddress(c.TreasuryAddress),
		Promo: Promo{
			CampaignID: c.PromoCampaignID,
			Headline:   c.PromoHeadline,
			Secondary:  c.PromoSecondary,
		},
	}
}

// Handler serve a configuração pública (GET /api/config)
func Handler(pc PublicConfig) http.HandlerFunc {
	body, _ := json.Marshal(pc)
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=60")
		_, _ = w.Write(body)
	}
}
