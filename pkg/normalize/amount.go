package normalize

import (
	"math/big"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// maxFractionDigits limita as casas decimais exibidas em valores de token
const maxFractionDigits = 4

// Formatter formata valores conforme as convenções de um locale
type Formatter struct {
	printer *message.Printer
}

// NewFormatter cria um formatter para o locale informado
func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{printer: message.NewPrinter(tag)}
}

// NewFormatterFor interpreta uma tag BCP 47; tag inválida cai para inglês
func NewFormatterFor(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return NewFormatter(tag)
}

var defaultFormatter = NewFormatter(language.English)

// FormatTokenAmount usa o formatter padrão (inglês)
func FormatTokenAmount(amount *big.Int, decimals int) string {
	return defaultFormatter.FormatTokenAmount(amount, decimals)
}

// FormatTokenAmount divide o valor atômico por 10^decimals e formata com
// agrupamento do locale e no máximo 4 casas decimais.
func (f *Formatter) FormatTokenAmount(amount *big.Int, decimals int) string {
	if amount == nil {
		amount = new(big.Int)
	}
	if decimals < 0 {
		decimals = 0
	}
	d := decimal.NewFromBigInt(amount, -int32(decimals)).Round(maxFractionDigits)
	return f.printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(maxFractionDigits)))
}
