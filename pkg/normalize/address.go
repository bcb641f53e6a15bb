package normalize

// defaultAddressChars é quantos caracteres de cada ponta sobram
const defaultAddressChars = 4

// ShortenAddress encurta um endereço para first(chars+2) + "..." + last(chars).
// chars ≤ 0 usa 4; string vazia retorna "".
func ShortenAddress(address string, chars int) string {
	if address == "" {
		return ""
	}
	if chars <= 0 {
		chars = defaultAddressChars
	}
	head := chars + 2
	if head > len(address) {
		head = len(address)
	}
	tail := len(address) - chars
	if tail < 0 {
		tail = 0
	}
	return address[:head] + "..." + address[tail:]
}
