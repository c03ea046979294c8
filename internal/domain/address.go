package domain

import "strings"

// Regras de formato por família de rede. Validação só de formato:
// checksum e existência on-chain são propriedade da codificação de cada
// chain e ficam fora deste núcleo de propósito.
const (
	trcAddressPrefix = "T"
	trcAddressLength = 34

	evmAddressPrefix = "0x"
	evmAddressLength = 42
)

// ValidateAddress normaliza (trim) e valida o endereço para a rede dada.
// Retorna o endereço normalizado ou ErrInvalidAddress / ErrUnsupportedNetwork.
func ValidateAddress(raw string, network Network) (string, error) {
	addr := strings.TrimSpace(raw)

	switch network {
	case NetworkTRC20:
		if len(addr) == trcAddressLength && strings.HasPrefix(addr, trcAddressPrefix) {
			return addr, nil
		}
	case NetworkERC20, NetworkBEP20:
		// ERC20 e BEP20 compartilham o mesmo formato de endereço
		if len(addr) == evmAddressLength && strings.HasPrefix(addr, evmAddressPrefix) {
			return addr, nil
		}
	default:
		return "", ErrUnsupportedNetwork
	}

	return "", ErrInvalidAddress
}
