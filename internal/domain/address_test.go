package domain

import (
	"errors"
	"testing"
)

const (
	validTron = "TN3W4H6rK2ce4vX9YnFQHwKENnHjoxb3m9"
	validEvm  = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
)

func TestValidateAddressAccepted(t *testing.T) {
	tests := []struct {
		raw     string
		network Network
		want    string
	}{
		{validTron, NetworkTRC20, validTron},
		{validEvm, NetworkERC20, validEvm},
		{validEvm, NetworkBEP20, validEvm}, // BEP20 compartilha o formato EVM
		{"  " + validTron + "  ", NetworkTRC20, validTron},
		{"\t" + validEvm + "\n", NetworkERC20, validEvm},
	}

	for _, tt := range tests {
		got, err := ValidateAddress(tt.raw, tt.network)
		if err != nil {
			t.Errorf("ValidateAddress(%q, %s): unexpected error: %v", tt.raw, tt.network, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ValidateAddress(%q, %s) = %q, want %q", tt.raw, tt.network, got, tt.want)
		}
	}
}

func TestValidateAddressRejected(t *testing.T) {
	// Inclui: família trocada, comprimento errado (33/35/41) e ausência de prefixo
	tests := []struct {
		raw     string
		network Network
	}{
		{"", NetworkTRC20},
		{validEvm, NetworkTRC20},
		{validTron, NetworkERC20},
		{"TN3W4H6rK2ce4vX9YnFQHwKENnHjoxb3m", NetworkTRC20},
		{validTron + "X", NetworkTRC20},
		{"0x742d35Cc6634C0532925a3b844Bc454e4438f44", NetworkERC20},
		{"742d35Cc6634C0532925a3b844Bc454e4438f44e11", NetworkBEP20},
	}

	for _, tt := range tests {
		_, err := ValidateAddress(tt.raw, tt.network)
		if !errors.Is(err, ErrInvalidAddress) {
			t.Errorf("ValidateAddress(%q, %s): err = %v, want ErrInvalidAddress", tt.raw, tt.network, err)
		}
	}
}

func TestValidateAddressUnsupportedNetwork(t *testing.T) {
	_, err := ValidateAddress(validEvm, Network("SOLANA"))
	if !errors.Is(err, ErrUnsupportedNetwork) {
		t.Errorf("err = %v, want ErrUnsupportedNetwork", err)
	}
}
