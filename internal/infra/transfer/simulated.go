package transfer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/borysenkooleh7-ops/strip-intergrate/internal/domain"
	"github.com/borysenkooleh7-ops/strip-intergrate/internal/gateway"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SimulatedExecutor implementa gateway.TransferExecutor sem tocar em chain
// nenhuma: quando o executor real não está configurado, o envio vira uma
// transferência simulada determinística (mesmo input, mesmo pseudo-hash).
// Útil em dev e staging; o IsSimulated marca o resultado.
type SimulatedExecutor struct {
	delay time.Duration // simula a latência do despacho real
}

func NewSimulatedExecutor() *SimulatedExecutor {
	return &SimulatedExecutor{delay: 50 * time.Millisecond}
}

func (e *SimulatedExecutor) Send(ctx context.Context, address string, amount decimal.Decimal, network domain.Network) (*gateway.TransferResult, error) {
	// Mesmo simulado, respeita o contrato: valida o destino e o deadline
	normalized, err := domain.ValidateAddress(address, network)
	if err != nil {
		return nil, err
	}

	select {
	case <-time.After(e.delay):
	case <-ctx.Done():
		return nil, domain.ErrTransientTransferError
	}

	hash := pseudoHash(normalized, amount, network)
	log.Info().
		Str("address", normalized).
		Str("amount", amount.String()).
		Str("network", string(network)).
		Str("tx_hash", hash).
		Msg("Transferência SIMULADA de USDT")

	return &gateway.TransferResult{
		TxHash:      hash,
		Status:      "confirmed",
		IsSimulated: true,
	}, nil
}

// pseudoHash gera algo com cara de hash de transação da rede em questão,
// determinístico sobre (endereço, valor, rede).
func pseudoHash(address string, amount decimal.Decimal, network domain.Network) string {
	sum := sha256.Sum256([]byte(address + "|" + amount.String() + "|" + string(network)))
	hash := hex.EncodeToString(sum[:])
	if network == domain.NetworkTRC20 {
		return hash // hashes TRON não levam prefixo
	}
	return "0x" + hash
}
