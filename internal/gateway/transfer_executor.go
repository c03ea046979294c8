package gateway

import (
	"context"

	"github.com/borysenkooleh7-ops/strip-intergrate/internal/domain"
	"github.com/shopspring/decimal"
)

// TransferResult é o que o executor devolve depois de despachar USDT.
// "Despachar" não implica confirmação on-chain — só que a instrução foi dada.
type TransferResult struct {
	TxHash      string
	Status      string
	IsSimulated bool
}

// TransferExecutor é a fronteira com o mecanismo real de envio de USDT.
// Implementações devem falhar rápido com os erros tipados do domínio
// (ErrInsufficientBalance, ErrInvalidAddress, ErrTransferPermission,
// ErrTransientTransferError) e respeitar o deadline do contexto —
// travar indefinidamente aqui é bug de correção, não opção.
type TransferExecutor interface {
	Send(ctx context.Context, address string, amount decimal.Decimal, network domain.Network) (*TransferResult, error)
}
