package domain

import "errors"

// Erros de entrada (culpa do usuário): rejeitados na hora, sem mexer em estado.
var (
	ErrAmountOutOfRange    = errors.New("amount outside allowed transaction range")
	ErrInvalidAddress      = errors.New("invalid wallet address format")
	ErrUnsupportedNetwork  = errors.New("unsupported network")
	ErrUnsupportedProvider = errors.New("unsupported payment provider")
)

// Erros de consistência (culpa da nossa tabela de tiers, não do usuário).
// Com a tabela bem configurada nunca devem acontecer — são asserções de invariante.
var (
	ErrNoTierMatch     = errors.New("no conversion tier matches amount")
	ErrMarginViolation = errors.New("conversion fee below minimum profit margin")
)

// Erros de estado: absorvidos nos webhooks para não virar retry infinito do provider.
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyTerminal     = errors.New("transaction already in terminal status")
	ErrInvalidTransition   = errors.New("invalid status transition")
)

// Erros do executor de transferência (dependência externa).
var (
	ErrInsufficientBalance    = errors.New("insufficient treasury balance")
	ErrTransferPermission     = errors.New("transfer permission denied")
	ErrTransientTransferError = errors.New("transient network error during transfer")
)

// IsRetryableTransferError indica se vale a pena tentar o envio de novo.
// Só falha transitória de rede é retryable, o resto é definitivo.
func IsRetryableTransferError(err error) bool {
	return errors.Is(err, ErrTransientTransferError)
}
