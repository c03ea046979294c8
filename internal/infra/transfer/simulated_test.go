package transfer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/borysenkooleh7-ops/strip-intergrate/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	tronAddress = "TN3W4H6rK2ce4vX9YnFQHwKENnHjoxb3m9"
	evmAddress  = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
)

func TestSendIsDeterministic(t *testing.T) {
	executor := NewSimulatedExecutor()
	amount := decimal.RequireFromString("450.00")

	first, err := executor.Send(context.Background(), evmAddress, amount, domain.NetworkERC20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := executor.Send(context.Background(), evmAddress, amount, domain.NetworkERC20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.TxHash != second.TxHash {
		t.Errorf("same input produced different hashes: %s != %s", first.TxHash, second.TxHash)
	}
	if !first.IsSimulated {
		t.Error("result not flagged as simulated")
	}
	if first.Status != "confirmed" {
		t.Errorf("status = %s, want confirmed", first.Status)
	}
}

func TestSendHashFormatPerNetwork(t *testing.T) {
	executor := NewSimulatedExecutor()
	amount := decimal.NewFromInt(100)

	evm, err := executor.Send(context.Background(), evmAddress, amount, domain.NetworkERC20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(evm.TxHash, "0x") {
		t.Errorf("EVM hash without 0x prefix: %s", evm.TxHash)
	}

	tron, err := executor.Send(context.Background(), tronAddress, amount, domain.NetworkTRC20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.HasPrefix(tron.TxHash, "0x") {
		t.Errorf("TRON hash must not carry 0x prefix: %s", tron.TxHash)
	}
}

func TestSendValidatesAddress(t *testing.T) {
	executor := NewSimulatedExecutor()
	_, err := executor.Send(context.Background(), "bogus", decimal.NewFromInt(100), domain.NetworkERC20)
	if !errors.Is(err, domain.ErrInvalidAddress) {
		t.Errorf("err = %v, want ErrInvalidAddress", err)
	}
}

func TestSendRespectsDeadline(t *testing.T) {
	executor := NewSimulatedExecutor()

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	_, err := executor.Send(ctx, evmAddress, decimal.NewFromInt(100), domain.NetworkERC20)
	if !errors.Is(err, domain.ErrTransientTransferError) {
		t.Errorf("err = %v, want ErrTransientTransferError", err)
	}
	if !domain.IsRetryableTransferError(err) {
		t.Error("deadline failure must be retryable")
	}
}
