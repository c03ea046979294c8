package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/borysenkooleh7-ops/strip-intergrate/internal/domain"
	"github.com/borysenkooleh7-ops/strip-intergrate/internal/gateway"
	"github.com/shopspring/decimal"
)

// fakeUow imita a Unit of Work: injeta o "crachá" no contexto e serializa
// os Run com um mutex, do mesmo jeito que o lock de linha serializa no banco.
type fakeUow struct {
	mu sync.Mutex
}

func (u *fakeUow) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return fn(context.WithValue(ctx, gateway.TransactionKey, struct{}{}))
}

// memTransactionRepo guarda transações em memória com semântica de banco:
// Get devolve cópia, Update grava cópia, metadata faz round-trip por JSON
// (igual ao JSONB — slices voltam como []interface{}).
type memTransactionRepo struct {
	mu      sync.Mutex
	rows    map[string]*domain.Transaction
	nextID  int
	updates int
}

func newMemTransactionRepo() *memTransactionRepo {
	return &memTransactionRepo{rows: map[string]*domain.Transaction{}}
}

func (r *memTransactionRepo) clone(t *domain.Transaction) *domain.Transaction {
	cp := *t
	if t.Metadata != nil {
		raw, _ := json.Marshal(t.Metadata)
		cp.Metadata = map[string]interface{}{}
		_ = json.Unmarshal(raw, &cp.Metadata)
	}
	return &cp
}

func (r *memTransactionRepo) Create(ctx context.Context, transaction *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	transaction.ID = fmt.Sprintf("tx-%d", r.nextID)
	r.rows[transaction.ID] = r.clone(transaction)
	return nil
}

func (r *memTransactionRepo) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return r.clone(row), nil
}

func (r *memTransactionRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Transaction, error) {
	return r.GetByID(ctx, id)
}

func (r *memTransactionRepo) GetByProviderPaymentIDForUpdate(ctx context.Context, provider domain.Provider, providerPaymentID string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Provider == provider && row.ProviderPaymentID != nil && *row.ProviderPaymentID == providerPaymentID {
			return r.clone(row), nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (r *memTransactionRepo) Update(ctx context.Context, transaction *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[transaction.ID]; !ok {
		return domain.ErrTransactionNotFound
	}
	r.rows[transaction.ID] = r.clone(transaction)
	r.updates++
	return nil
}

func (r *memTransactionRepo) List(ctx context.Context, filter gateway.TransactionFilter) ([]domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Transaction, 0, len(r.rows))
	for _, row := range r.rows {
		if filter.UserID != nil && row.UserID != *filter.UserID {
			continue
		}
		out = append(out, *r.clone(row))
	}
	return out, nil
}

func (r *memTransactionRepo) WithTx(tx gateway.TransactionObject) gateway.TransactionRepository {
	return r
}

// publishedEvent é uma notificação capturada pelo publisher de teste.
type publishedEvent struct {
	exchange   string
	routingKey string
	body       interface{}
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{exchange: exchange, routingKey: routingKey, body: body})
	return nil
}

func (p *capturingPublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]publishedEvent, len(p.events))
	copy(out, p.events)
	return out
}

func (p *capturingPublisher) routingKeys() []string {
	keys := []string{}
	for _, e := range p.published() {
		keys = append(keys, e.routingKey)
	}
	return keys
}

// fakeExecutor devolve um resultado fixo ou um erro fixo, contando chamadas.
type fakeExecutor struct {
	mu     sync.Mutex
	result *gateway.TransferResult
	err    error
	calls  int
}

func (e *fakeExecutor) Send(ctx context.Context, address string, amount decimal.Decimal, network domain.Network) (*gateway.TransferResult, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	return e.result, nil
}

func (e *fakeExecutor) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// seedTransaction cria uma transação persistida no status pedido.
func seedTransaction(repo *memTransactionRepo, status domain.TransactionStatus) *domain.Transaction {
	transaction := &domain.Transaction{
		UserID:        "user-1",
		Provider:      domain.ProviderStripe,
		AmountUSD:     decimal.NewFromInt(500),
		Currency:      "USD",
		UsdtAmount:    decimal.NewFromInt(450),
		ExchangeRate:  decimal.RequireFromString("0.9"),
		FeeAmount:     decimal.NewFromInt(50),
		FeePercentage: decimal.NewFromInt(10),
		WalletAddress: "0x742d35Cc6634C0532925a3b844Bc454e4438f44e",
		Network:       domain.NetworkERC20,
		Status:        status,
	}
	_ = repo.Create(context.Background(), transaction)
	return transaction
}
