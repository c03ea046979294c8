package gateway

import "context"

// TransactionObject é o "crachá" opaco que carrega a transação de banco ativa.
// Na prática é um pgx.Tx, mas o usecase não precisa saber disso.
type TransactionObject interface{}

// TransactionManager define quem sabe iniciar/comitar transações de banco (UoW).
// É ele que garante a serialização por transação: o lock de linha só vive
// dentro de um Run, nunca atravessa uma chamada externa demorada.
type TransactionManager interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// TransactionKeyType evita colisão de chaves no contexto
type TransactionKeyType string

const TransactionKey TransactionKeyType = "transaction"
