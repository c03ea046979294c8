package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// AuditLog representa o documento que será salvo no Mongo.
// Trilha append-only de transições: transações nunca somem, todo evento
// de status fica registrado.
type AuditLog struct {
	ID              string    `bson:"_id,omitempty"`
	TransactionID   string    `bson:"transaction_id"`
	UserID          string    `bson:"user_id"`
	Provider        string    `bson:"provider"`
	Status          string    `bson:"status"`
	AmountUSD       string    `bson:"amount_usd"`
	UsdtAmount      string    `bson:"usdt_amount"`
	TransactionHash string    `bson:"transaction_hash,omitempty"`
	ErrorMessage    string    `bson:"error_message,omitempty"`
	ProcessedAt     time.Time `bson:"processed_at"`
}

type AuditRepository struct {
	collection *mongo.Collection
}

func NewAuditRepository(client *mongo.Client, dbName string) *AuditRepository {
	collection := client.Database(dbName).Collection("transition_logs")
	return &AuditRepository{collection: collection}
}

func (r *AuditRepository) Save(ctx context.Context, log AuditLog) error {
	log.ProcessedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}
