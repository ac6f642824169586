// Package mongoarchive appends per-account transaction ledgers to MongoDB on
// save checkpoints. The archive is an optional, best-effort audit sink; the
// in-memory ledger stays authoritative.
package mongoarchive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/banking-account-core/internal/domain/account"
)

// entryDoc is the archived shape of one ledger entry.
type entryDoc struct {
	EntryID       uuid.UUID `bson:"entry_id"`
	AccountNumber string    `bson:"account_number"`
	AccountType   string    `bson:"account_type"`
	HolderName    string    `bson:"holder_name"`
	Timestamp     time.Time `bson:"timestamp"`
	Type          string    `bson:"type"`
	Amount        string    `bson:"amount"`
	Description   string    `bson:"description"`
	BalanceAfter  string    `bson:"balance_after"`
	ArchivedAt    time.Time `bson:"archived_at"`
}

// Archive writes ledger entries to a MongoDB collection, upserting by entry
// id so repeated checkpoints of the same ledger stay idempotent.
type Archive struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

func New(logger *slog.Logger, collection *mongo.Collection) *Archive {
	return &Archive{collection: collection, logger: logger}
}

// ArchiveLedgers upserts every ledger entry of every given account. A failing
// entry aborts the batch; the caller treats archive failures as non-fatal.
func (a *Archive) ArchiveLedgers(ctx context.Context, accounts []account.Account) error {
	now := time.Now()
	archived := 0

	for _, acc := range accounts {
		for _, tx := range acc.Transactions() {
			doc := entryDoc{
				EntryID:       tx.ID,
				AccountNumber: acc.Number(),
				AccountType:   string(acc.Type()),
				HolderName:    acc.HolderName(),
				Timestamp:     tx.Timestamp,
				Type:          tx.Type,
				Amount:        tx.Amount.StringFixed(2),
				Description:   tx.Description,
				BalanceAfter:  tx.BalanceAfter.StringFixed(2),
				ArchivedAt:    now,
			}

			filter := bson.M{"entry_id": tx.ID}
			update := bson.M{"$set": doc}
			opts := options.Update().SetUpsert(true)

			if _, err := a.collection.UpdateOne(ctx, filter, update, opts); err != nil {
				return fmt.Errorf("failed to archive ledger entry %s: %w", tx.ID.String(), err)
			}
			archived++
		}
	}

	a.logger.Info("Archived account ledgers", "accounts", len(accounts), "entries", archived)
	return nil
}
