package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/product-catalog/internal/core/domain"
)

// DefaultAccount is an account provisioned on first boot.
type DefaultAccount struct {
	Username string
	Password string
	Roles    []domain.Role
}

// DefaultAccounts is the bootstrap data for a fresh deployment.
var DefaultAccounts = []DefaultAccount{
	{Username: "admin", Password: "admin123", Roles: []domain.Role{domain.RoleAdmin}},
	{Username: "user", Password: "user123", Roles: []domain.Role{domain.RoleUser}},
}

// SeedDefaults ensures the known roles and the default accounts exist. Each
// account is an upsert with $setOnInsert, so an existing username is left as is.
func SeedDefaults(ctx context.Context, db *mongo.Database, timeout time.Duration, hashCost int, log zerolog.Logger) error {
	roles := NewRoleRepository(db, timeout)
	for _, r := range domain.KnownRoles {
		if err := roles.Ensure(ctx, r); err != nil {
			return fmt.Errorf("seed roles: %w", err)
		}
	}

	col := db.Collection(accountsCollection)
	for _, acc := range DefaultAccounts {
		inserted, err := seedAccount(ctx, col, orDefault(timeout), hashCost, acc)
		if err != nil {
			return fmt.Errorf("seed account %s: %w", acc.Username, err)
		}
		if inserted {
			log.Info().Str("username", acc.Username).Strs("roles", domain.RoleNames(acc.Roles)).Msg("default account seeded")
		} else {
			log.Debug().Str("username", acc.Username).Msg("default account already exists")
		}
	}
	return nil
}

func seedAccount(ctx context.Context, col *mongo.Collection, timeout time.Duration, cost int, acc DefaultAccount) (bool, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), cost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	filter := bson.M{"username": acc.Username}
	update := bson.M{"$setOnInsert": bson.M{
		"username":      acc.Username,
		"password_hash": string(hash),
		"roles":         domain.RoleNames(acc.Roles),
		"created_at":    time.Now().UTC(),
	}}

	res, err := col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return res.UpsertedCount == 1, nil
}
