package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/product-catalog/internal/core/domain"
)

const rolesCollection = "roles"

type RoleRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewRoleRepository(db *mongo.Database, timeout time.Duration) *RoleRepository {
	return &RoleRepository{col: db.Collection(rolesCollection), timeout: orDefault(timeout)}
}

func (r *RoleRepository) Exists(ctx context.Context, role domain.Role) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := r.col.FindOne(ctx, bson.M{"name": string(role)}, opts).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return false, nil
	default:
		return false, fmt.Errorf("find role: %w", err)
	}
}

// Ensure upserts the role. Two concurrent upserts of the same name can race
// on the unique index; the loser sees a duplicate key, which means the role
// exists.
func (r *RoleRepository) Ensure(ctx context.Context, role domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{"name": string(role)}
	update := bson.M{"$setOnInsert": bson.M{
		"name":       string(role),
		"created_at": time.Now().UTC(),
	}}

	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("ensure role %s: %w", role, err)
	}
	return nil
}
