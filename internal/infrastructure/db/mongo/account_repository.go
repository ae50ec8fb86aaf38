package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/product-catalog/internal/core/domain"
)

const accountsCollection = "accounts"

type AccountRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewAccountRepository(db *mongo.Database, timeout time.Duration) *AccountRepository {
	return &AccountRepository{col: db.Collection(accountsCollection), timeout: orDefault(timeout)}
}

type accountDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	Roles        []string           `bson:"roles"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (d accountDocument) toDomain() (*domain.Account, error) {
	roles := make([]domain.Role, 0, len(d.Roles))
	for _, name := range d.Roles {
		r, err := domain.ParseRole(name)
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", d.Username, err)
		}
		roles = append(roles, r)
	}
	return &domain.Account{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		Roles:        roles,
		CreatedAt:    d.CreatedAt,
	}, nil
}

// Create inserts the account. The unique index on username makes the insert
// itself the uniqueness check.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	doc := accountDocument{
		Username:     a.Username,
		PasswordHash: a.PasswordHash,
		Roles:        domain.RoleNames(a.Roles),
		CreatedAt:    created,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	out := *a
	out.CreatedAt = created
	out.Roles = append([]domain.Role(nil), a.Roles...)
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		out.ID = id.Hex()
	}
	return &out, nil
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc accountDocument
	if err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain()
}
