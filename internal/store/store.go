package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stratuslabs/stratus/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)

	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)

	SaveLocation(ctx context.Context, loc *models.SavedLocation) error
	ListLocations(ctx context.Context, userID uuid.UUID) ([]*models.SavedLocation, error)
	DeleteLocation(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}
