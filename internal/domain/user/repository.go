package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("user not found")

type Repository interface {
	CreateUser(ctx context.Context, u User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateUser(ctx context.Context, u User) error

	// ListActiveExcept returns every active user other than id, skills loaded.
	ListActiveExcept(ctx context.Context, id uuid.UUID) ([]User, error)
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
	Search(ctx context.Context, f DirectoryFilter) ([]User, int, error)
	GetSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Summary, error)
}

// ProfileRepository stores the optional parts of a profile. Removals are
// scoped to the owner and report the matching not-found error otherwise.
type ProfileRepository interface {
	AddPortfolioLink(ctx context.Context, userID uuid.UUID, l PortfolioLink) error
	RemovePortfolioLink(ctx context.Context, userID, linkID uuid.UUID) error
	// UpsertAvailability replaces the slots of a.Day, keeping the existing
	// row id when the day is already set.
	UpsertAvailability(ctx context.Context, userID uuid.UUID, a Availability) error
	RemoveAvailability(ctx context.Context, userID, slotID uuid.UUID) error
}
