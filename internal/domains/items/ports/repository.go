package ports

import (
	"context"
	"errors"

	"github.com/Apurer/grocery-store-client/internal/domains/items/domain"
)

// Error kinds every Repository implementation reports through errors.Is.
var (
	// ErrTransport means the request never reached the store or no response came back.
	ErrTransport = errors.New("item store unreachable")
	// ErrServer means the store answered but rejected or failed the request.
	ErrServer = errors.New("item store rejected request")
	// ErrNotFound means the targeted item id does not exist in the store.
	ErrNotFound = errors.New("item not found")
)

// Repository is the outbound port to the remote, authoritative item store.
type Repository interface {
	List(ctx context.Context) ([]domain.Item, error)
	// Create returns the id echoed by the store, or "" when it echoes none.
	Create(ctx context.Context, fields domain.Fields) (string, error)
	// Update fully replaces the stored record.
	Update(ctx context.Context, id string, fields domain.Fields) error
	Delete(ctx context.Context, id string) error
	AdjustQuantity(ctx context.Context, id string, direction domain.Direction) error
}
