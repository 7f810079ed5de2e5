package catalog

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when a product lookup matches nothing.
var ErrNotFound = errors.New("product not found")

// Repo is the catalog persistence surface.
type Repo interface {
	Categories(ctx context.Context) ([]Category, error)
	Brands(ctx context.Context) ([]Brand, error)
	Cards(ctx context.Context) ([]Card, error)

	Create(ctx context.Context, sellerID int64, product Product) (int64, error)
	Update(ctx context.Context, update ProductUpdate) error
	ProductInfo(ctx context.Context) ([]ProductInfo, error)
	GetByID(ctx context.Context, productID int64) (*ProductInfo, error)
	ByUser(ctx context.Context, userID int64) ([]ProductInfo, error)
	Delete(ctx context.Context, productID int64) error
}
