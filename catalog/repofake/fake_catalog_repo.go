// Package repofake provides an in-memory catalog.Repo for tests.
package repofake

import (
	"context"
	"sync"

	"github.com/commette/backend/catalog"
)

type FakeCatalogRepo struct {
	mu     sync.Mutex
	nextID int64

	CategoryRows []catalog.Category
	BrandRows    []catalog.Brand
	CardRows     []catalog.Card
	products     map[int64]catalog.ProductInfo
}

func NewFakeCatalogRepo() *FakeCatalogRepo {
	return &FakeCatalogRepo{
		nextID:   1,
		products: make(map[int64]catalog.ProductInfo),
	}
}

func (f *FakeCatalogRepo) Categories(_ context.Context) ([]catalog.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]catalog.Category(nil), f.CategoryRows...), nil
}

func (f *FakeCatalogRepo) Brands(_ context.Context) ([]catalog.Brand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]catalog.Brand(nil), f.BrandRows...), nil
}

func (f *FakeCatalogRepo) Cards(_ context.Context) ([]catalog.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]catalog.Card(nil), f.CardRows...), nil
}

func (f *FakeCatalogRepo) Create(_ context.Context, sellerID int64, product catalog.Product) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	product.ID = id
	product.SellerID = sellerID
	f.products[id] = catalog.ProductInfo{Product: product}
	return id, nil
}

func (f *FakeCatalogRepo) Update(_ context.Context, update catalog.ProductUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	info, ok := f.products[update.ID]
	if !ok {
		return catalog.ErrNotFound
	}
	info.Name = update.Name
	info.Description = update.Description
	info.Condition = update.Condition
	info.Language = update.Language
	info.ImageURL = update.ImageURL
	info.Price = update.Price
	info.Quantity = update.Quantity
	f.products[update.ID] = info
	return nil
}

func (f *FakeCatalogRepo) ProductInfo(_ context.Context) ([]catalog.ProductInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	infos := make([]catalog.ProductInfo, 0, len(f.products))
	for _, info := range f.products {
		infos = append(infos, info)
	}
	return infos, nil
}

func (f *FakeCatalogRepo) GetByID(_ context.Context, productID int64) (*catalog.ProductInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	info, ok := f.products[productID]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &info, nil
}

func (f *FakeCatalogRepo) ByUser(_ context.Context, userID int64) ([]catalog.ProductInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var infos []catalog.ProductInfo
	for _, info := range f.products {
		if info.SellerID == userID {
			infos = append(infos, info)
		}
	}
	return infos, nil
}

func (f *FakeCatalogRepo) Delete(_ context.Context, productID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.products[productID]; !ok {
		return catalog.ErrNotFound
	}
	delete(f.products, productID)
	return nil
}
