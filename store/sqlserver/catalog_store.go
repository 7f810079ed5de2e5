package sqlserver

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/commette/backend/catalog"
)

// CatalogStore implements catalog.Repo against the commette product
// procedures.
type CatalogStore struct {
	db *sql.DB
}

var _ catalog.Repo = (*CatalogStore)(nil)

func (s *CatalogStore) Categories(ctx context.Context) ([]catalog.Category, error) {
	const query = `SELECT id_category, category_name FROM [commette].[Category] ORDER BY category_name;`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "[CatalogStore.Categories]")
	}
	defer rows.Close()

	var categories []catalog.Category
	for rows.Next() {
		var c catalog.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, errors.Wrap(err, "[CatalogStore.Categories] scan")
		}
		categories = append(categories, c)
	}
	return categories, errors.Wrap(rows.Err(), "[CatalogStore.Categories] rows")
}

func (s *CatalogStore) Brands(ctx context.Context) ([]catalog.Brand, error) {
	const query = `SELECT id_brand, id_category, brand_name FROM [commette].[Brand] ORDER BY brand_name;`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "[CatalogStore.Brands]")
	}
	defer rows.Close()

	var brands []catalog.Brand
	for rows.Next() {
		var b catalog.Brand
		if err := rows.Scan(&b.ID, &b.CategoryID, &b.Name); err != nil {
			return nil, errors.Wrap(err, "[CatalogStore.Brands] scan")
		}
		brands = append(brands, b)
	}
	return brands, errors.Wrap(rows.Err(), "[CatalogStore.Brands] rows")
}

func (s *CatalogStore) Cards(ctx context.Context) ([]catalog.Card, error) {
	const query = `SELECT id_card, id_brand, card_name, card_set FROM [commette].[Card] ORDER BY card_name;`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "[CatalogStore.Cards]")
	}
	defer rows.Close()

	var cards []catalog.Card
	for rows.Next() {
		var c catalog.Card
		var set sql.NullString
		if err := rows.Scan(&c.ID, &c.BrandID, &c.Name, &set); err != nil {
			return nil, errors.Wrap(err, "[CatalogStore.Cards] scan")
		}
		c.Set = set.String
		cards = append(cards, c)
	}
	return cards, errors.Wrap(rows.Err(), "[CatalogStore.Cards] rows")
}

// Create runs the create_product procedure, which inserts the product row
// and its inventory row together.
func (s *CatalogStore) Create(ctx context.Context, sellerID int64, product catalog.Product) (int64, error) {
	const query = `
		DECLARE @new_product_id BIGINT;
		EXEC commette.create_product
			@id_user = @p_id_user,
			@id_brand = @p_id_brand,
			@id_category = @p_id_category,
			@id_card = @p_id_card,
			@product_name = @p_product_name,
			@description = @p_description,
			@condition = @p_condition,
			@language = @p_language,
			@image_url = @p_image_url,
			@price = @p_price,
			@quantity = @p_quantity,
			@new_product_id = @new_product_id OUTPUT;
		SELECT @new_product_id;`

	var newProductID int64
	err := s.db.QueryRowContext(ctx, query,
		sql.Named("p_id_user", sellerID),
		sql.Named("p_id_brand", product.BrandID),
		sql.Named("p_id_category", product.CategoryID),
		sql.Named("p_id_card", product.CardID),
		sql.Named("p_product_name", product.Name),
		sql.Named("p_description", product.Description),
		sql.Named("p_condition", product.Condition),
		sql.Named("p_language", product.Language),
		sql.Named("p_image_url", product.ImageURL),
		sql.Named("p_price", product.Price),
		sql.Named("p_quantity", product.Quantity),
	).Scan(&newProductID)
	if err != nil {
		return 0, errors.Wrap(err, "[CatalogStore.Create] exec create_product")
	}
	return newProductID, nil
}

func (s *CatalogStore) Update(ctx context.Context, update catalog.ProductUpdate) error {
	const query = `
		EXEC commette.update_product
			@id_product = @p_id_product,
			@product_name = @p_product_name,
			@description = @p_description,
			@condition = @p_condition,
			@language = @p_language,
			@image_url = @p_image_url,
			@price = @p_price,
			@quantity = @p_quantity;`

	result, err := s.db.ExecContext(ctx, query,
		sql.Named("p_id_product", update.ID),
		sql.Named("p_product_name", update.Name),
		sql.Named("p_description", update.Description),
		sql.Named("p_condition", update.Condition),
		sql.Named("p_language", update.Language),
		sql.Named("p_image_url", update.ImageURL),
		sql.Named("p_price", update.Price),
		sql.Named("p_quantity", update.Quantity),
	)
	if err != nil {
		return errors.Wrap(err, "[CatalogStore.Update] exec update_product")
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (s *CatalogStore) ProductInfo(ctx context.Context) ([]catalog.ProductInfo, error) {
	const query = `EXEC commette.product_info;`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "[CatalogStore.ProductInfo]")
	}
	defer rows.Close()

	return scanProductInfos(rows, "[CatalogStore.ProductInfo]")
}

func (s *CatalogStore) GetByID(ctx context.Context, productID int64) (*catalog.ProductInfo, error) {
	const query = `
		EXEC commette.get_product_by_id
			@id_product = @p_id_product;`

	rows, err := s.db.QueryContext(ctx, query, sql.Named("p_id_product", productID))
	if err != nil {
		return nil, errors.Wrap(err, "[CatalogStore.GetByID]")
	}
	defer rows.Close()

	infos, err := scanProductInfos(rows, "[CatalogStore.GetByID]")
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, catalog.ErrNotFound
	}
	return &infos[0], nil
}

func (s *CatalogStore) ByUser(ctx context.Context, userID int64) ([]catalog.ProductInfo, error) {
	const query = `
		EXEC commette.get_products_by_user_id
			@id_user = @p_id_user;`

	rows, err := s.db.QueryContext(ctx, query, sql.Named("p_id_user", userID))
	if err != nil {
		return nil, errors.Wrap(err, "[CatalogStore.ByUser]")
	}
	defer rows.Close()

	return scanProductInfos(rows, "[CatalogStore.ByUser]")
}

// Delete removes the listing and its inventory row in one procedure.
func (s *CatalogStore) Delete(ctx context.Context, productID int64) error {
	const query = `
		EXEC commette.delete_product_and_inventory
			@id_product = @p_id_product;`

	result, err := s.db.ExecContext(ctx, query, sql.Named("p_id_product", productID))
	if err != nil {
		return errors.Wrap(err, "[CatalogStore.Delete]")
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func scanProductInfos(rows *sql.Rows, caller string) ([]catalog.ProductInfo, error) {
	var infos []catalog.ProductInfo
	for rows.Next() {
		var (
			info     catalog.ProductInfo
			imageURL sql.NullString
			cardName sql.NullString
			cardID   sql.NullInt64
		)
		err := rows.Scan(
			&info.ID, &info.BrandID, &info.CategoryID, &cardID, &info.SellerID,
			&info.Name, &info.Description, &info.Condition, &info.Language,
			&imageURL, &info.Price, &info.Quantity,
			&info.SellerUsername, &info.BrandName, &info.CategoryName, &cardName,
		)
		if err != nil {
			return nil, errors.Wrap(err, caller+" scan")
		}
		info.ImageURL = imageURL.String
		info.CardID = cardID.Int64
		info.CardName = cardName.String
		infos = append(infos, info)
	}
	return infos, errors.Wrap(rows.Err(), caller+" rows")
}
