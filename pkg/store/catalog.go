package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/restynation/buythatworks/pkg/models"
)

// CatalogStore reads reference data. It satisfies catalog.Source.
type CatalogStore interface {
	LoadCatalog(ctx context.Context) (models.CatalogData, error)
}

type postgresCatalogStore struct {
	db *sqlx.DB
}

func NewCatalog(dbconn *sqlx.DB) CatalogStore {
	return &postgresCatalogStore{db: dbconn}
}

func (b *postgresCatalogStore) LoadCatalog(ctx context.Context) (models.CatalogData, error) {
	data := models.CatalogData{
		DeviceTypes: []models.DeviceType{},
		PortTypes:   []models.PortType{},
		Products:    []models.Product{},
	}
	if err := b.db.SelectContext(ctx, &data.DeviceTypes, `SELECT id, name FROM device_types ORDER BY id;`); err != nil {
		return data, fmt.Errorf("loading device types: %w", err)
	}
	if err := b.db.SelectContext(ctx, &data.PortTypes, `SELECT id, code FROM port_types ORDER BY id;`); err != nil {
		return data, fmt.Errorf("loading port types: %w", err)
	}
	stmt := `
	SELECT id, device_type_id, brand, model, image_url, is_builtin_display, created_at
	FROM products
	ORDER BY brand, model;
	`
	if err := b.db.SelectContext(ctx, &data.Products, stmt); err != nil {
		return data, fmt.Errorf("loading products: %w", err)
	}
	return data, nil
}
