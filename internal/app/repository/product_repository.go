package repository

import (
	"fmt"

	"github.com/dsaidov/mebelplaza-backend/internal/app/model"
	"github.com/dsaidov/mebelplaza-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	FindByID(id uint) (*model.Product, error)
	UpsertBySlug(product *model.Product) error
	DeleteMissingSlugs(keep []string) (int64, error)
	Count() (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.Product{}).Preload("Variants")
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"slug":       product.Slug,
		"room":       product.Room,
		"collection": product.Collection,
		"module":     product.Module,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"slug": product.Slug,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return nil
}

// FindAll returns the whole catalog in CMS (insertion) order. The filter
// pipeline runs over this list in memory.
func (r *productRepository) FindAll() ([]model.Product, error) {
	logger.Debug("Loading full catalog from database", nil)

	var products []model.Product
	if err := r.baseQuery().Order("products.position ASC, products.id ASC").Find(&products).Error; err != nil {
		logger.Error("Failed to load catalog from database", err)
		return nil, err
	}

	logger.Debug("Catalog loaded from database", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindBySlug(slug string) (*model.Product, error) {
	logger.Debug("Finding product by slug in database", map[string]interface{}{
		"slug": slug,
	})

	var product model.Product
	if err := r.baseQuery().Where("products.slug = ?", slug).First(&product).Error; err != nil {
		logger.Error("Failed to find product by slug in database", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	if err := r.baseQuery().First(&product, id).Error; err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return &product, nil
}

// UpsertBySlug inserts or updates a product by its CMS slug, replacing its
// variant set. Used by the catalog sync.
func (r *productRepository) UpsertBySlug(product *model.Product) error {
	logger.Debug("Upserting product by slug in database", map[string]interface{}{
		"slug": product.Slug,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		// The lookup must see soft-deleted rows: the slug keeps its unique
		// index entry after a stale cleanup, and a product that reappears
		// in the CMS feed has to reclaim it instead of colliding on insert.
		var existing model.Product
		err := tx.Unscoped().Where("slug = ?", product.Slug).First(&existing).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}

		if err == nil {
			product.ID = existing.ID
			product.DeletedAt = gorm.DeletedAt{}
			if err := tx.Unscoped().Where("product_id = ?", existing.ID).Delete(&model.Variant{}).Error; err != nil {
				return err
			}
			for i := range product.Variants {
				product.Variants[i].ID = 0
				product.Variants[i].ProductID = existing.ID
			}
			return tx.Unscoped().Session(&gorm.Session{FullSaveAssociations: true}).
				Clauses(clause.OnConflict{UpdateAll: true}).
				Save(product).Error
		}

		return tx.Create(product).Error
	})
}

// DeleteMissingSlugs soft-deletes products whose slug is absent from the
// latest CMS feed, returning the number of rows removed.
func (r *productRepository) DeleteMissingSlugs(keep []string) (int64, error) {
	logger.Debug("Removing products missing from CMS feed", map[string]interface{}{
		"keep_count": len(keep),
	})

	query := r.db.Where("1 = 1")
	if len(keep) > 0 {
		query = r.db.Where("slug NOT IN ?", keep)
	}

	result := query.Delete(&model.Product{})
	if result.Error != nil {
		logger.Error("Failed to remove stale products", result.Error)
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		logger.Info("Stale products removed", map[string]interface{}{
			"count": result.RowsAffected,
		})
	}
	return result.RowsAffected, nil
}

func (r *productRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}
