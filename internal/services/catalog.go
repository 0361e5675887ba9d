package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"jobboard_echo/internal/models"
)

const packageCacheTTL = 5 * time.Minute

// PackageCatalog looks up purchasable packages, caching reads in Redis. The
// cache is optional: with a nil cache every read goes to the database.
type PackageCatalog struct {
	db    *gorm.DB
	cache *RedisCache
}

func NewPackageCatalog(db *gorm.DB, cache *RedisCache) *PackageCatalog {
	return &PackageCatalog{db: db, cache: cache}
}

// GetPackage returns the package or a ValidationError when the reference
// does not resolve to a catalog entry.
func (c *PackageCatalog) GetPackage(ctx context.Context, id uint) (*models.Package, error) {
	fetch := func() (models.Package, error) {
		var pkg models.Package
		err := c.db.WithContext(ctx).First(&pkg, id).Error
		return pkg, err
	}

	var pkg models.Package
	var err error
	if c.cache != nil {
		pkg, err = GetOrSet(c.cache, ctx, c.key(id), packageCacheTTL, fetch)
	} else {
		pkg, err = fetch()
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidationError{Field: "package_id", Reason: fmt.Sprintf("package %d does not exist", id)}
		}
		return nil, err
	}
	return &pkg, nil
}

// Invalidate drops the cached entry after an admin edit
func (c *PackageCatalog) Invalidate(ctx context.Context, id uint) {
	if c.cache == nil {
		return
	}
	_ = c.cache.Delete(ctx, c.key(id))
}

func (c *PackageCatalog) key(id uint) string {
	return fmt.Sprintf("package:%d", id)
}
