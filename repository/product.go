package repository

import (
	"GoldShop/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"strconv"
	"time"
)

const (
	productCacheKey = "products"
	// productCacheGenKey is bumped after every committed product write so a
	// rebuild started from an older database read can tell it is stale.
	productCacheGenKey = "products:gen"
	productCacheTTL    = 10 * time.Minute
)

// cacheAddScript bumps the generation and adds the member only when the
// cache is already populated, so a lone create never seeds a partial cache.
var cacheAddScript = redis.NewScript(`
redis.call("INCR", KEYS[2])
if redis.call("EXISTS", KEYS[1]) == 1 then
	return redis.call("ZADD", KEYS[1], ARGV[1], ARGV[2])
end
return 0
`)

// ProductRepository keeps products in the database and mirrors them into a
// Redis sorted set scored by product id. The database is authoritative: cache
// failures after a commit are logged and the cache is dropped.
type ProductRepository struct {
	db     *gorm.DB
	rdb    *redis.Client
	logger *zap.Logger
}

func NewProductRepository(db *gorm.DB, rdb *redis.Client, logger *zap.Logger) *ProductRepository {
	return &ProductRepository{db: db, rdb: rdb, logger: logger}
}

func productMember(p *models.Product) (redis.Z, error) {
	productJSON, err := json.Marshal(p)
	if err != nil {
		return redis.Z{}, err
	}
	return redis.Z{Score: float64(p.ID), Member: productJSON}, nil
}

// dropCache removes the cached list after a failed cache update.
func (r *ProductRepository) dropCache(ctx context.Context, cause error) {
	r.logger.Warn("product cache update failed, dropping cache", zap.Error(cause))
	if err := r.rdb.Del(ctx, productCacheKey).Err(); err != nil {
		r.logger.Warn("product cache drop failed", zap.Error(err))
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	member, err := productMember(product)
	if err != nil {
		r.dropCache(ctx, err)
		return nil
	}
	keys := []string{productCacheKey, productCacheGenKey}
	if err := cacheAddScript.Run(ctx, r.rdb, keys, member.Score, member.Member).Err(); err != nil {
		r.dropCache(ctx, err)
	}
	return nil
}

// List returns every product ordered by id, from Redis when the cache is
// populated, otherwise from the database after which the cache is rebuilt.
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	members, err := r.rdb.ZRange(ctx, productCacheKey, 0, -1).Result()
	if err == nil && len(members) > 0 {
		products := make([]models.Product, 0, len(members))
		for _, member := range members {
			var p models.Product
			if err := json.Unmarshal([]byte(member), &p); err != nil {
				r.logger.Warn("skipping undecodable cached product", zap.Error(err))
				continue
			}
			products = append(products, p)
		}
		return products, nil
	}
	if err != nil {
		r.logger.Warn("product cache read failed", zap.Error(err))
	}

	gen, genErr := r.cacheGeneration(ctx)
	products := []models.Product{}
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if genErr == nil {
		r.warm(ctx, gen, products)
	}
	return products, nil
}

func (r *ProductRepository) cacheGeneration(ctx context.Context) (int64, error) {
	gen, err := r.rdb.Get(ctx, productCacheGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// warm replaces the cache with products, read from the database when the
// generation was gen. If a write has committed since, the rebuild is skipped.
func (r *ProductRepository) warm(ctx context.Context, gen int64, products []models.Product) {
	if len(products) == 0 {
		return
	}
	err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, productCacheGenKey).Int64()
		if errors.Is(err, redis.Nil) {
			current, err = 0, nil
		}
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleSnapshot
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, productCacheKey)
			for i := range products {
				member, err := productMember(&products[i])
				if err != nil {
					return err
				}
				pipe.ZAdd(ctx, productCacheKey, member)
			}
			pipe.Expire(ctx, productCacheKey, productCacheTTL)
			return nil
		})
		return err
	}, productCacheGenKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleSnapshot), errors.Is(err, redis.TxFailedErr):
		r.logger.Debug("product cache rebuild skipped, products changed meanwhile")
	default:
		r.logger.Warn("product cache rebuild failed", zap.Error(err))
	}
}

func (r *ProductRepository) Get(ctx context.Context, id uint) (*models.Product, error) {
	score := strconv.FormatUint(uint64(id), 10)
	members, err := r.rdb.ZRangeByScore(ctx, productCacheKey, &redis.ZRangeBy{Min: score, Max: score}).Result()
	if err == nil && len(members) == 1 {
		var p models.Product
		if err := json.Unmarshal([]byte(members[0]), &p); err == nil {
			return &p, nil
		}
	}

	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

// Delete removes the product from the database, then evicts it from the
// cache, and returns the deleted row so the caller can clean up its images.
func (r *ProductRepository) Delete(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, id).Error; err != nil {
			return translate(err)
		}
		if err := tx.Delete(&product).Error; err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	score := strconv.FormatUint(uint64(id), 10)
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, productCacheGenKey)
		pipe.ZRemRangeByScore(ctx, productCacheKey, score, score)
		return nil
	})
	if err != nil {
		r.dropCache(ctx, err)
	}
	return &product, nil
}
