package reviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/meshawi/Pharmacy-Management-System/internal/cache"
	"github.com/meshawi/Pharmacy-Management-System/internal/models"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

const avgCacheTTL = time.Minute

// Aggregator persists reviews and serves per-product rating averages. The
// average is read on every product listing, so it goes through the cache;
// cache trouble degrades to the query, never to an error for the caller.
type Aggregator struct {
	db    *gorm.DB
	cache cache.Cache // optional
}

func NewAggregator(gdb *gorm.DB, c cache.Cache) *Aggregator {
	return &Aggregator{db: gdb, cache: c}
}

func (a *Aggregator) Submit(ctx context.Context, productID, userID uint, rating int, body string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}

	review := models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Body:      body,
	}
	if err := a.db.WithContext(ctx).Create(&review).Error; err != nil {
		return fmt.Errorf("create review: %w", err)
	}

	if a.cache != nil {
		key := a.avgKey(productID)
		if err := a.cache.Delete(ctx, key); err != nil {
			slog.WarnContext(ctx, "failed to invalidate rating cache", "key", key, "error", err)
		}
	}
	return nil
}

// ProductReview is a review joined with its author's username for display.
type ProductReview struct {
	Rating    int       `json:"rating"`
	Body      string    `json:"review"`
	CreatedAt time.Time `json:"created_at"`
	Username  string    `json:"username"`
}

func (a *Aggregator) ListForProduct(ctx context.Context, productID uint) ([]ProductReview, error) {
	var list []ProductReview
	err := a.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.rating, reviews.body, reviews.created_at, users.username").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.product_id = ?", productID).
		Order("reviews.created_at DESC").
		Scan(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list reviews for product %d: %w", productID, err)
	}
	return list, nil
}

// AverageRating returns the mean rating and whether any ratings exist. A
// product with no reviews reports ok=false, never a fabricated zero.
func (a *Aggregator) AverageRating(ctx context.Context, productID uint) (float64, bool, error) {
	if a.cache != nil {
		if cached, err := a.cache.Get(ctx, a.avgKey(productID)); err == nil && cached != "" {
			if avg, perr := strconv.ParseFloat(cached, 64); perr == nil {
				return avg, true, nil
			}
		}
	}

	var avg sql.NullFloat64
	err := a.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("product_id = ?", productID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return 0, false, fmt.Errorf("average rating for product %d: %w", productID, err)
	}
	if !avg.Valid {
		return 0, false, nil
	}

	if a.cache != nil {
		key := a.avgKey(productID)
		val := strconv.FormatFloat(avg.Float64, 'f', -1, 64)
		if err := a.cache.Set(ctx, key, val, avgCacheTTL); err != nil {
			slog.WarnContext(ctx, "failed to cache rating average", "key", key, "error", err)
		}
	}
	return avg.Float64, true, nil
}

func (a *Aggregator) avgKey(productID uint) string {
	id := strconv.FormatUint(uint64(productID), 10)
	if a.cache != nil {
		return a.cache.GenerateKey("avg_rating", id)
	}
	return id
}
