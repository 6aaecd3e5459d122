package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sujalbistaa/messmate/internal/models"
)

const (
	// TTL is how long a post stays visible after creation.
	TTL = 24 * time.Hour

	// DefaultLimit caps how many posts a single list call returns.
	// It is a display cap, not a pagination cursor.
	DefaultLimit = 50
)

// Store owns the post lifecycle: create, list, filter, expire.
// Posts are never updated and never deleted by user action.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// NewWithClock lets tests control the store's notion of "now".
func NewWithClock(db *gorm.DB, now func() time.Time) *Store {
	return &Store{db: db, now: now}
}

// Create validates, persists and returns a new post. Username and hotel name
// are trimmed; empty-after-trim fails with *ValidationError and nothing is
// persisted. ID and CreatedAt are always server-assigned.
func (s *Store) Create(ctx context.Context, username, hotelName, imageURL string) (*models.Post, error) {
	username = strings.TrimSpace(username)
	hotelName = strings.TrimSpace(hotelName)

	if username == "" {
		return nil, &ValidationError{Field: "username"}
	}
	if hotelName == "" {
		return nil, &ValidationError{Field: "hotelName"}
	}
	if imageURL == "" {
		return nil, &ValidationError{Field: "imageUrl"}
	}

	post := &models.Post{
		ID:        uuid.New().String(),
		Username:  username,
		HotelName: hotelName,
		ImageURL:  imageURL,
		CreatedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, storageErr(err)
	}
	return post, nil
}

// ListAll returns up to limit non-expired posts, newest first.
func (s *Store) ListAll(ctx context.Context, limit int) ([]models.Post, error) {
	posts := []models.Post{}
	err := s.visible(ctx).
		Order("created_at desc").
		Limit(clampLimit(limit)).
		Find(&posts).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return posts, nil
}

// ListByHotel returns up to limit non-expired posts whose hotel name
// contains name, case-insensitively. Newest first.
func (s *Store) ListByHotel(ctx context.Context, name string, limit int) ([]models.Post, error) {
	posts := []models.Post{}
	pattern := "%" + strings.ToLower(strings.TrimSpace(name)) + "%"
	err := s.visible(ctx).
		Where("lower(hotel_name) LIKE ?", pattern).
		Order("created_at desc").
		Limit(clampLimit(limit)).
		Find(&posts).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return posts, nil
}

// HotelNames returns the distinct hotel names across non-expired posts.
// Stored values are not case-folded: "A" and "a" are two hotels.
func (s *Store) HotelNames(ctx context.Context) ([]string, error) {
	names := []string{}
	err := s.visible(ctx).
		Distinct().
		Order("hotel_name").
		Pluck("hotel_name", &names).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return names, nil
}

// Sweep physically deletes every expired post and reports how many went.
// Reads never depend on it having run: visibility is enforced per query.
func (s *Store) Sweep(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("created_at <= ?", s.cutoff()).
		Delete(&models.Post{})
	if res.Error != nil {
		return 0, storageErr(res.Error)
	}
	return res.RowsAffected, nil
}

// visible scopes a query to posts younger than the TTL. This filter runs on
// every read so a post past 24h is invisible even before the sweep prunes it.
func (s *Store) visible(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("created_at > ?", s.cutoff())
}

func (s *Store) cutoff() time.Time {
	return s.now().Add(-TTL)
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > DefaultLimit {
		return DefaultLimit
	}
	return limit
}
