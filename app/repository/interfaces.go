package repository

import (
	"github.com/mikeskafld/dojo-web/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByExternalID(externalID string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// SubscriptionRepository defines the read-side interface for subscription
// rows mirrored from the payments provider. Writes go through the billing
// service only.
type SubscriptionRepository interface {
	GetByID(id string) (*models.Subscription, error)
	GetByUserID(userID uint) ([]models.Subscription, error)
	GetEntitlingByUserID(userID uint) (*models.Subscription, error)
	Count() (int64, error)
}

// BlogRepository defines the interface for blog-post database operations
type BlogRepository interface {
	Create(post *models.BlogPost) error
	GetByID(id uint64) (*models.BlogPost, error)
	GetBySlug(slug string) (*models.BlogPost, error)
	GetPublished(offset, limit int) ([]models.BlogPost, error)
	GetAll(offset, limit int) ([]models.BlogPost, error)
	Update(post *models.BlogPost) error
	Delete(id uint64) error
	Count() (int64, error)
	SlugExists(slug string) (bool, error)
}

// PageRepository defines the interface for page-related database operations
type PageRepository interface {
	Create(page *models.Page) error
	GetByID(id uint) (*models.Page, error)
	GetBySlug(slug string) (*models.Page, error)
	GetAll() ([]models.Page, error)
	GetActive() ([]models.Page, error)
	Update(page *models.Page) error
	Delete(id uint) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Subscription SubscriptionRepository
	Blog         BlogRepository
	Page         PageRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Blog:         NewBlogRepository(db),
		Page:         NewPageRepository(db),
	}
}
