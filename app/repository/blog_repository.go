package repository

import (
	"github.com/mikeskafld/dojo-web/app/models"
	"gorm.io/gorm"
)

// blogRepository implements the BlogRepository interface
type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new blog repository instance
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

// Create creates a new blog post in the database
func (r *blogRepository) Create(post *models.BlogPost) error {
	return r.db.Create(post).Error
}

// GetByID retrieves a blog post by its ID
func (r *blogRepository) GetByID(id uint64) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.Preload("User").First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetBySlug retrieves a blog post by its slug
func (r *blogRepository) GetBySlug(slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.Preload("User").Where("slug = ?", slug).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPublished retrieves published blog posts with pagination
func (r *blogRepository) GetPublished(offset, limit int) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	err := r.db.Preload("User").Where("published = ?", true).
		Order("published_at DESC").Offset(offset).Limit(limit).Find(&posts).Error
	return posts, err
}

// GetAll retrieves all blog posts with pagination
func (r *blogRepository) GetAll(offset, limit int) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	err := r.db.Preload("User").Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&posts).Error
	return posts, err
}

// Update updates an existing blog post in the database
func (r *blogRepository) Update(post *models.BlogPost) error {
	return r.db.Save(post).Error
}

// Delete soft deletes a blog post by its ID
func (r *blogRepository) Delete(id uint64) error {
	return r.db.Delete(&models.BlogPost{}, id).Error
}

// Count returns the total number of blog posts
func (r *blogRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.BlogPost{}).Count(&count).Error
	return count, err
}

// SlugExists checks if a slug already exists
func (r *blogRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.BlogPost{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}
