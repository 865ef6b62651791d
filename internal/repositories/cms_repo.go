package repositories

import (
	"errors"
	"fmt"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlogRepository defines the interface for blog post data access.
type BlogRepository interface {
	GetAll(publishedOnly bool) ([]models.BlogPost, error)
	GetBySlug(slug string) (*models.BlogPost, error)
	Create(post *models.BlogPost) error
	Update(post *models.BlogPost) error
	Delete(id string) error
}

// ServicePageRepository defines the interface for service page data access.
type ServicePageRepository interface {
	GetAll(publishedOnly bool) ([]models.ServicePage, error)
	GetBySlug(slug string) (*models.ServicePage, error)
	Create(page *models.ServicePage) error
	Update(page *models.ServicePage) error
	Delete(id string) error
}

// TestimonialRepository defines the interface for testimonial data access.
type TestimonialRepository interface {
	GetAll(approvedOnly bool) ([]models.Testimonial, error)
	Create(t *models.Testimonial) error
	Update(t *models.Testimonial) error
	Delete(id string) error
}

// GORMBlogRepository is a GORM implementation of BlogRepository.
type GORMBlogRepository struct {
	db *gorm.DB
}

// NewGORMBlogRepository creates a new instance of GORMBlogRepository.
func NewGORMBlogRepository(db *gorm.DB) *GORMBlogRepository {
	return &GORMBlogRepository{db: db}
}

func (r *GORMBlogRepository) GetAll(publishedOnly bool) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	q := r.db.Order("created_at DESC")
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get blog posts: %w", err)
	}
	return posts, nil
}

func (r *GORMBlogRepository) GetBySlug(slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.db.First(&post, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("blog post %s: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get blog post %s: %w", slug, err)
	}
	return &post, nil
}

func (r *GORMBlogRepository) Create(post *models.BlogPost) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if err := r.db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to create blog post: %w", err)
	}
	return nil
}

func (r *GORMBlogRepository) Update(post *models.BlogPost) error {
	res := r.db.Save(post)
	if res.Error != nil {
		return fmt.Errorf("failed to update blog post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("blog post %s not found for update: %w", post.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMBlogRepository) Delete(id string) error {
	res := r.db.Delete(&models.BlogPost{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete blog post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("blog post %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}

// GORMServicePageRepository is a GORM implementation of ServicePageRepository.
type GORMServicePageRepository struct {
	db *gorm.DB
}

// NewGORMServicePageRepository creates a new instance of GORMServicePageRepository.
func NewGORMServicePageRepository(db *gorm.DB) *GORMServicePageRepository {
	return &GORMServicePageRepository{db: db}
}

func (r *GORMServicePageRepository) GetAll(publishedOnly bool) ([]models.ServicePage, error) {
	var pages []models.ServicePage
	q := r.db.Order("title ASC")
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	if err := q.Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("failed to get service pages: %w", err)
	}
	return pages, nil
}

func (r *GORMServicePageRepository) GetBySlug(slug string) (*models.ServicePage, error) {
	var page models.ServicePage
	if err := r.db.First(&page, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("service page %s: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get service page %s: %w", slug, err)
	}
	return &page, nil
}

func (r *GORMServicePageRepository) Create(page *models.ServicePage) error {
	if page.ID == "" {
		page.ID = uuid.New().String()
	}
	if err := r.db.Create(page).Error; err != nil {
		return fmt.Errorf("failed to create service page: %w", err)
	}
	return nil
}

func (r *GORMServicePageRepository) Update(page *models.ServicePage) error {
	res := r.db.Save(page)
	if res.Error != nil {
		return fmt.Errorf("failed to update service page: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("service page %s not found for update: %w", page.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMServicePageRepository) Delete(id string) error {
	res := r.db.Delete(&models.ServicePage{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete service page: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("service page %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}

// GORMTestimonialRepository is a GORM implementation of TestimonialRepository.
type GORMTestimonialRepository struct {
	db *gorm.DB
}

// NewGORMTestimonialRepository creates a new instance of GORMTestimonialRepository.
func NewGORMTestimonialRepository(db *gorm.DB) *GORMTestimonialRepository {
	return &GORMTestimonialRepository{db: db}
}

func (r *GORMTestimonialRepository) GetAll(approvedOnly bool) ([]models.Testimonial, error) {
	var list []models.Testimonial
	q := r.db.Order("created_at DESC")
	if approvedOnly {
		q = q.Where("approved = ?", true)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to get testimonials: %w", err)
	}
	return list, nil
}

func (r *GORMTestimonialRepository) Create(t *models.Testimonial) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if err := r.db.Create(t).Error; err != nil {
		return fmt.Errorf("failed to create testimonial: %w", err)
	}
	return nil
}

func (r *GORMTestimonialRepository) Update(t *models.Testimonial) error {
	res := r.db.Save(t)
	if res.Error != nil {
		return fmt.Errorf("failed to update testimonial: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("testimonial %s not found for update: %w", t.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMTestimonialRepository) Delete(id string) error {
	res := r.db.Delete(&models.Testimonial{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete testimonial: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("testimonial %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}
