package services

import (
	"github.com/Atwoto/solara-mvp-sub000/internal/models"
	"github.com/Atwoto/solara-mvp-sub000/internal/repositories"
)

// BlogService handles blog post CRUD. Public reads see published posts only.
type BlogService struct {
	repo repositories.BlogRepository
}

// NewBlogService creates a new BlogService.
func NewBlogService(repo repositories.BlogRepository) *BlogService {
	return &BlogService{repo: repo}
}

func (s *BlogService) ListPublished() ([]models.BlogPost, error) {
	return s.repo.GetAll(true)
}

func (s *BlogService) ListAll() ([]models.BlogPost, error) {
	return s.repo.GetAll(false)
}

func (s *BlogService) GetBySlug(slug string) (*models.BlogPost, error) {
	return s.repo.GetBySlug(slug)
}

func (s *BlogService) Create(post *models.BlogPost) error {
	return s.repo.Create(post)
}

func (s *BlogService) Update(post *models.BlogPost) error {
	return s.repo.Update(post)
}

func (s *BlogService) Delete(id string) error {
	return s.repo.Delete(id)
}

// ServicePageService handles service page CRUD.
type ServicePageService struct {
	repo repositories.ServicePageRepository
}

// NewServicePageService creates a new ServicePageService.
func NewServicePageService(repo repositories.ServicePageRepository) *ServicePageService {
	return &ServicePageService{repo: repo}
}

func (s *ServicePageService) ListPublished() ([]models.ServicePage, error) {
	return s.repo.GetAll(true)
}

func (s *ServicePageService) ListAll() ([]models.ServicePage, error) {
	return s.repo.GetAll(false)
}

func (s *ServicePageService) GetBySlug(slug string) (*models.ServicePage, error) {
	return s.repo.GetBySlug(slug)
}

func (s *ServicePageService) Create(page *models.ServicePage) error {
	return s.repo.Create(page)
}

func (s *ServicePageService) Update(page *models.ServicePage) error {
	return s.repo.Update(page)
}

func (s *ServicePageService) Delete(id string) error {
	return s.repo.Delete(id)
}

// TestimonialService handles testimonial CRUD. Public reads see approved
// testimonials only.
type TestimonialService struct {
	repo repositories.TestimonialRepository
}

// NewTestimonialService creates a new TestimonialService.
func NewTestimonialService(repo repositories.TestimonialRepository) *TestimonialService {
	return &TestimonialService{repo: repo}
}

func (s *TestimonialService) ListApproved() ([]models.Testimonial, error) {
	return s.repo.GetAll(true)
}

func (s *TestimonialService) ListAll() ([]models.Testimonial, error) {
	return s.repo.GetAll(false)
}

func (s *TestimonialService) Create(t *models.Testimonial) error {
	return s.repo.Create(t)
}

func (s *TestimonialService) Update(t *models.Testimonial) error {
	return s.repo.Update(t)
}

func (s *TestimonialService) Delete(id string) error {
	return s.repo.Delete(id)
}
