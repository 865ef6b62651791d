package handlers

import (
	"errors"
	"log"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"
	"github.com/Atwoto/solara-mvp-sub000/internal/repositories"
	"github.com/Atwoto/solara-mvp-sub000/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CMSHandler handles HTTP requests for blog posts, service pages and
// testimonials: public published reads plus the admin CRUD surface.
type CMSHandler struct {
	blog         *services.BlogService
	pages        *services.ServicePageService
	testimonials *services.TestimonialService
	validate     *validator.Validate
}

// NewCMSHandler creates a new CMSHandler.
func NewCMSHandler(blog *services.BlogService, pages *services.ServicePageService, testimonials *services.TestimonialService) *CMSHandler {
	return &CMSHandler{
		blog:         blog,
		pages:        pages,
		testimonials: testimonials,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the public CMS reads.
func (h *CMSHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/blog", h.HandleListBlog)
	router.Get("/blog/:slug", h.HandleGetBlogPost)
	router.Get("/services", h.HandleListServicePages)
	router.Get("/services/:slug", h.HandleGetServicePage)
	router.Get("/testimonials", h.HandleListTestimonials)
}

// RegisterAdminRoutes registers the CMS admin CRUD.
func (h *CMSHandler) RegisterAdminRoutes(router fiber.Router) {
	blog := router.Group("/blog")
	blog.Get("/", h.HandleAdminListBlog)
	blog.Post("/", h.HandleCreateBlogPost)
	blog.Put("/:id", h.HandleUpdateBlogPost)
	blog.Delete("/:id", h.HandleDeleteBlogPost)

	pages := router.Group("/services")
	pages.Post("/", h.HandleCreateServicePage)
	pages.Put("/:id", h.HandleUpdateServicePage)
	pages.Delete("/:id", h.HandleDeleteServicePage)

	testimonials := router.Group("/testimonials")
	testimonials.Get("/", h.HandleAdminListTestimonials)
	testimonials.Post("/", h.HandleCreateTestimonial)
	testimonials.Put("/:id", h.HandleUpdateTestimonial)
	testimonials.Delete("/:id", h.HandleDeleteTestimonial)
}

func (h *CMSHandler) respondList(c *fiber.Ctx, list interface{}, err error, what string) error {
	if err != nil {
		log.Printf("Error listing %s: %v", what, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve " + what,
			"error":   err.Error(),
		})
	}
	return c.JSON(list)
}

// HandleListBlog lists published posts.
func (h *CMSHandler) HandleListBlog(c *fiber.Ctx) error {
	posts, err := h.blog.ListPublished()
	return h.respondList(c, posts, err, "blog posts")
}

// HandleAdminListBlog lists all posts including drafts.
func (h *CMSHandler) HandleAdminListBlog(c *fiber.Ctx) error {
	posts, err := h.blog.ListAll()
	return h.respondList(c, posts, err, "blog posts")
}

// HandleGetBlogPost fetches a post by slug; drafts 404 for the public.
func (h *CMSHandler) HandleGetBlogPost(c *fiber.Ctx) error {
	post, err := h.blog.GetBySlug(c.Params("slug"))
	if err != nil || !post.Published {
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			log.Printf("Error getting blog post: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not retrieve blog post",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Blog post not found",
		})
	}
	return c.JSON(post)
}

// HandleCreateBlogPost creates a post.
func (h *CMSHandler) HandleCreateBlogPost(c *fiber.Ctx) error {
	var post models.BlogPost
	if err := c.BodyParser(&post); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(post); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrors(err),
		})
	}
	if err := h.blog.Create(&post); err != nil {
		log.Printf("Error creating blog post: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create blog post",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// HandleUpdateBlogPost updates a post.
func (h *CMSHandler) HandleUpdateBlogPost(c *fiber.Ctx) error {
	var post models.BlogPost
	if err := c.BodyParser(&post); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	post.ID = c.Params("id")
	if err := h.blog.Update(&post); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Blog post not found"})
		}
		log.Printf("Error updating blog post %s: %v", post.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update blog post",
			"error":   err.Error(),
		})
	}
	return c.JSON(post)
}

// HandleDeleteBlogPost deletes a post.
func (h *CMSHandler) HandleDeleteBlogPost(c *fiber.Ctx) error {
	if err := h.blog.Delete(c.Params("id")); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Blog post not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete blog post",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Blog post deleted"})
}

// HandleListServicePages lists published service pages.
func (h *CMSHandler) HandleListServicePages(c *fiber.Ctx) error {
	pages, err := h.pages.ListPublished()
	return h.respondList(c, pages, err, "service pages")
}

// HandleGetServicePage fetches a service page by slug.
func (h *CMSHandler) HandleGetServicePage(c *fiber.Ctx) error {
	page, err := h.pages.GetBySlug(c.Params("slug"))
	if err != nil || !page.Published {
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			log.Printf("Error getting service page: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not retrieve service page",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Service page not found",
		})
	}
	return c.JSON(page)
}

// HandleCreateServicePage creates a service page.
func (h *CMSHandler) HandleCreateServicePage(c *fiber.Ctx) error {
	var page models.ServicePage
	if err := c.BodyParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrors(err),
		})
	}
	if err := h.pages.Create(&page); err != nil {
		log.Printf("Error creating service page: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create service page",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(page)
}

// HandleUpdateServicePage updates a service page.
func (h *CMSHandler) HandleUpdateServicePage(c *fiber.Ctx) error {
	var page models.ServicePage
	if err := c.BodyParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	page.ID = c.Params("id")
	if err := h.pages.Update(&page); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Service page not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update service page",
			"error":   err.Error(),
		})
	}
	return c.JSON(page)
}

// HandleDeleteServicePage deletes a service page.
func (h *CMSHandler) HandleDeleteServicePage(c *fiber.Ctx) error {
	if err := h.pages.Delete(c.Params("id")); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Service page not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete service page",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Service page deleted"})
}

// HandleListTestimonials lists approved testimonials.
func (h *CMSHandler) HandleListTestimonials(c *fiber.Ctx) error {
	list, err := h.testimonials.ListApproved()
	return h.respondList(c, list, err, "testimonials")
}

// HandleAdminListTestimonials lists all testimonials including unapproved.
func (h *CMSHandler) HandleAdminListTestimonials(c *fiber.Ctx) error {
	list, err := h.testimonials.ListAll()
	return h.respondList(c, list, err, "testimonials")
}

// HandleCreateTestimonial creates a testimonial.
func (h *CMSHandler) HandleCreateTestimonial(c *fiber.Ctx) error {
	var t models.Testimonial
	if err := c.BodyParser(&t); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(t); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrors(err),
		})
	}
	if err := h.testimonials.Create(&t); err != nil {
		log.Printf("Error creating testimonial: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create testimonial",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

// HandleUpdateTestimonial updates a testimonial.
func (h *CMSHandler) HandleUpdateTestimonial(c *fiber.Ctx) error {
	var t models.Testimonial
	if err := c.BodyParser(&t); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	t.ID = c.Params("id")
	if err := h.testimonials.Update(&t); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Testimonial not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update testimonial",
			"error":   err.Error(),
		})
	}
	return c.JSON(t)
}

// HandleDeleteTestimonial deletes a testimonial.
func (h *CMSHandler) HandleDeleteTestimonial(c *fiber.Ctx) error {
	if err := h.testimonials.Delete(c.Params("id")); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Testimonial not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete testimonial",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Testimonial deleted"})
}
