package handlers

import (
	"errors"
	"fmt"
	"log"
	"math"

	"laptopshop/internal/media"
	"laptopshop/internal/repositories"
	"laptopshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrStorageNotConfigured is returned by the media endpoint when no bucket is set up.
var ErrStorageNotConfigured = errors.New("image storage not configured")

// PageMeta describes one page of a list response.
type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func respondData(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func respondPage(c *fiber.Ctx, data interface{}, total int64, page repositories.Pagination) error {
	page = page.Normalize()
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"meta": PageMeta{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(page.Limit))),
		},
	})
}

func respondMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// requestError is a malformed or invalid request body.
type requestError struct {
	message string
	fields  map[string]string
}

func (e *requestError) Error() string {
	return e.message
}

// respondError writes the error envelope for err. action describes what
// failed and is logged together with unexpected errors.
func respondError(c *fiber.Ctx, err error, action string) error {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		body := fiber.Map{"success": false, "error": reqErr.message}
		if len(reqErr.fields) > 0 {
			body["errors"] = reqErr.fields
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	}

	var locked *services.LockedError
	if errors.As(err, &locked) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"success":   false,
			"error":     "Account locked",
			"lockUntil": locked.Until,
		})
	}

	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("Error %s: %v", action, err)
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   "Internal server error",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, media.ErrUnsupportedType):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrAccountInactive):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrInvalidStatusTransition):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrAccountLocked):
		return fiber.StatusTooManyRequests
	case errors.Is(err, services.ErrAIUnavailable):
		return fiber.StatusBadGateway
	case errors.Is(err, services.ErrAINotConfigured),
		errors.Is(err, ErrStorageNotConfigured):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler renders errors no handler dealt with, such as unknown routes
// and recovered panics, in the common envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"success": false,
			"error":   fe.Message,
		})
	}
	log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   "Internal server error",
	})
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// registration only fails for an empty tag or a nil func
	_ = v.RegisterValidation("vnphone", func(fl validator.FieldLevel) bool {
		return services.IsValidPhone(fl.Field().String())
	})
	return v
}

// bind parses the JSON body into out and validates its struct tags.
func bind(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		log.Printf("Error parsing request body: %v", err)
		return &requestError{message: "Invalid request body"}
	}
	return validateStruct(out)
}

func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return &requestError{message: err.Error()}
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return &requestError{message: "Validation failed", fields: errorMessages}
}

func pageFromQuery(c *fiber.Ctx) repositories.Pagination {
	return repositories.Pagination{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", repositories.DefaultPageSize),
	}.Normalize()
}
