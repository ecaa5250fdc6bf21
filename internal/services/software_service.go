package services

import (
	"context"
	"strings"

	"laptopshop/internal/models"
	"laptopshop/internal/repositories"
)

// SoftwareInput is the admin payload for a download directory entry.
type SoftwareInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Slug        string `json:"slug" validate:"max=220"`
	Category    string `json:"category" validate:"required,max=50"`
	Version     string `json:"version" validate:"max=50"`
	Platform    string `json:"platform" validate:"omitempty,oneof=windows macos linux android ios"`
	Description string `json:"description"`
	DownloadURL string `json:"download_url" validate:"required,url"`
	FileSize    string `json:"file_size" validate:"max=30"`
	IsActive    *bool  `json:"is_active"`
}

// SoftwareService manages the driver and utility download directory.
type SoftwareService struct {
	softwareRepo repositories.SoftwareRepository
}

// NewSoftwareService creates a new SoftwareService.
func NewSoftwareService(softwareRepo repositories.SoftwareRepository) *SoftwareService {
	return &SoftwareService{softwareRepo: softwareRepo}
}

// ListSoftware retrieves one page of the directory.
func (s *SoftwareService) ListSoftware(ctx context.Context, filter repositories.SoftwareFilter) ([]models.Software, int64, error) {
	return s.softwareRepo.List(ctx, filter)
}

// GetPublicSoftware returns an active entry by slug.
func (s *SoftwareService) GetPublicSoftware(ctx context.Context, softwareSlug string) (*models.Software, error) {
	item, err := s.softwareRepo.GetBySlug(ctx, softwareSlug)
	if err != nil {
		return nil, translate(err, "software")
	}
	if !item.IsActive {
		return nil, translate(repositories.ErrNotFound, "software")
	}
	return item, nil
}

// Download counts a download of an active entry and returns its URL.
func (s *SoftwareService) Download(ctx context.Context, softwareSlug string) (string, error) {
	item, err := s.GetPublicSoftware(ctx, softwareSlug)
	if err != nil {
		return "", err
	}
	if err := s.softwareRepo.IncrementDownloads(ctx, item.ID); err != nil {
		return "", err
	}
	return item.DownloadURL, nil
}

func (s *SoftwareService) GetSoftware(ctx context.Context, id string) (*models.Software, error) {
	item, err := s.softwareRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "software")
	}
	return item, nil
}

func (s *SoftwareService) CreateSoftware(ctx context.Context, in SoftwareInput) (*models.Software, error) {
	softwareSlug, err := resolveSlug(in.Slug, in.Name, func(c string) (bool, error) {
		return s.softwareRepo.SlugExists(ctx, c, "")
	})
	if err != nil {
		return nil, err
	}
	item := &models.Software{Slug: softwareSlug, IsActive: true}
	applySoftware(item, in)
	if err := s.softwareRepo.Create(ctx, item); err != nil {
		return nil, translate(err, "software slug")
	}
	return item, nil
}

func (s *SoftwareService) UpdateSoftware(ctx context.Context, id string, in SoftwareInput) (*models.Software, error) {
	item, err := s.softwareRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "software")
	}
	if in.Slug != "" || strings.TrimSpace(in.Name) != item.Name {
		softwareSlug, err := resolveSlug(in.Slug, in.Name, func(c string) (bool, error) {
			return s.softwareRepo.SlugExists(ctx, c, id)
		})
		if err != nil {
			return nil, err
		}
		item.Slug = softwareSlug
	}
	applySoftware(item, in)
	if err := s.softwareRepo.Update(ctx, item); err != nil {
		return nil, translate(err, "software slug")
	}
	return item, nil
}

func (s *SoftwareService) DeleteSoftware(ctx context.Context, id string) error {
	return translate(s.softwareRepo.Delete(ctx, id), "software")
}

func applySoftware(item *models.Software, in SoftwareInput) {
	item.Name = strings.TrimSpace(in.Name)
	item.Category = strings.ToLower(strings.TrimSpace(in.Category))
	item.Version = in.Version
	item.Platform = in.Platform
	item.Description = in.Description
	item.DownloadURL = in.DownloadURL
	item.FileSize = in.FileSize
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
}
