package handlers

import (
	"github.com/gofiber/fiber/v3"

	"dganalyzer/internal/config"
)

// BrandingData contains site branding information for templates.
type BrandingData struct {
	SiteTitle string
}

// GetBrandingData returns branding data from config for template rendering.
func GetBrandingData(cfg *config.Config) BrandingData {
	return BrandingData{
		SiteTitle: cfg.SiteTitle,
	}
}

// MergeBranding adds branding data to a fiber.Map for template rendering.
func MergeBranding(data fiber.Map, cfg *config.Config) fiber.Map {
	branding := GetBrandingData(cfg)
	data["SiteTitle"] = branding.SiteTitle
	return data
}
