package designs

import (
	"math"

	"design-campaign-backend/internal/models"
)

// Fallback is returned when neither an explicit dimension nor a table entry
// applies.
var Fallback = models.Dimension{Width: 300, Height: 300}

// dimensionTable maps type -> subtype -> pixel size for rendering results.
var dimensionTable = map[string]map[string]models.Dimension{
	"amazon": {
		"amazon-square":    {Width: 300, Height: 300},
		"amazon-rectangle": {Width: 600, Height: 300},
		"amazon-large":     {Width: 1200, Height: 628},
	},
	"website": {
		"website-large-square": {Width: 600, Height: 600},
		"website-banner":       {Width: 1200, Height: 400},
		"website-hero":         {Width: 1920, Height: 1080},
	},
	"twitter": {
		"twitter-post":   {Width: 1024, Height: 512},
		"twitter-header": {Width: 1500, Height: 500},
		"twitter-card":   {Width: 800, Height: 418},
	},
	"displayAds": {
		"displayAds-half-page-ad":    {Width: 300, Height: 600},
		"displayAds-banner":          {Width: 728, Height: 90},
		"displayAds-large-rectangle": {Width: 336, Height: 280},
	},
	"youtube": {
		"youtube-thumbnail-small": {Width: 640, Height: 360},
		"youtube-thumbnail-large": {Width: 1280, Height: 720},
		"youtube-banner":          {Width: 2560, Height: 1440},
	},
	"facebook": {
		"facebook-cover": {Width: 851, Height: 315},
		"facebook-post":  {Width: 1200, Height: 630},
		"facebook-story": {Width: 1080, Height: 1920},
	},
	"instagram": {
		"instagram-post":  {Width: 1080, Height: 1080},
		"instagram-story": {Width: 1080, Height: 1920},
		"instagram-reel":  {Width: 1080, Height: 1920},
	},
}

// Resolve returns the pixel size a request renders at. An explicit
// dimension with both sides positive wins over the table.
func Resolve(req *models.GenerationRequest) models.Dimension {
	if req == nil {
		return Fallback
	}
	if req.Dimension.Explicit() {
		return *req.Dimension
	}
	if subtypes, ok := dimensionTable[req.Type]; ok {
		if dim, ok := subtypes[req.Subtype]; ok {
			return dim
		}
	}
	return Fallback
}

// Lookup reports the table entry for type/subtype, if any.
func Lookup(designType, subtype string) (models.Dimension, bool) {
	dim, ok := dimensionTable[designType][subtype]
	return dim, ok
}

// DisplaySize scales dim down to maxHeight, keeping the aspect ratio.
// Sizes already within maxHeight are returned unchanged.
func DisplaySize(dim models.Dimension, maxHeight int) models.Dimension {
	if dim.Height <= maxHeight || dim.Height <= 0 {
		return dim
	}
	ratio := float64(dim.Width) / float64(dim.Height)
	return models.Dimension{
		Width:  int(math.Round(float64(maxHeight) * ratio)),
		Height: maxHeight,
	}
}
