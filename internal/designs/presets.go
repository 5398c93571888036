package designs

import (
	"sort"

	"design-campaign-backend/internal/models"
)

type Preset struct {
	Key     string
	Name    string
	Request models.GenerationRequest
}

func croppedImage(url string) models.ImageAsset {
	return models.ImageAsset{URL: url, ImagePreference: &models.ImagePreference{Crop: true}}
}

var presets = map[string]Preset{
	"simple": {Key: "simple", Name: "Simple", Request: models.GenerationRequest{
		Type:          "amazon",
		Subtype:       "amazon-square",
		Dimension:     &models.Dimension{Width: 300, Height: 300},
		Prompt:        "Get Free POS Development with your landing page. Claim Now",
		Assets:        models.Assets{Images: []models.ImageAsset{}, Logos: []models.LogoAsset{}},
		Colors:        []string{},
		Fonts:         []string{},
		Language:      "english",
		NumOfVariants: 3,
		OutputFormat:  []string{"jpg"},
	}},
	"ecommerceCategory": {Key: "ecommerceCategory", Name: "E-commerce Category", Request: models.GenerationRequest{
		Type:      "website",
		Subtype:   "website-large-square",
		Dimension: &models.Dimension{Width: 600, Height: 600},
		Prompt:    "Naturally Luxurious Skincare. Experience the Skinpro difference today. View Collection",
		Assets: models.Assets{
			Images: []models.ImageAsset{
				croppedImage("https://media.hellosivi.com/photos/se4WDeo0vkA.jpg"),
				croppedImage("https://media.hellosivi.com/photos/sM7n56orwHM.jpg"),
			},
			Logos: []models.LogoAsset{},
		},
		Colors:        []string{"#668135", "#D6DEC1", "#0E1A01"},
		Fonts:         []string{},
		Language:      "english",
		NumOfVariants: 3,
		OutputFormat:  []string{"jpg"},
	}},
	"socialMedia": {Key: "socialMedia", Name: "Social Media", Request: models.GenerationRequest{
		Type:      "twitter",
		Subtype:   "twitter-post",
		Dimension: &models.Dimension{Width: 1024, Height: 512},
		Prompt:    "Title: Bask in the Sun, Subtext: Let natural light flood your space with our designs., Button: Get a Quote",
		Assets: models.Assets{
			Images: []models.ImageAsset{croppedImage("https://media.hellosivi.com/photos/ssl11TjAFoA.jpg")},
			Logos:  []models.LogoAsset{},
		},
		Colors:        []string{"#00B8A4", "#0679AB", "#FFFFFF"},
		Fonts:         []string{},
		Language:      "english",
		NumOfVariants: 3,
		OutputFormat:  []string{"jpg"},
	}},
	"brandAwareness": {Key: "brandAwareness", Name: "Brand Awareness", Request: models.GenerationRequest{
		Type:      "displayAds",
		Subtype:   "displayAds-half-page-ad",
		Dimension: &models.Dimension{Width: 300, Height: 600},
		Prompt:    "Navigating Real Estate, Simplified. Your trusted partner for buying and selling property. Learn More",
		Assets: models.Assets{
			Images: []models.ImageAsset{croppedImage("https://media.hellosivi.com/photos/sGBdpCxKCqY.jpeg")},
			Logos: []models.LogoAsset{{
				URL:        "https://media.hellosivi.com/logos/snH2sMMwKoN.png",
				LogoStyles: []string{"direct", "neutral"},
			}},
		},
		Colors:        []string{"#C31E2E"},
		Fonts:         []string{},
		Language:      "english",
		NumOfVariants: 4,
		OutputFormat:  []string{"jpg"},
	}},
	"videoThumbnail": {Key: "videoThumbnail", Name: "Video Thumbnail", Request: models.GenerationRequest{
		Type:      "youtube",
		Subtype:   "youtube-thumbnail-small",
		Dimension: &models.Dimension{Width: 640, Height: 360},
		Prompt:    "Thumbnails for money management videos",
		Assets: models.Assets{
			Images: []models.ImageAsset{croppedImage("https://media.hellosivi.com/photos/sEDpfWhzojS.jpeg")},
			Logos:  []models.LogoAsset{},
		},
		Colors:        []string{},
		Fonts:         []string{},
		Language:      "english",
		NumOfVariants: 4,
		OutputFormat:  []string{"jpg"},
	}},
	"profileCover": {Key: "profileCover", Name: "Profile Cover", Request: models.GenerationRequest{
		Type:      "facebook",
		Subtype:   "facebook-cover",
		Dimension: &models.Dimension{Width: 851, Height: 315},
		Prompt:    "Best Movie Clips. Discover unforgettable moments in cinema history.",
		Assets: models.Assets{
			Images: []models.ImageAsset{croppedImage("https://media.hellosivi.com/photos/s300YDkgbpa.jpeg")},
			Logos:  []models.LogoAsset{},
		},
		Colors:        []string{},
		Fonts:         []string{},
		Language:      "english",
		NumOfVariants: 3,
		OutputFormat:  []string{"jpg"},
	}},
}

// LookupPreset returns a copy of the named preset; callers may modify the
// request freely.
func LookupPreset(key string) (Preset, bool) {
	p, ok := presets[key]
	if !ok {
		return Preset{}, false
	}
	p.Request = p.Request.Clone()
	return p, true
}

// PresetKeys lists preset keys in lexical order.
func PresetKeys() []string {
	keys := make([]string, 0, len(presets))
	for k := range presets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultRequest is the blank editor state.
func DefaultRequest() models.GenerationRequest {
	return models.GenerationRequest{
		Type:          "displayAds",
		Subtype:       "displayAds-half-page-ad",
		Dimension:     &models.Dimension{Width: 300, Height: 600},
		Assets:        models.Assets{Images: []models.ImageAsset{}, Logos: []models.LogoAsset{}},
		Colors:        []string{},
		Fonts:         []string{},
		Language:      "english",
		NumOfVariants: 4,
		OutputFormat:  []string{"jpg"},
	}
}
