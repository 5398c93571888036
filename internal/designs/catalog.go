package designs

import "design-campaign-backend/internal/models"

// Subtype is one selectable template size within a design type. Width and
// Height are zero for the free-form custom subtype.
type Subtype struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type DesignType struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Subtypes []Subtype `json:"subtypes"`
}

// Catalog lists every design type the editor offers, in display order.
var Catalog = []DesignType{
	{Key: "instagram", Label: "Instagram", Subtypes: []Subtype{
		{"instagram-post", "Post (1080×1080)", 1080, 1080},
		{"instagram-post-small", "Post Small (800×800)", 800, 800},
		{"instagram-ad", "Ad (1080×1080)", 1080, 1080},
	}},
	{Key: "facebook", Label: "Facebook", Subtypes: []Subtype{
		{"facebook-post", "Post (1200×900)", 1200, 900},
		{"facebook-ad", "Ad (1200×628)", 1200, 628},
		{"facebook-cover", "Cover (851×315)", 851, 315},
	}},
	{Key: "twitter", Label: "Twitter", Subtypes: []Subtype{
		{"twitter-post", "Post (1024×512)", 1024, 512},
		{"twitter-ad", "Ad (1200×675)", 1200, 675},
		{"twitter-cover", "Cover (1500×500)", 1500, 500},
	}},
	{Key: "linkedin", Label: "LinkedIn", Subtypes: []Subtype{
		{"linkedIn-post", "Post (1200×628)", 1200, 628},
		{"linkedIn-ad", "Ad (1080×1080)", 1080, 1080},
		{"linkedIn-banner", "Banner (1584×396)", 1584, 396},
	}},
	{Key: "pinterest", Label: "Pinterest", Subtypes: []Subtype{
		{"pinterest-pin-small", "Pin Small (400×600)", 400, 600},
	}},
	{Key: "whatsapp", Label: "WhatsApp", Subtypes: []Subtype{
		{"whatsapp-post", "Post (800×800)", 800, 800},
		{"whatsapp-wide-post", "Wide Post (800×400)", 800, 400},
		{"whatsapp-business-cover", "Business Cover (1211×681)", 1211, 681},
	}},
	{Key: "youtube", Label: "YouTube", Subtypes: []Subtype{
		{"youtube-thumbnail-small", "Thumbnail (640x360)", 640, 360},
		{"youtube-shorts-thumbnail-small", "Shorts Thumbnail (540×960)", 540, 960},
	}},
	{Key: "displayAds", Label: "Display Ads", Subtypes: []Subtype{
		{"displayAds-half-page-ad", "Half Page Ad (300×600)", 300, 600},
		{"displayAds-large-rectangle", "Large Rectangle (336×280)", 336, 280},
		{"displayAds-inline-rectangle", "Inline Rectangle (300×250)", 300, 250},
		{"displayAds-fat-skyscraper", "Fat Skyscraper (240×400)", 240, 400},
	}},
	{Key: "amazon", Label: "Amazon", Subtypes: []Subtype{
		{"amazon-ad", "Ad (300×250)", 300, 250},
		{"amazon-fullscreen", "Fullscreen (727×356)", 727, 356},
		{"amazon-large-square", "Large Square (727×727)", 727, 727},
		{"amazon-rectangle", "Rectangle (970×600)", 970, 600},
		{"amazon-square", "Square (300×300)", 300, 300},
	}},
	{Key: "website", Label: "Website", Subtypes: []Subtype{
		{"website-large-rectangle", "Large Rectangle (500×780)", 500, 780},
		{"website-medium-rectangle", "Medium Rectangle (450×580)", 450, 580},
		{"website-rectangle", "Rectangle (420×330)", 420, 330},
		{"website-wide-rectangle", "Wide Rectangle (610×210)", 610, 210},
		{"website-tall-rectangle", "Tall Rectangle (380×520)", 380, 520},
		{"website-square", "Square (450×450)", 450, 450},
		{"website-small-square", "Small Square (300×300)", 300, 300},
		{"website-large-square", "Large Square (600×600)", 600, 600},
		{"website-standard", "Standard (1280×400)", 1280, 400},
	}},
	{Key: "email", Label: "Email", Subtypes: []Subtype{
		{"square", "Square (600×600)", 600, 600},
		{"tall", "Tall (600×800)", 600, 800},
		{"rectangle", "Rectangle (600×450)", 600, 450},
		{"wide", "Wide (600×250)", 600, 250},
		{"small", "Small (300×450)", 300, 450},
		{"small-square", "Small Square (300×300)", 300, 300},
	}},
	{Key: "custom", Label: "Custom", Subtypes: []Subtype{
		{"custom", "Custom Dimensions", 0, 0},
	}},
}

// FindType returns the catalogue entry for key.
func FindType(key string) (DesignType, bool) {
	for _, t := range Catalog {
		if t.Key == key {
			return t, true
		}
	}
	return DesignType{}, false
}

// Subtypes returns the subtypes of a design type, or nil if unknown.
func Subtypes(designType string) []Subtype {
	t, ok := FindType(designType)
	if !ok {
		return nil
	}
	return t.Subtypes
}

// DimensionsFor returns the catalogue size of type/subtype. Custom and
// unknown combinations report false.
func DimensionsFor(designType, subtype string) (models.Dimension, bool) {
	for _, s := range Subtypes(designType) {
		if s.Key == subtype && s.Width > 0 && s.Height > 0 {
			return models.Dimension{Width: s.Width, Height: s.Height}, true
		}
	}
	return models.Dimension{}, false
}

func RequiresCustomDimensions(designType, subtype string) bool {
	return designType == "custom" || subtype == "custom-dimensions"
}

// ApplyCatalogDimension fills req.Dimension from the catalogue when the
// type/subtype has a fixed size, the way the editor does on selection.
func ApplyCatalogDimension(req *models.GenerationRequest) {
	if req == nil || RequiresCustomDimensions(req.Type, req.Subtype) {
		return
	}
	if dim, ok := DimensionsFor(req.Type, req.Subtype); ok {
		req.Dimension = &dim
	}
}
