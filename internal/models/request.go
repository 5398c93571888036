package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// GenerationRequest is the payload accepted by the upstream
// designs-from-prompt endpoint. Field names follow the upstream contract.
type GenerationRequest struct {
	Type          string     `json:"type" validate:"required"`
	Subtype       string     `json:"subtype" validate:"required"`
	Dimension     *Dimension `json:"dimension,omitempty" validate:"omitempty"`
	Prompt        string     `json:"prompt" validate:"required"`
	Assets        Assets     `json:"assets"`
	Colors        []string   `json:"colors" validate:"dive,hexcolor"`
	Fonts         []string   `json:"fonts"`
	Language      string     `json:"language" validate:"oneof=english spanish french german"`
	NumOfVariants int        `json:"numOfVariants" validate:"min=1,max=10"`
	OutputFormat  []string   `json:"outputFormat" validate:"dive,oneof=jpg png"`
}

type Dimension struct {
	Width  int `json:"width" validate:"min=1,max=2000"`
	Height int `json:"height" validate:"min=1,max=2000"`
}

// Explicit reports whether both sides are positive.
func (d *Dimension) Explicit() bool {
	return d != nil && d.Width > 0 && d.Height > 0
}

type Assets struct {
	Images []ImageAsset `json:"images" validate:"dive"`
	Logos  []LogoAsset  `json:"logos" validate:"dive"`
}

type ImageAsset struct {
	URL             string           `json:"url" validate:"required,url"`
	ImagePreference *ImagePreference `json:"imagePreference,omitempty"`
}

type ImagePreference struct {
	Crop     bool `json:"crop"`
	RemoveBg bool `json:"removeBg"`
}

type LogoAsset struct {
	URL        string   `json:"url" validate:"required,url"`
	LogoStyles []string `json:"logoStyles,omitempty"`
}

// Clone returns a deep copy so a submitted request can't be mutated by its
// former owner.
func (r GenerationRequest) Clone() GenerationRequest {
	out := r
	if r.Dimension != nil {
		d := *r.Dimension
		out.Dimension = &d
	}
	out.Colors = cloneStrings(r.Colors)
	out.Fonts = cloneStrings(r.Fonts)
	out.OutputFormat = cloneStrings(r.OutputFormat)
	if r.Assets.Images != nil {
		out.Assets.Images = make([]ImageAsset, len(r.Assets.Images))
		for i, img := range r.Assets.Images {
			out.Assets.Images[i] = img
			if img.ImagePreference != nil {
				p := *img.ImagePreference
				out.Assets.Images[i].ImagePreference = &p
			}
		}
	}
	if r.Assets.Logos != nil {
		out.Assets.Logos = make([]LogoAsset, len(r.Assets.Logos))
		for i, logo := range r.Assets.Logos {
			out.Assets.Logos[i] = LogoAsset{URL: logo.URL, LogoStyles: cloneStrings(logo.LogoStyles)}
		}
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate applies the form constraints of the design editor. The relay
// never calls this; it forwards whatever it receives.
func (r *GenerationRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate request: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid generation request: %s", strings.Join(msgs, "; "))
}
