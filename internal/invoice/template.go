package invoice

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Style selects the visual treatment of the invoice.
type Style string

const (
	StylePlain     Style = "plain"     // black on white, ruled table
	StyleBranded   Style = "branded"   // accent-coloured header band and table head
	StyleGrayscale Style = "grayscale" // shaded header, printer friendly
)

// RGB is an 8-bit colour.
type RGB struct {
	R int `yaml:"r"`
	G int `yaml:"g"`
	B int `yaml:"b"`
}

// Template is the business identity and presentation settings printed on every invoice.
type Template struct {
	BusinessName   string   `yaml:"business_name"`
	AddressLines   []string `yaml:"address_lines"`
	Phone          string   `yaml:"phone"`
	Email          string   `yaml:"email"`
	TaxID          string   `yaml:"tax_id"`
	CurrencySymbol string   `yaml:"currency_symbol"`
	Locale         string   `yaml:"locale"` // BCP 47, drives digit grouping
	MileageUnit    string   `yaml:"mileage_unit"`
	PageSize       string   `yaml:"page_size"` // "A4" or "Letter"
	Style          Style    `yaml:"style"`
	Accent         RGB      `yaml:"accent"`
	Footer         string   `yaml:"footer"`
}

// DefaultTemplate is used when no template file is configured.
func DefaultTemplate() Template {
	return Template{
		BusinessName:   "Parts & Repair Shop",
		CurrencySymbol: "$",
		Locale:         "en-US",
		MileageUnit:    "km",
		PageSize:       "Letter",
		Style:          StyleGrayscale,
		Accent:         RGB{R: 30, G: 41, B: 59},
		Footer:         "Thank you for your business.",
	}
}

// LoadTemplate reads a YAML template from path. Keys missing from the file keep
// their DefaultTemplate values.
func LoadTemplate(path string) (Template, error) {
	tmpl := DefaultTemplate()
	raw, err := os.ReadFile(path)
	if err != nil {
		return tmpl, fmt.Errorf("failed to read invoice template: %w", err)
	}
	if err := yaml.Unmarshal(raw, &tmpl); err != nil {
		return tmpl, fmt.Errorf("failed to parse invoice template %s: %w", path, err)
	}
	if err := tmpl.Validate(); err != nil {
		return tmpl, fmt.Errorf("invalid invoice template %s: %w", path, err)
	}
	return tmpl, nil
}

// Validate rejects unknown styles, page sizes and out-of-range colours.
func (t Template) Validate() error {
	switch t.Style {
	case StylePlain, StyleBranded, StyleGrayscale:
	default:
		return fmt.Errorf("unknown style %q", t.Style)
	}
	switch t.PageSize {
	case "A4", "Letter":
	default:
		return fmt.Errorf("unknown page size %q", t.PageSize)
	}
	for _, c := range []int{t.Accent.R, t.Accent.G, t.Accent.B} {
		if c < 0 || c > 255 {
			return fmt.Errorf("accent colour component %d out of range", c)
		}
	}
	if t.BusinessName == "" {
		return fmt.Errorf("business_name is required")
	}
	return nil
}
