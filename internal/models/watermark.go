package models

import "strings"

// WatermarkRequest is the JSON body sent by the calling page.
type WatermarkRequest struct {
	PDFURL    string `json:"pdfUrl"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Normalize trims surrounding whitespace from every field.
func (r *WatermarkRequest) Normalize() {
	r.PDFURL = strings.TrimSpace(r.PDFURL)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
}

// MissingFields returns the names of required fields that are empty.
func (r *WatermarkRequest) MissingFields() []string {
	var missing []string
	if r.PDFURL == "" {
		missing = append(missing, "pdfUrl")
	}
	if r.FirstName == "" {
		missing = append(missing, "firstName")
	}
	if r.LastName == "" {
		missing = append(missing, "lastName")
	}
	if r.Email == "" {
		missing = append(missing, "email")
	}
	return missing
}

func (r *WatermarkRequest) Recipient() Recipient {
	return Recipient{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
	}
}

// Recipient identifies who a watermarked copy was issued to.
type Recipient struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (r Recipient) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// PreviewRequest asks for a PNG rendering of the stamp on a blank page.
// Width and Height are in PDF points; zero means A4 portrait.
type PreviewRequest struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

// PreviewRequiredFields lists the preview fields in the order they are reported.
var PreviewRequiredFields = []string{"firstName", "lastName", "email"}

// Page side limits PDF allows, in points.
const (
	MinPageDimension = 3
	MaxPageDimension = 14400
)

func (r *PreviewRequest) MissingFields() []string {
	var missing []string
	rec := r.Recipient()
	if rec.FirstName == "" {
		missing = append(missing, "firstName")
	}
	if rec.LastName == "" {
		missing = append(missing, "lastName")
	}
	if rec.Email == "" {
		missing = append(missing, "email")
	}
	return missing
}

// ValidSize reports whether Width and Height are usable. Zero selects A4.
func (r *PreviewRequest) ValidSize() bool {
	return validDimension(r.Width) && validDimension(r.Height)
}

func validDimension(v float64) bool {
	return v == 0 || (v >= MinPageDimension && v <= MaxPageDimension)
}

func (r *PreviewRequest) Recipient() Recipient {
	return Recipient{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Email:     strings.TrimSpace(r.Email),
	}
}
