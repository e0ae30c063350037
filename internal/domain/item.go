package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// DaysPerYear converts age_days into age_years.
	DaysPerYear = 365

	maxItemTextLength    = 200
	maxDescriptionLength = 2000
)

// Item is a listing in the catalog.
type Item struct {
	// ID is the decimal form of a positive integer assigned by the store.
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Condition   string  `json:"condition"`
	PostedBy    string  `json:"posted_by"`
	Zipcode     string  `json:"zipcode"`
	Description string  `json:"description"`
	AgeDays     int     `json:"age_days"`
	AgeYears    float64 `json:"age_years"`
	// Image is the reference returned by the asset store, if an image was attached.
	Image string `json:"image,omitempty"`
	// DateAdded is in epoch seconds and never changes after creation.
	DateAdded int64      `json:"date_added"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// AgeYearsFromDays returns days/365 rounded to one decimal place.
func AgeYearsFromDays(days int) float64 {
	return math.Round(float64(days)/DaysPerYear*10) / 10
}

// ItemFields are the caller-supplied fields of a new item.
type ItemFields struct {
	Name        string
	Category    string
	Condition   string
	PostedBy    string
	Zipcode     string
	Description string
	AgeDays     int
}

// Normalize returns a copy with every text field trimmed.
func (f ItemFields) Normalize() ItemFields {
	f.Name = strings.TrimSpace(f.Name)
	f.Category = strings.TrimSpace(f.Category)
	f.Condition = strings.TrimSpace(f.Condition)
	f.PostedBy = strings.TrimSpace(f.PostedBy)
	f.Zipcode = strings.TrimSpace(f.Zipcode)
	f.Description = strings.TrimSpace(f.Description)
	return f
}

// Validate requires name, category and condition and bounds every field.
func (f ItemFields) Validate() error {
	var fe fieldErrors
	requireText(&fe, "name", f.Name, maxItemTextLength)
	requireText(&fe, "category", f.Category, maxItemTextLength)
	requireText(&fe, "condition", f.Condition, maxItemTextLength)
	limitText(&fe, "posted_by", f.PostedBy, maxItemTextLength)
	limitText(&fe, "zipcode", f.Zipcode, maxItemTextLength)
	limitText(&fe, "description", f.Description, maxDescriptionLength)
	if f.AgeDays < 0 {
		fe.add("age_days", "must be zero or greater")
	}
	return fe.err()
}

// NewItem builds an unsaved item. The store assigns ID on insert.
func NewItem(f ItemFields, image string, now time.Time) *Item {
	return &Item{
		Name:        f.Name,
		Category:    f.Category,
		Condition:   f.Condition,
		PostedBy:    f.PostedBy,
		Zipcode:     f.Zipcode,
		Description: f.Description,
		AgeDays:     f.AgeDays,
		AgeYears:    AgeYearsFromDays(f.AgeDays),
		Image:       image,
		DateAdded:   now.Unix(),
	}
}

// ItemPatch holds the mutable fields of an item. Nil fields are left untouched.
type ItemPatch struct {
	Category    *string
	Condition   *string
	Description *string
	AgeDays     *int
}

// Normalize returns a copy with set text fields trimmed.
func (p ItemPatch) Normalize() ItemPatch {
	p.Category = trimPtr(p.Category)
	p.Condition = trimPtr(p.Condition)
	p.Description = trimPtr(p.Description)
	return p
}

// Validate requires at least one field and checks each one that is set.
func (p ItemPatch) Validate() error {
	var fe fieldErrors
	if p.IsEmpty() {
		fe.add("body", "at least one of category, condition, age_days or description is required")
		return fe.err()
	}
	if p.Category != nil {
		requireText(&fe, "category", *p.Category, maxItemTextLength)
	}
	if p.Condition != nil {
		requireText(&fe, "condition", *p.Condition, maxItemTextLength)
	}
	if p.Description != nil {
		limitText(&fe, "description", *p.Description, maxDescriptionLength)
	}
	if p.AgeDays != nil && *p.AgeDays < 0 {
		fe.add("age_days", "must be zero or greater")
	}
	return fe.err()
}

// IsEmpty reports whether no field is set.
func (p ItemPatch) IsEmpty() bool {
	return p.Category == nil && p.Condition == nil && p.Description == nil && p.AgeDays == nil
}

// AgeYears returns the recomputed age_years when the patch sets age_days.
func (p ItemPatch) AgeYears() *float64 {
	if p.AgeDays == nil {
		return nil
	}
	v := AgeYearsFromDays(*p.AgeDays)
	return &v
}

// ParseItemID converts a canonical item ID to its numeric form.
// Only the exact decimal spelling of a positive integer is accepted,
// so "01", "+1" and " 1" are rejected.
func ParseItemID(id string) (int64, error) {
	if id == "" || id[0] == '0' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return n, nil
}

// FormatItemID is the inverse of ParseItemID.
func FormatItemID(n int64) string {
	return strconv.FormatInt(n, 10)
}

func requireText(fe *fieldErrors, field, value string, max int) {
	if value == "" {
		fe.add(field, "is required")
		return
	}
	limitText(fe, field, value, max)
}

func limitText(fe *fieldErrors, field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		fe.add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
