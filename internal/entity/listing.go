package entity

import (
	"fmt"
	"strings"
	"time"

	"go.safehomi.dev/homeadmin/internal/gateway"
	"go.safehomi.dev/homeadmin/internal/listdetail"
)

// Listing is a real-estate property. The list and detail endpoints return the
// same shape.
type Listing struct {
	ID            string    `json:"_id" yaml:"id"`
	PropertyType  string    `json:"propertyType" yaml:"property_type"`
	Address       string    `json:"address" yaml:"address"`
	Price         float64   `json:"price" yaml:"price"`
	Bedrooms      int       `json:"bedrooms" yaml:"bedrooms"`
	Bathrooms     int       `json:"bathrooms" yaml:"bathrooms"`
	SquareFootage int       `json:"squareFootage" yaml:"square_footage"`
	Status        bool      `json:"status" yaml:"status"`
	Description   string    `json:"description,omitempty" yaml:"description,omitempty"`
	UserEmail     string    `json:"userEmail,omitempty" yaml:"user_email,omitempty"`
	Images        []string  `json:"images" yaml:"images"`
	CreatedAt     time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" yaml:"updated_at"`
}

// ListingPaths are the real-estate endpoints.
var ListingPaths = gateway.Paths{
	List: "/real-estate/all",
	Item: "/real-estate",
}

func listingGalleries(l Listing) []listdetail.Gallery {
	return []listdetail.Gallery{{
		Key:    "images",
		Title:  "Property Images",
		Label:  "Image",
		Empty:  "No images available",
		Images: l.Images,
	}}
}

func listingSection(title string, l Listing) Section {
	return Section{
		Title: title,
		Fields: []Field{
			{Label: "Address", Value: orDash(l.Address)},
			{Label: "Type", Value: orDash(Capitalize(l.PropertyType))},
			{Label: "Bedrooms", Value: itoa(l.Bedrooms)},
			{Label: "Bathrooms", Value: itoa(l.Bathrooms)},
			{Label: "Area", Value: FormatArea(l.SquareFootage)},
			{Label: "Price", Value: FormatPrice(l.Price)},
			{Label: "Status", Value: StatusLabel(l.Status)},
			{Label: "Owner", Value: orDash(l.UserEmail)},
		},
	}
}

func descriptionOf(s string) string {
	if strings.TrimSpace(s) == "" {
		return "No description provided"
	}
	return s
}

// Listings describes the real-estate kind.
func Listings() Kind[Listing, Listing] {
	return Kind[Listing, Listing]{
		Resource: listdetail.Resource[Listing, Listing]{
			Name:      "listings",
			Noun:      "Property",
			ID:        func(l Listing) string { return l.ID },
			Status:    func(l Listing) bool { return l.Status },
			Galleries: listingGalleries,
		},
		Paths:   ListingPaths,
		Title:   "Real Estate Listings",
		Loading: "Loading properties...",
		Empty:   "No properties found",
		Columns: []Column[Listing]{
			{Title: "ID", Width: 10, Value: func(l Listing) string { return l.ID }},
			{Title: "Address", Width: 32, Value: func(l Listing) string { return l.Address }},
			{Title: "Type", Width: 12, Value: func(l Listing) string { return Capitalize(l.PropertyType) }},
			{Title: "Beds", Width: 4, Value: func(l Listing) string { return itoa(l.Bedrooms) }},
			{Title: "Baths", Width: 5, Value: func(l Listing) string { return itoa(l.Bathrooms) }},
			{Title: "Sq Ft", Width: 7, Value: func(l Listing) string { return itoa(l.SquareFootage) }},
			{Title: "Price", Width: 14, Value: func(l Listing) string { return FormatPrice(l.Price) }},
			{Title: "Status", Width: 8, Value: func(l Listing) string { return StatusLabel(l.Status) }},
			{Title: "Listed", Width: 12, Value: func(l Listing) string { return FormatDate(l.CreatedAt) }},
		},
		Sections: func(l Listing) []Section {
			details := listingSection("Property Details", l)
			details.Fields = append(details.Fields,
				Field{Label: "Listed", Value: FormatDate(l.CreatedAt)},
				Field{Label: "Updated", Value: FormatDate(l.UpdatedAt)},
			)
			return []Section{details}
		},
		Description: func(l Listing) string { return descriptionOf(l.Description) },
		DeleteTitle: "Delete Property",
		DeletePrompt: func(l Listing) string {
			return fmt.Sprintf("Are you sure you want to delete the property at %q? This action cannot be undone.", l.Address)
		},
		SearchText: func(l Listing) string {
			return strings.Join([]string{l.Address, l.PropertyType, l.UserEmail, l.ID}, " ")
		},
	}
}
