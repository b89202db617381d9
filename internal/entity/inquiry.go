package entity

import (
	"fmt"
	"strings"
	"time"

	"go.safehomi.dev/homeadmin/internal/gateway"
	"go.safehomi.dev/homeadmin/internal/listdetail"
)

// Inquiry is a student's contact request about a property.
type Inquiry struct {
	ID         string    `json:"_id" yaml:"id"`
	UserName   string    `json:"userName" yaml:"user_name"`
	Email      string    `json:"email" yaml:"email"`
	University string    `json:"university" yaml:"university"`
	Status     bool      `json:"status" yaml:"status"`
	Images     []string  `json:"images" yaml:"images"`
	CreatedAt  time.Time `json:"createdAt" yaml:"created_at"`
	Property   Listing   `json:"realEstateDetails" yaml:"property"`
}

// InquiryPaths are the contact-inquiry endpoints.
var InquiryPaths = gateway.Paths{
	List: "/real-estate/contacts",
	Item: "/real-estate/contacts",
}

func inquiryGalleries(q Inquiry) []listdetail.Gallery {
	return []listdetail.Gallery{
		{
			Key:    "images",
			Title:  "Student Images",
			Label:  "Student Image",
			Empty:  "No student images available",
			Images: q.Images,
		},
		{
			Key:    "property",
			Title:  "Property Images",
			Label:  "Property Image",
			Empty:  "No property images available",
			Images: q.Property.Images,
		},
	}
}

// Inquiries describes the contact-inquiry kind.
func Inquiries() Kind[Inquiry, Inquiry] {
	return Kind[Inquiry, Inquiry]{
		Resource: listdetail.Resource[Inquiry, Inquiry]{
			Name:      "inquiries",
			Noun:      "Contact inquiry",
			ID:        func(q Inquiry) string { return q.ID },
			Status:    func(q Inquiry) bool { return q.Status },
			Galleries: inquiryGalleries,
		},
		Paths:   InquiryPaths,
		Title:   "Contact Inquiries",
		Loading: "Loading contact inquiries...",
		Empty:   "No contact inquiries found",
		Columns: []Column[Inquiry]{
			{Title: "ID", Width: 10, Value: func(q Inquiry) string { return q.ID }},
			{Title: "Student", Width: 18, Value: func(q Inquiry) string { return q.UserName }},
			{Title: "Email", Width: 24, Value: func(q Inquiry) string { return q.Email }},
			{Title: "University", Width: 16, Value: func(q Inquiry) string { return q.University }},
			{Title: "Property", Width: 28, Value: func(q Inquiry) string { return q.Property.Address }},
			{Title: "Price", Width: 14, Value: func(q Inquiry) string { return FormatPrice(q.Property.Price) }},
			{Title: "Status", Width: 8, Value: func(q Inquiry) string { return StatusLabel(q.Status) }},
			{Title: "Received", Width: 12, Value: func(q Inquiry) string { return FormatDate(q.CreatedAt) }},
		},
		Sections: func(q Inquiry) []Section {
			student := Section{
				Title: "Student",
				Fields: []Field{
					{Label: "Name", Value: orDash(q.UserName)},
					{Label: "Email", Value: orDash(q.Email)},
					{Label: "University", Value: orDash(q.University)},
					{Label: "Status", Value: StatusLabel(q.Status)},
					{Label: "Received", Value: FormatDate(q.CreatedAt)},
				},
			}
			return []Section{student, listingSection("Property", q.Property)}
		},
		Description: func(q Inquiry) string { return descriptionOf(q.Property.Description) },
		DeleteTitle: "Delete Contact Inquiry",
		DeletePrompt: func(q Inquiry) string {
			return fmt.Sprintf("Are you sure you want to delete the contact inquiry from %q for property %q? This action cannot be undone.",
				q.UserName, q.Property.Address)
		},
		SearchText: func(q Inquiry) string {
			return strings.Join([]string{q.UserName, q.Email, q.University, q.Property.Address, q.ID}, " ")
		},
	}
}
