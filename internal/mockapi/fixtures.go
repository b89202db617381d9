package mockapi

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"go.safehomi.dev/homeadmin/internal/entity"
)

// newID returns a 24-character hex id shaped like the production backend's.
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

// Fixtures returns a small demo data set with fresh ids.
func Fixtures(now time.Time) ([]entity.Listing, []entity.Inquiry) {
	day := 24 * time.Hour
	listings := []entity.Listing{
		{
			ID:            newID(),
			PropertyType:  "apartment",
			Address:       "12 Elm Street, Springfield",
			Price:         1250,
			Bedrooms:      2,
			Bathrooms:     1,
			SquareFootage: 820,
			Status:        true,
			Description:   "Sunny two-bedroom a short walk from campus.",
			UserEmail:     "landlord@safehomi.test",
			Images:        []string{"uploads/elm-1.jpg", "uploads/elm-2.jpg", "uploads/elm-3.jpg"},
			CreatedAt:     now.Add(-30 * day),
			UpdatedAt:     now.Add(-2 * day),
		},
		{
			ID:            newID(),
			PropertyType:  "single family",
			Address:       "48 Oak Avenue, Springfield",
			Price:         2400,
			Bedrooms:      4,
			Bathrooms:     2,
			SquareFootage: 1650,
			Status:        false,
			UserEmail:     "owner@safehomi.test",
			Images:        []string{"uploads/oak-1.jpg"},
			CreatedAt:     now.Add(-12 * day),
			UpdatedAt:     now.Add(-12 * day),
		},
		{
			ID:            newID(),
			PropertyType:  "studio",
			Address:       "7 Birch Lane, Shelbyville",
			Price:         890,
			Bedrooms:      0,
			Bathrooms:     1,
			SquareFootage: 410,
			Status:        true,
			Description:   "Furnished studio, utilities included.",
			UserEmail:     "landlord@safehomi.test",
			CreatedAt:     now.Add(-3 * day),
			UpdatedAt:     now.Add(-3 * day),
		},
	}

	inquiries := []entity.Inquiry{
		{
			ID:         newID(),
			UserName:   "Ada Park",
			Email:      "ada.park@uni.test",
			University: "Springfield State",
			Status:     false,
			Images:     []string{"uploads/student-ada.jpg"},
			CreatedAt:  now.Add(-day),
			Property:   entity.Listing{ID: listings[0].ID},
		},
		{
			ID:         newID(),
			UserName:   "Luis Ortega",
			Email:      "l.ortega@uni.test",
			University: "Shelbyville College",
			Status:     true,
			CreatedAt:  now.Add(-6 * time.Hour),
			Property:   entity.Listing{ID: listings[2].ID},
		},
	}
	return listings, inquiries
}
