package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Listing is a rentable property record. Amenities and Images are stored
// as JSON columns; use AmenityList/ImageList to read them.
type Listing struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title           string         `json:"title" gorm:"not null"`
	Description     string         `json:"description"`
	Price           int            `json:"price" gorm:"not null"`
	Location        string         `json:"location" gorm:"not null;index"`
	Rooms           int            `json:"rooms" gorm:"not null"`
	Amenities       datatypes.JSON `json:"amenities"`
	Images          datatypes.JSON `json:"images"`
	LandlordID      uuid.UUID      `json:"landlordId" gorm:"type:uuid;not null;index"`
	LandlordName    string         `json:"landlordName"`
	LandlordContact string         `json:"landlordContact"`
	Verified        bool           `json:"verified" gorm:"not null;default:false"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func (l *Listing) AmenityList() []string {
	return decodeStringList(l.Amenities)
}

func (l *Listing) ImageList() []string {
	return decodeStringList(l.Images)
}

func decodeStringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// EncodeStringList marshals a string slice for a JSON column. A nil slice
// encodes as an empty list, never as SQL NULL.
func EncodeStringList(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	raw, _ := json.Marshal(values)
	return datatypes.JSON(raw)
}
