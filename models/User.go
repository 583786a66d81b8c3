package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName           string         `json:"firstName"`
	LastName            string         `json:"lastName"`
	Email               string         `json:"email" gorm:"uniqueIndex"`
	Password            string         `json:"password"`
	AvatarURL           string         `json:"avatarURL"`
	Languages           datatypes.JSON `json:"languages"`
	SavedListings       datatypes.JSON `json:"savedListings"`
	AllowsNotifications *bool          `json:"allowsNotifications"`
	Listings            []Listing      `json:"listings" gorm:"foreignKey:VendorID;references:ID"`
	Role                string         `json:"role" gorm:"type:varchar(20);default:customer;index"` // customer, vendor, admin, super_admin
}

// Custom JSON marshaling to handle JSON fields properly
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		Languages     []string `json:"languages,omitempty"`
		SavedListings []int    `json:"savedListings,omitempty"`
		*Alias
	}{
		Languages:     []string{},
		SavedListings: []int{},
		Alias:         (*Alias)(u),
	}

	if u.Languages != nil {
		var languages []string
		if err := json.Unmarshal(u.Languages, &languages); err == nil {
			aux.Languages = languages
		}
	}

	if u.SavedListings != nil {
		var savedListings []int
		if err := json.Unmarshal(u.SavedListings, &savedListings); err == nil {
			aux.SavedListings = savedListings
		}
	}

	// Listings field is excluded here to prevent circular reference

	return json.Marshal(aux)
}
