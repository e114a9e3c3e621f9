package models

import (
	"time"
)

// Vendor represents one storefront selling a keyset during its group buy
type Vendor struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Region    string `json:"region"`
	StoreLink string `json:"storeLink,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// Sales holds the post-GB sales graph info for a keyset
type Sales struct {
	Img        string `json:"img"`
	ThirdParty bool   `json:"thirdParty"`
}

// Keyset represents one keycap-set group-buy / interest-check catalog entry.
// Date fields are ISO date strings ("2024-01-31"); gbLaunch may also be a
// month ("2024-01", when gbMonth is set) or a quarter placeholder ("2024Q3").
type Keyset struct {
	ID           string    `json:"id" db:"id"`
	Alias        string    `json:"alias" db:"alias"`
	Profile      string    `json:"profile" db:"profile"`
	Colorway     string    `json:"colorway" db:"colorway"`
	Designer     []string  `json:"designer" db:"-"`
	ICDate       string    `json:"icDate,omitempty" db:"ic_date"`
	Details      string    `json:"details,omitempty" db:"details"`
	Notes        string    `json:"notes,omitempty" db:"notes"`
	GBMonth      bool      `json:"gbMonth,omitempty" db:"gb_month"`
	GBLaunch     string    `json:"gbLaunch,omitempty" db:"gb_launch"`
	GBEnd        string    `json:"gbEnd,omitempty" db:"gb_end"`
	Image        string    `json:"image,omitempty" db:"image"`
	Shipped      *bool     `json:"shipped,omitempty" db:"shipped"`
	Vendors      []Vendor  `json:"vendors,omitempty" db:"-"`
	Sales        *Sales    `json:"sales,omitempty" db:"-"`
	LatestEditor string    `json:"latestEditor,omitempty" db:"latest_editor"`
	CreatedAt    time.Time `json:"-" db:"created_at"`
	UpdatedAt    time.Time `json:"-" db:"updated_at"`
}

// Title returns the display title of a keyset ("GMK Red Samurai")
func (k *Keyset) Title() string {
	if k.Colorway == "" {
		return k.Profile
	}
	return k.Profile + " " + k.Colorway
}

// Public returns a copy safe for external consumption, with the
// editor-identifying field stripped
func (k *Keyset) Public() *Keyset {
	out := *k
	out.LatestEditor = ""
	return &out
}

// IsDeleteMarker reports whether the snapshot is the stripped logical-delete
// form (every descriptive field removed, profile included)
func (k *Keyset) IsDeleteMarker() bool {
	return k == nil || k.Profile == ""
}

// VendorNames returns the vendor names in listed order
func (k *Keyset) VendorNames() []string {
	names := make([]string, 0, len(k.Vendors))
	for _, v := range k.Vendors {
		names = append(names, v.Name)
	}
	return names
}

// VendorRegions returns the vendor regions in listed order
func (k *Keyset) VendorRegions() []string {
	regions := make([]string, 0, len(k.Vendors))
	for _, v := range k.Vendors {
		regions = append(regions, v.Region)
	}
	return regions
}

// PartialKeyset is a keyset snapshot with every field optional. Audit reads
// return pruned pairs of these: a nil pointer means the field was dropped
// because it did not change.
type PartialKeyset struct {
	Profile  *string  `json:"profile,omitempty"`
	Colorway *string  `json:"colorway,omitempty"`
	Designer []string `json:"designer,omitempty"`
	ICDate   *string  `json:"icDate,omitempty"`
	Details  *string  `json:"details,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
	GBMonth  *bool    `json:"gbMonth,omitempty"`
	GBLaunch *string  `json:"gbLaunch,omitempty"`
	GBEnd    *string  `json:"gbEnd,omitempty"`
	Image    *string  `json:"image,omitempty"`
	Shipped  *bool    `json:"shipped,omitempty"`
	Vendors  []Vendor `json:"vendors,omitempty"`
	Sales    *Sales   `json:"sales,omitempty"`
}

// KeysetRequest is the payload for creating or updating a keyset
type KeysetRequest struct {
	Profile  string   `json:"profile" validate:"required"`
	Colorway string   `json:"colorway" validate:"required"`
	Designer []string `json:"designer" validate:"required,min=1,dive,required"`
	ICDate   string   `json:"icDate" validate:"omitempty,isodate"`
	Details  string   `json:"details" validate:"omitempty,url"`
	Notes    string   `json:"notes"`
	GBMonth  bool     `json:"gbMonth"`
	GBLaunch string   `json:"gbLaunch" validate:"omitempty,launchdate"`
	GBEnd    string   `json:"gbEnd" validate:"omitempty,isodate"`
	Image    string   `json:"image" validate:"omitempty,url"`
	Shipped  *bool    `json:"shipped"`
	Vendors  []Vendor `json:"vendors" validate:"dive"`
	Sales    *Sales   `json:"sales"`
}
