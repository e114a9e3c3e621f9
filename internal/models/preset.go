package models

// Whitelist is the filter-criteria state narrowing which keysets are shown.
// It lives in the client session; it is only persisted as part of a Preset.
type Whitelist struct {
	Profiles   []string `json:"profiles"`
	Shipped    []string `json:"shipped"`
	VendorMode string   `json:"vendorMode"` // "include" or "exclude"
	Vendors    []string `json:"vendors"`
	Regions    []string `json:"regions"`
	Favorites  bool     `json:"favorites"`
	Bought     bool     `json:"bought"`
	Hidden     string   `json:"hidden"` // "unhidden", "hidden" or "all"
}

// Preset is a named, saved Whitelist snapshot. User presets carry the owner's
// email; global presets have no owner and are mutable by admins only.
type Preset struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	OwnerEmail string    `json:"-" db:"owner_email"`
	Global     bool      `json:"global" db:"global"`
	Whitelist  Whitelist `json:"whitelist" db:"-"`
}

// PresetRequest is the payload for saving a preset
type PresetRequest struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Global    bool      `json:"global"`
	Whitelist Whitelist `json:"whitelist"`
}
