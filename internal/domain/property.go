package domain

import "time"

// Domain entity: бизнес-объект (истина).
// Не зависит от Gin, Postgres, Redis.
type Property struct {
	ID          int64
	Title       string
	Description string
	Price       float64
	Currency    string
	Location    string
	Bedrooms    int
	Bathrooms   int
	Area        float64 // square meters
	Type        string  // house, apartment, land, ...

	// Blockchain side.
	TokenID      *string // NFT token id, nil until minted
	OwnerAddress string
	IsListed     bool

	// IPFS CIDs.
	Images    []string
	Documents []string

	OwnerID   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Minted reports whether the property has an on-chain representation.
func (p Property) Minted() bool {
	return p.TokenID != nil && *p.TokenID != ""
}

// PropertyFilter is the search criteria for the property listing.
// Zero/nil fields are not applied.
type PropertyFilter struct {
	Query        string
	MinPrice     *float64
	MaxPrice     *float64
	PropertyType string
	Bedrooms     *int
	Bathrooms    *int
	MinArea      *float64
	MaxArea      *float64
	Location     string
	IsListed     *bool

	SortBy    string // whitelisted in repo
	SortOrder string // "asc" or "desc"
	Page      int
	Limit     int
}
