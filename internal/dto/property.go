package dto

import "time"

// CreatePropertyRequest is the JSON body for POST /properties.
type CreatePropertyRequest struct {
	Title        string   `json:"title" binding:"required,min=1,max=200"`
	Description  string   `json:"description" binding:"max=5000"`
	Price        float64  `json:"price" binding:"required,gt=0"`
	Currency     string   `json:"currency" binding:"omitempty,max=16"`
	Location     string   `json:"location" binding:"required,max=200"`
	Bedrooms     int      `json:"bedrooms" binding:"gte=0"`
	Bathrooms    int      `json:"bathrooms" binding:"gte=0"`
	Area         float64  `json:"area" binding:"gte=0"`
	PropertyType string   `json:"property_type" binding:"required,max=50"`
	Images       []string `json:"images"`
	Documents    []string `json:"documents"`
}

// UpdatePropertyRequest is the JSON body for PUT /properties/{id}.
// nil = не менять, значение = поставить.
type UpdatePropertyRequest struct {
	Title        *string  `json:"title" binding:"omitempty,min=1,max=200"`
	Description  *string  `json:"description" binding:"omitempty,max=5000"`
	Price        *float64 `json:"price" binding:"omitempty,gt=0"`
	Currency     *string  `json:"currency" binding:"omitempty,max=16"`
	Location     *string  `json:"location" binding:"omitempty,max=200"`
	Bedrooms     *int     `json:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms    *int     `json:"bathrooms" binding:"omitempty,gte=0"`
	Area         *float64 `json:"area" binding:"omitempty,gte=0"`
	PropertyType *string  `json:"property_type" binding:"omitempty,max=50"`
	Images       []string `json:"images"`
	Documents    []string `json:"documents"`
}

// SearchPropertiesQuery binds the query string of GET /properties.
type SearchPropertiesQuery struct {
	Query        string   `form:"query"`
	MinPrice     *float64 `form:"min_price" binding:"omitempty,gte=0"`
	MaxPrice     *float64 `form:"max_price" binding:"omitempty,gte=0"`
	PropertyType string   `form:"property_type"`
	Bedrooms     *int     `form:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms    *int     `form:"bathrooms" binding:"omitempty,gte=0"`
	MinArea      *float64 `form:"min_area" binding:"omitempty,gte=0"`
	MaxArea      *float64 `form:"max_area" binding:"omitempty,gte=0"`
	Location     string   `form:"location"`
	IsListed     *bool    `form:"is_listed"`
	SortBy       string   `form:"sort_by,default=created_at"`
	SortOrder    string   `form:"sort_order,default=desc" binding:"omitempty,oneof=asc desc"`
	Page         int      `form:"page,default=1" binding:"gte=1"`
	Limit        int      `form:"limit,default=10" binding:"gte=1,lte=100"`
}

// PropertyResponse is the public shape of a listing.
type PropertyResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	Location     string    `json:"location"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    int       `json:"bathrooms"`
	Area         float64   `json:"area"`
	PropertyType string    `json:"property_type"`
	TokenID      *string   `json:"token_id"`
	OwnerAddress string    `json:"owner_address"`
	IsListed     bool      `json:"is_listed"`
	Images       []string  `json:"images"`
	Documents    []string  `json:"documents"`
	OwnerID      int64     `json:"owner_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ListPropertiesResponse struct {
	Items []PropertyResponse `json:"items"`
}

// UploadResponse lists the CIDs pinned for an upload request.
type UploadResponse struct {
	Hashes []string `json:"hashes"`
}
