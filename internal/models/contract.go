package models

import "time"

// Contract represents a sold contract
type Contract struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	ClientName string    `json:"client_name"`
	Price      float64   `json:"price"`
	SoldAt     string    `json:"sold_at"`
	FileURL    string    `json:"file_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateContractRequest carries the fields required to create a contract
type CreateContractRequest struct {
	Title      string  `json:"title"`
	ClientName string  `json:"client_name"`
	Price      float64 `json:"price"`
	SoldAt     string  `json:"sold_at"`
	FileURL    string  `json:"file_url"`
}

// ContractPatch carries optional fields for a partial contract update
type ContractPatch struct {
	Title      *string  `json:"title"`
	ClientName *string  `json:"client_name"`
	Price      *float64 `json:"price"`
	SoldAt     *string  `json:"sold_at"`
	FileURL    *string  `json:"file_url"`
}
