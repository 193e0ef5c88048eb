package models

import "time"

// ProjectMember is the reduced user shape embedded in project responses
type ProjectMember struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Project associates a contract with a set of member users and delivery metadata
type Project struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	DeliveryDate string          `json:"delivery_date"`
	ContractID   int             `json:"contract_id"`
	Members      []ProjectMember `json:"members"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CreateProjectRequest carries the fields required to create a project.
// The contract is referenced by title and resolved by the service.
type CreateProjectRequest struct {
	Name          string   `json:"name"`
	DeliveryDate  string   `json:"delivery_date"`
	ContractTitle string   `json:"contract_title"`
	Developers    []string `json:"developers"`
}

// ProjectPatch carries optional fields for a partial project update.
// Developers, when non-nil, replaces the member set.
type ProjectPatch struct {
	Name          *string  `json:"name"`
	DeliveryDate  *string  `json:"delivery_date"`
	ContractTitle *string  `json:"contract_title"`
	Developers    []string `json:"developers"`
}
