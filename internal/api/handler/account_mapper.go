package handler

import (
	"time"

	"github.com/hubcrm/accounts-api/internal/core/domain"
	"github.com/hubcrm/accounts-api/internal/core/ports"
)

// accountResponse is the public projection of an account. Credential and
// verification fields never appear here.
type accountResponse struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Mobile       string    `json:"mobile,omitempty"`
	Gender       string    `json:"gender,omitempty"`
	Role         string    `json:"role,omitempty"`
	CustomerCode string    `json:"customer_code,omitempty"`
	Status       string    `json:"status"`
	ProfileImg   string    `json:"profile_img,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:           a.ID,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		FullName:     a.FullName,
		Email:        a.Email,
		Mobile:       a.Mobile,
		Gender:       a.Gender,
		Role:         a.Role,
		CustomerCode: a.CustomerCode,
		Status:       string(a.Status),
		ProfileImg:   a.ProfileImg,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// pageResponse is the uniform paginated list payload.
type pageResponse struct {
	Docs  []accountResponse `json:"docs"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Next  bool              `json:"next"`
}

func toPageResponse(p *ports.Page) pageResponse {
	docs := make([]accountResponse, 0, len(p.Docs))
	for _, a := range p.Docs {
		docs = append(docs, toAccountResponse(a))
	}
	return pageResponse{Docs: docs, Total: p.Total, Page: p.Page, Next: p.HasNext}
}
