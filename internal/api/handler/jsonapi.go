package handler

import (
	"strconv"
	"time"

	"github.com/samihashehatta/leovegs-task/internal/core/domain"
)

// JSON:API-shaped resource envelope. Every successful payload is a single
// "users" resource object with a fixed attribute set; the password digest is
// never part of it.

const resourceTypeUsers = "users"

type userAttributes struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	AccessToken string    `json:"accessToken"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type userResource struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	Attributes userAttributes `json:"attributes"`
}

type userDocument struct {
	Data *userResource `json:"data"`
}

func newUserDocument(u *domain.User) userDocument {
	return userDocument{
		Data: &userResource{
			Type: resourceTypeUsers,
			ID:   strconv.FormatInt(u.ID, 10),
			Attributes: userAttributes{
				Name:        u.Name,
				Email:       u.Email,
				Role:        u.Role,
				AccessToken: u.AccessToken,
				CreatedAt:   u.CreatedAt,
				UpdatedAt:   u.UpdatedAt,
			},
		},
	}
}

// emptyDocument is the body of a successful DELETE: no resource remains.
func emptyDocument() userDocument {
	return userDocument{}
}
