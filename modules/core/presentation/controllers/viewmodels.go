package controllers

import (
	"time"

	"github.com/arkiflo/arkiflo/modules/core/domain/aggregates/user"
)

type UserView struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Role              string   `json:"role"`
	Permissions       []string `json:"permissions"`
	SeniorManagerView bool     `json:"seniorManagerView"`
	CreatedAt         string   `json:"createdAt"`
}

func toUserView(u user.User) UserView {
	return UserView{
		ID:                u.ID().String(),
		Name:              u.Name(),
		Email:             u.Email(),
		Role:              u.Role().String(),
		Permissions:       u.Permissions(),
		SeniorManagerView: u.SeniorManagerView(),
		CreatedAt:         u.CreatedAt().Format(time.RFC3339),
	}
}
