package persistent

import (
	"postdeck/services/auth/internal/entity"
	"postdeck/services/auth/internal/model"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}

	return &entity.User{
		ID:          m.ID,
		Email:       m.Email,
		Username:    m.Username,
		Password:    m.Password,
		AvatarURL:   m.AvatarURL,
		Role:        entity.AccountRole(m.Role),
		IsActive:    m.IsActive,
		LastLoginAt: m.LastLoginAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ToUserModel(e *entity.User) *model.UserModel {
	if e == nil {
		return nil
	}

	return &model.UserModel{
		ID:          e.ID,
		Email:       e.Email,
		Username:    e.Username,
		Password:    e.Password,
		AvatarURL:   e.AvatarURL,
		Role:        string(e.Role),
		IsActive:    e.IsActive,
		LastLoginAt: e.LastLoginAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
