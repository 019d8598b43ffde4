package service

import (
	"errors"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateUserInput struct {
	Username string         `json:"username" validate:"required,min=3"`
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required,min=6"`
	FullName string         `json:"full_name" validate:"required"`
	Role     model.UserRole `json:"role" validate:"required,oneof=admin kasir manajer"`
}

type UpdateUserInput struct {
	Username *string         `json:"username"`
	Email    *string         `json:"email"`
	FullName *string         `json:"full_name"`
	Role     *model.UserRole `json:"role"`
	IsActive *bool           `json:"is_active"`
}

type UserService interface {
	CreateUser(input CreateUserInput) (*model.UserResponse, error)
	ListUsers() ([]model.UserResponse, error)
	UpdateUser(id uuid.UUID, input UpdateUserInput) (*model.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(input CreateUserInput) (*model.UserResponse, error) {
	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		return nil, apperr.InvalidInput(validator.FirstMessage(errs))
	}

	user := &model.User{
		Username: input.Username,
		Email:    input.Email,
		FullName: input.FullName,
		Role:     input.Role,
		IsActive: true,
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Duplicate("user", input.Username)
		}
		return nil, err
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) ListUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, u := range users {
		responses[i] = u.ToResponse()
	}
	return responses, nil
}

func (s *userService) UpdateUser(id uuid.UUID, input UpdateUserInput) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user", id.String())
		}
		return nil, err
	}

	if input.Username != nil {
		if len(*input.Username) < 3 {
			return nil, apperr.InvalidInput("username must be at least 3 characters")
		}
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FullName != nil {
		if *input.FullName == "" {
			return nil, apperr.InvalidInput("full name cannot be empty")
		}
		user.FullName = *input.FullName
	}
	if input.Role != nil {
		switch *input.Role {
		case model.RoleAdmin, model.RoleKasir, model.RoleManajer:
		default:
			return nil, apperr.InvalidInput("unknown role")
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Duplicate("user", user.Username)
		}
		return nil, err
	}

	resp := user.ToResponse()
	return &resp, nil
}
