package service

import (
	"errors"

	"github.com/haruyama/pos-backend/internal/app/model"
	"github.com/haruyama/pos-backend/internal/app/repository"
	"github.com/haruyama/pos-backend/pkg/logger"
	"github.com/haruyama/pos-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrNameTaken       = errors.New("user name already taken")
	ErrInvalidRole     = errors.New("invalid role")
	ErrCannotDeleteSelf = errors.New("cannot delete your own account")
)

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     model.UserRole
	IsActive bool
}

type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *model.UserRole
	IsActive *bool
}

type UserService interface {
	ListUsers() ([]model.User, error)
	GetUser(id uint) (*model.User, error)
	CreateUser(input CreateUserInput) (*model.User, error)
	UpdateUser(id uint, input UpdateUserInput) (*model.User, error)
	DeleteUser(id, actingUserID uint) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) ListUsers() ([]model.User, error) {
	return s.userRepo.FindAll()
}

func (s *userService) GetUser(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) CreateUser(input CreateUserInput) (*model.User, error) {
	if !validRole(input.Role) {
		return nil, ErrInvalidRole
	}

	if _, err := s.userRepo.FindByName(input.Name); err == nil {
		return nil, ErrNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, nil)
		return nil, err
	}

	user := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		IsActive:     input.IsActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	logger.Info("User created", map[string]interface{}{
		"user_id": user.ID,
		"name":    user.Name,
		"role":    user.Role,
	})
	return user, nil
}

func (s *userService) UpdateUser(id uint, input UpdateUserInput) (*model.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != user.Name {
		if _, err := s.userRepo.FindByName(*input.Name); err == nil {
			return nil, ErrNameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := util.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if input.Role != nil {
		if !validRole(*input.Role) {
			return nil, ErrInvalidRole
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(id, actingUserID uint) error {
	if id == actingUserID {
		return ErrCannotDeleteSelf
	}
	if _, err := s.GetUser(id); err != nil {
		return err
	}
	return s.userRepo.Delete(id)
}

func validRole(role model.UserRole) bool {
	return role == model.RoleStaff || role == model.RoleAdmin
}
