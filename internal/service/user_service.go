package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"taskboard/internal/auth"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// UserInput is the data needed to register a user.
type UserInput struct {
	Username  string `validate:"required,max=64"`
	Email     string `validate:"required,email"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Password  string `validate:"min=8"`
}

// UserService registers and lists users.
type UserService struct {
	repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Register(ctx context.Context, input UserInput) (OwnerSummary, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	if err := validateStruct(input); err != nil {
		return OwnerSummary{}, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return OwnerSummary{}, err
	}

	user := model.User{
		ID:           uuid.NewString(),
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		return OwnerSummary{}, err
	}
	return ownerSummary(user), nil
}

func (s *UserService) List(ctx context.Context) ([]OwnerSummary, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]OwnerSummary, 0, len(users))
	for _, u := range users {
		out = append(out, ownerSummary(u))
	}
	return out, nil
}

func ownerSummary(u model.User) OwnerSummary {
	return OwnerSummary{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

// validateStruct checks v against its validate tags and reports every
// failing field in one ErrBadRequest.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describeField(fe))
	}
	return badRequestf("%s.", strings.Join(problems, "; "))
}

func describeField(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
