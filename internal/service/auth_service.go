package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/nkechi/Smartprep/internal/dto"
	"github.com/nkechi/Smartprep/internal/model"
	"github.com/nkechi/Smartprep/internal/repository"
	"github.com/rs/zerolog/log"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService is the portal's plain credential check. It stores passwords
// as-is and issues no tokens; the frontend keeps the returned user around.
type AuthService interface {
	Login(req dto.LoginRequest) (*dto.UserResponseDTO, error)
	Logout(username string) error
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Login(req dto.LoginRequest) (*dto.UserResponseDTO, error) {
	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil || user.Password != req.Password {
		log.Warn().Str("username", req.Username).Msg("Login rejected")
		return nil, ErrInvalidCredentials
	}

	if user.UserType == model.UserTypeChild && !user.LoggedIn {
		user.LoggedIn = true
		if err := s.userRepo.Update(user); err != nil {
			log.Error().Err(err).Uint("userID", user.ID).Msg("Login: failed to flag child as logged in")
		}
	}

	var out dto.UserResponseDTO
	if err := copier.Copy(&out, user); err != nil {
		return nil, fmt.Errorf("error preparing login response: %w", err)
	}
	return &out, nil
}

func (s *authService) Logout(username string) error {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		// Logout is best-effort, matching the portal's behaviour.
		return nil
	}
	if user.UserType == model.UserTypeChild && user.LoggedIn {
		user.LoggedIn = false
		if err := s.userRepo.Update(user); err != nil {
			log.Error().Err(err).Uint("userID", user.ID).Msg("Logout: failed to clear logged-in flag")
			return fmt.Errorf("error logging out %s: %w", username, err)
		}
	}
	return nil
}
