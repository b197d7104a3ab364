package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/nkechi/Smartprep/internal/dto"
	"github.com/nkechi/Smartprep/internal/model"
	"github.com/nkechi/Smartprep/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrParentNotFound = errors.New("parent not found")
	ErrUsernameTaken  = errors.New("username already exists")
)

// ChildService handles parent-side child account bookkeeping.
type ChildService interface {
	CreateChild(req dto.CreateChildRequest) (*dto.UserResponseDTO, error)
	GetChildren(parentID uint) ([]dto.UserResponseDTO, error)
}

type childService struct {
	userRepo repository.UserRepository
}

func NewChildService(userRepo repository.UserRepository) ChildService {
	return &childService{userRepo: userRepo}
}

func (s *childService) CreateChild(req dto.CreateChildRequest) (*dto.UserResponseDTO, error) {
	parent, err := s.userRepo.FindByID(req.ParentID)
	if err != nil || parent.UserType != model.UserTypeParent {
		return nil, ErrParentNotFound
	}

	if _, err := s.userRepo.FindByUsername(req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error checking username %s: %w", req.Username, err)
	}

	child := &model.User{
		ParentID: &req.ParentID,
		Name:     req.Name,
		Username: req.Username,
		Password: req.Password,
		ExamType: req.ExamType,
		UserType: model.UserTypeChild,
	}
	if err := s.userRepo.Create(child); err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("CreateChild: failed to create child account")
		return nil, fmt.Errorf("error creating child account: %w", err)
	}

	log.Info().Uint("childID", child.ID).Uint("parentID", req.ParentID).Msg("Child account created")
	var out dto.UserResponseDTO
	if err := copier.Copy(&out, child); err != nil {
		return nil, fmt.Errorf("error preparing child response: %w", err)
	}
	return &out, nil
}

func (s *childService) GetChildren(parentID uint) ([]dto.UserResponseDTO, error) {
	parent, err := s.userRepo.FindByID(parentID)
	if err != nil || parent.UserType != model.UserTypeParent {
		return nil, ErrParentNotFound
	}

	children, err := s.userRepo.FindChildrenByParentID(parentID)
	if err != nil {
		return nil, fmt.Errorf("error fetching children for parent %d: %w", parentID, err)
	}

	dtos := make([]dto.UserResponseDTO, 0, len(children))
	for i := range children {
		var out dto.UserResponseDTO
		if err := copier.Copy(&out, &children[i]); err != nil {
			log.Error().Err(err).Uint("childID", children[i].ID).Msg("GetChildren: error copying child to DTO")
			continue
		}
		dtos = append(dtos, out)
	}
	return dtos, nil
}
