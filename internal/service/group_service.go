package service

import (
	"errors"
	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"

	"gorm.io/gorm"
)

type GroupService struct {
	GroupRepo *repository.GroupRepository
	UserRepo  *repository.UserRepository
}

func NewGroupService(groupRepo *repository.GroupRepository, userRepo *repository.UserRepository) *GroupService {
	return &GroupService{GroupRepo: groupRepo, UserRepo: userRepo}
}

var ErrGroupNotFound = errors.New("group not found")

type GroupReq struct {
	Name string `json:"name" binding:"required,max=150"`
}

func (s *GroupService) Create(req GroupReq) (*model.Group, error) {
	group := &model.Group{Name: req.Name}
	if err := s.GroupRepo.Create(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) Get(id uint) (*model.Group, error) {
	group, err := s.GroupRepo.FindByIDWithMembers(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGroupNotFound
	}
	return group, err
}

func (s *GroupService) List() ([]model.Group, error) {
	return s.GroupRepo.List()
}

func (s *GroupService) Update(id uint, req GroupReq) (*model.Group, error) {
	group, err := s.GroupRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}
	group.Name = req.Name
	if err := s.GroupRepo.Update(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) Delete(id uint) error {
	return s.GroupRepo.Delete(id)
}
