package service

import (
	"context"
	"errors"
	"fmt"
	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"
	"secaware_backend/internal/util"
	"secaware_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService covers the admin side of account management plus profile
// self-service.
type UserService struct {
	UserRepo  *repository.UserRepository
	GroupRepo *repository.GroupRepository
	Mailer    Mailer
}

func NewUserService(userRepo *repository.UserRepository, groupRepo *repository.GroupRepository, mailer Mailer) *UserService {
	return &UserService{UserRepo: userRepo, GroupRepo: groupRepo, Mailer: mailer}
}

type CreateUserReq struct {
	Username  string         `json:"username" binding:"required,min=3,max=100"`
	Email     string         `json:"email" binding:"required,email"`
	Role      model.UserRole `json:"role"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	GroupIDs  []uint         `json:"groupIds"`
}

// Create provisions an account with a generated initial password and mails the
// credentials to the new user.
func (s *UserService) Create(ctx context.Context, req CreateUserReq) (*model.User, error) {
	if _, err := s.UserRepo.FindByEmail(req.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.UserRepo.FindByUsername(req.Username); err == nil {
		return nil, util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	password, err := util.GenerateRandomPassword(12)
	if err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleLearner
	}

	user := &model.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashed),
		Role:      role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}

	if len(req.GroupIDs) > 0 {
		if err := s.assignGroups(user, req.GroupIDs); err != nil {
			return nil, err
		}
	}

	msg := &MailMessage{
		To:      []string{user.Email},
		Subject: "Your security awareness training account",
		TextBody: fmt.Sprintf(
			"Hello %s,\n\nAn account has been created for you.\n\nUsername: %s\nPassword: %s\n\nPlease log in and change your password.\n",
			user.FullName(), user.Username, password),
	}
	if err := s.Mailer.Send(ctx, msg); err != nil {
		// Account exists either way; the admin can reset the password.
		logger.Log.Error("failed to mail initial credentials", zap.Uint("userId", user.ID), zap.Error(err))
	}

	return user, nil
}

type UpdateUserReq struct {
	Email     *string         `json:"email"`
	Role      *model.UserRole `json:"role"`
	FirstName *string         `json:"firstName"`
	LastName  *string         `json:"lastName"`
	Disabled  *bool           `json:"disabled"`
	GroupIDs  *[]uint         `json:"groupIds"`
}

func (s *UserService) Update(id uint, req UpdateUserReq) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Disabled != nil {
		user.Disabled = *req.Disabled
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}

	if req.GroupIDs != nil {
		if err := s.assignGroups(user, *req.GroupIDs); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (s *UserService) assignGroups(user *model.User, groupIDs []uint) error {
	groups := make([]*model.Group, 0, len(groupIDs))
	for _, gid := range groupIDs {
		group, err := s.GroupRepo.FindByID(gid)
		if err != nil {
			return err
		}
		groups = append(groups, group)
	}
	return s.UserRepo.SetGroups(user, groups)
}

type UpdateProfileReq struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Bio       *string `json:"bio"`
	Avatar    *string `json:"avatar"`
}

// UpdateProfile is the self-service subset of Update: no role, group or
// disabled changes.
func (s *UserService) UpdateProfile(userID uint, req UpdateProfileReq) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByIDWithGroups(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

func (s *UserService) List() ([]model.User, error) {
	return s.UserRepo.List()
}

func (s *UserService) Delete(id uint) error {
	return s.UserRepo.Delete(id)
}

type NotificationReq struct {
	UserID  *uint  `json:"userId"`
	GroupID *uint  `json:"groupId"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// SendNotification mails a plain announcement to a user or every member of a
// group. Unlike phishing dispatch nothing is tracked or recorded.
func (s *UserService) SendNotification(ctx context.Context, req NotificationReq) (int, error) {
	if req.UserID == nil && req.GroupID == nil {
		return 0, util.ErrNoRecipient
	}
	if req.UserID != nil && req.GroupID != nil {
		return 0, util.ErrAmbiguousRecipient
	}

	var recipients []*model.User
	if req.UserID != nil {
		user, err := s.UserRepo.FindByID(*req.UserID)
		if err != nil {
			return 0, err
		}
		recipients = append(recipients, user)
	} else {
		group, err := s.GroupRepo.FindByIDWithMembers(*req.GroupID)
		if err != nil {
			return 0, err
		}
		if len(group.Users) == 0 {
			return 0, util.ErrGroupEmpty
		}
		recipients = group.Users
	}

	sent := 0
	var lastErr error
	for _, rcpt := range recipients {
		msg := &MailMessage{
			To:       []string{rcpt.Email},
			Subject:  req.Subject,
			TextBody: req.Message,
		}
		if err := s.Mailer.Send(ctx, msg); err != nil {
			logger.Log.Error("notification mail failed", zap.Uint("userId", rcpt.ID), zap.Error(err))
			lastErr = err
			continue
		}
		sent++
	}
	if lastErr != nil {
		return sent, fmt.Errorf("%d of %d notifications failed: %w", len(recipients)-sent, len(recipients), lastErr)
	}
	return sent, nil
}
