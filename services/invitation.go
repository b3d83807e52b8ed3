package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/erwinjames/taskmanagement/constants"
	"github.com/erwinjames/taskmanagement/models"
	"github.com/erwinjames/taskmanagement/utils"
)

const invitationTTL = 7 * 24 * time.Hour

var ErrEmailTaken = errors.New("user with this email already exists")

// InvitationService handles admin→member team invitations.
type InvitationService struct {
	DB *gorm.DB
}

// ListForUser returns the pending invitations addressed to the user's email.
func (s *InvitationService) ListForUser(user *models.User) ([]models.TeamInvitation, error) {
	var invitations []models.TeamInvitation
	err := s.DB.Preload("Admin").
		Where("email = ? AND status = ?", user.Email, constants.InvitationStatusPending).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Find(&invitations).Error
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

// Invite creates a pending invitation for the email. When createUser is set
// the admin provisions the account directly instead: the user is created on
// their team with a throwaway password they are expected to reset.
func (s *InvitationService) Invite(admin *models.User, email, name string, createUser bool) (*models.TeamInvitation, error) {
	if !admin.IsAdmin() {
		return nil, ErrUnauthorized
	}

	var existing models.User
	err := s.DB.Where("email = ?", email).First(&existing).Error
	found := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if createUser {
		if found {
			return nil, ErrEmailTaken
		}
		if name == "" {
			name = strings.SplitN(email, "@", 2)[0]
		}
		password, err := utils.HashPassword(models.NewInvitationToken())
		if err != nil {
			return nil, err
		}
		user := models.User{
			Name:     name,
			Email:    email,
			Password: password,
			Role:     constants.RoleMember,
			AdminID:  &admin.ID,
			Status:   constants.PresenceActive,
		}
		if err := s.DB.Create(&user).Error; err != nil {
			return nil, err
		}
		return nil, nil
	}

	expires := time.Now().Add(invitationTTL)
	invitation := models.TeamInvitation{
		AdminID:   admin.ID,
		Email:     email,
		Status:    constants.InvitationStatusPending,
		Token:     models.NewInvitationToken(),
		ExpiresAt: &expires,
	}
	if found {
		invitation.UserID = &existing.ID
	}
	if err := s.DB.Create(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// Accept joins the user to the inviting admin's team. Only the invitee can
// accept, and only while the invitation is pending and unexpired.
func (s *InvitationService) Accept(user *models.User, invitationID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var invitation models.TeamInvitation
		if err := tx.First(&invitation, invitationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if invitation.Email != user.Email {
			return ErrUnauthorized
		}
		if !invitation.IsPending() {
			return ErrNotFound
		}

		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("admin_id", invitation.AdminID).Error; err != nil {
			return err
		}
		return tx.Model(&invitation).Updates(map[string]any{
			"status":  constants.InvitationStatusAccepted,
			"user_id": user.ID,
		}).Error
	})
}

func (s *InvitationService) Reject(user *models.User, invitationID uint) error {
	var invitation models.TeamInvitation
	if err := s.DB.First(&invitation, invitationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if invitation.Email != user.Email {
		return ErrUnauthorized
	}
	return s.DB.Model(&invitation).
		Update("status", constants.InvitationStatusRejected).Error
}
