package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/erwinjames/taskmanagement/constants"
	"github.com/erwinjames/taskmanagement/models"
)

// AssignmentService handles member-initiated requests to join an admin's
// team. The target admin approves or rejects.
type AssignmentService struct {
	DB *gorm.DB
}

func (s *AssignmentService) PendingForAdmin(admin *models.User) ([]models.AdminAssignmentRequest, error) {
	var requests []models.AdminAssignmentRequest
	err := s.DB.Preload("User").
		Where("requested_admin_id = ? AND status = ?", admin.ID, constants.AssignmentStatusPending).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *AssignmentService) Request(user *models.User, adminID uint) (*models.AdminAssignmentRequest, error) {
	var admin models.User
	if err := s.DB.First(&admin, adminID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !admin.IsAdmin() {
		return nil, ErrNotFound
	}

	request := models.AdminAssignmentRequest{
		UserID:           user.ID,
		RequestedAdminID: adminID,
		Status:           constants.AssignmentStatusPending,
	}
	if err := s.DB.Create(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// Approve places the requesting user under the admin and marks the request
// approved. Only the requested admin may act on a request.
func (s *AssignmentService) Approve(admin *models.User, requestID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		request, err := s.find(tx, admin, requestID)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", request.UserID).
			Update("admin_id", request.RequestedAdminID).Error; err != nil {
			return err
		}
		return tx.Model(request).
			Update("status", constants.AssignmentStatusApproved).Error
	})
}

func (s *AssignmentService) Reject(admin *models.User, requestID uint) error {
	request, err := s.find(s.DB, admin, requestID)
	if err != nil {
		return err
	}
	return s.DB.Model(request).
		Update("status", constants.AssignmentStatusRejected).Error
}

func (s *AssignmentService) find(tx *gorm.DB, admin *models.User, requestID uint) (*models.AdminAssignmentRequest, error) {
	var request models.AdminAssignmentRequest
	if err := tx.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if request.RequestedAdminID != admin.ID {
		return nil, ErrUnauthorized
	}
	return &request, nil
}
