package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/erwinjames/taskmanagement/constants"
	"github.com/erwinjames/taskmanagement/models"
)

type ProjectService struct {
	DB       *gorm.DB
	Activity ActivityRecorder
}

type ProjectInput struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Budget      *float64   `json:"budget"`
}

func (s *ProjectService) Create(actor *models.User, in ProjectInput) (*models.Project, error) {
	if in.Status == "" {
		in.Status = constants.ProjectStatusActive
	}
	if in.Priority == "" {
		in.Priority = constants.PriorityMedium
	}
	if !constants.ValidProjectStatus(in.Status) {
		return nil, ErrInvalidStatus
	}
	if !constants.ValidPriority(in.Priority) {
		return nil, ErrInvalidPriority
	}

	project := models.Project{
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Budget:      in.Budget,
		CreatedByID: actor.ID,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		member := models.ProjectMember{
			ProjectID: project.ID,
			UserID:    actor.ID,
			Role:      constants.ProjectRoleOwner,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		s.Activity.Created(tx, &actor.ID, &project)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *ProjectService) Get(actor *models.User, id uint) (*models.Project, error) {
	var project models.Project
	err := s.DB.Preload("Owner").Preload("Members.User").Preload("Tasks").
		First(&project, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// List returns the projects visible to the actor: admins see all, others
// see projects they own or belong to.
func (s *ProjectService) List(actor *models.User) ([]models.Project, error) {
	query := s.DB.Preload("Owner").Preload("Members")

	if !actor.IsAdmin() {
		query = query.Where(
			"created_by_id = ? OR id IN (?)",
			actor.ID,
			s.DB.Model(&models.ProjectMember{}).Select("project_id").Where("user_id = ?", actor.ID),
		)
	}

	var projects []models.Project
	if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *ProjectService) Update(actor *models.User, id uint, in ProjectInput) (*models.Project, error) {
	if !constants.ValidProjectStatus(in.Status) {
		return nil, ErrInvalidStatus
	}
	if !constants.ValidPriority(in.Priority) {
		return nil, ErrInvalidPriority
	}

	var project *models.Project
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		project, err = findProject(tx, id)
		if err != nil {
			return err
		}
		if !canManageProject(actor, project) {
			return ErrUnauthorized
		}

		before := project.ActivitySnapshot()
		project.Name = in.Name
		project.Description = in.Description
		project.Status = in.Status
		project.Priority = in.Priority
		project.StartDate = in.StartDate
		project.EndDate = in.EndDate
		project.Budget = in.Budget

		if err := tx.Save(project).Error; err != nil {
			return err
		}
		s.Activity.Updated(tx, &actor.ID, before, project)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Delete(actor *models.User, id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		project, err := findProject(tx, id)
		if err != nil {
			return err
		}
		if !canManageProject(actor, project) {
			return ErrUnauthorized
		}
		if err := tx.Delete(project).Error; err != nil {
			return err
		}
		s.Activity.Deleted(tx, &actor.ID, project)
		return nil
	})
}

func (s *ProjectService) AddMember(actor *models.User, projectID, userID uint, role string) error {
	if role == "" {
		role = constants.ProjectRoleMember
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		project, err := findProject(tx, projectID)
		if err != nil {
			return err
		}
		if !canManageProject(actor, project) {
			return ErrUnauthorized
		}
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		member := models.ProjectMember{ProjectID: projectID, UserID: userID, Role: role}
		return tx.Where(models.ProjectMember{ProjectID: projectID, UserID: userID}).
			FirstOrCreate(&member).Error
	})
}

func (s *ProjectService) RemoveMember(actor *models.User, projectID, userID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		project, err := findProject(tx, projectID)
		if err != nil {
			return err
		}
		if !canManageProject(actor, project) {
			return ErrUnauthorized
		}
		return tx.Where("project_id = ? AND user_id = ?", projectID, userID).
			Delete(&models.ProjectMember{}).Error
	})
}

// ToggleStar flips the actor's own starred flag on a project they belong to.
func (s *ProjectService) ToggleStar(actor *models.User, projectID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var member models.ProjectMember
		err := tx.Where("project_id = ? AND user_id = ?", projectID, actor.ID).
			First(&member).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return tx.Model(&member).Update("is_starred", !member.IsStarred).Error
	})
}
