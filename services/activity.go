package services

import (
	"encoding/json"
	"fmt"
	"log"
	"reflect"
	"sort"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/erwinjames/taskmanagement/constants"
	"github.com/erwinjames/taskmanagement/models"
)

// AuditSubject is anything the activity recorder can log about.
type AuditSubject interface {
	ActivityType() string
	ActivityID() uint
	ActivityIdentifier() string
	ActivitySnapshot() map[string]any
}

// ActivityRecorder writes immutable audit rows for entity mutations. It is
// called explicitly by the mutation services after each successful write,
// inside the same transaction. A failed audit write is logged and swallowed;
// it never fails the primary mutation.
type ActivityRecorder struct{}

func (r ActivityRecorder) Created(tx *gorm.DB, actorID *uint, subject AuditSubject) {
	desc := fmt.Sprintf("%s '%s' was created", subject.ActivityType(), subject.ActivityIdentifier())
	r.record(tx, actorID, constants.ActivityCreated, subject, desc, nil)
}

// Updated diffs the snapshot taken before the write against the subject's
// current state. A no-op update records nothing.
func (r ActivityRecorder) Updated(tx *gorm.DB, actorID *uint, before map[string]any, subject AuditSubject) {
	after := subject.ActivitySnapshot()

	var fields []string
	for k, v := range after {
		if !reflect.DeepEqual(before[k], v) {
			fields = append(fields, k)
		}
	}
	if len(fields) == 0 {
		return
	}
	sort.Strings(fields)

	oldVals := make(map[string]any, len(fields))
	newVals := make(map[string]any, len(fields))
	for _, k := range fields {
		oldVals[k] = before[k]
		newVals[k] = after[k]
	}

	props, err := json.Marshal(map[string]any{"old": oldVals, "new": newVals})
	if err != nil {
		log.Printf("activity: marshal properties for %s #%d: %v", subject.ActivityType(), subject.ActivityID(), err)
		props = nil
	}

	desc := fmt.Sprintf("%s '%s' was updated (%s)",
		subject.ActivityType(), subject.ActivityIdentifier(), strings.Join(fields, ", "))
	r.record(tx, actorID, constants.ActivityUpdated, subject, desc, props)
}

func (r ActivityRecorder) Deleted(tx *gorm.DB, actorID *uint, subject AuditSubject) {
	desc := fmt.Sprintf("%s '%s' was deleted", subject.ActivityType(), subject.ActivityIdentifier())
	r.record(tx, actorID, constants.ActivityDeleted, subject, desc, nil)
}

func (ActivityRecorder) record(tx *gorm.DB, actorID *uint, action string, subject AuditSubject, desc string, props datatypes.JSON) {
	activity := models.Activity{
		UserID:      actorID,
		Action:      action,
		SubjectType: subject.ActivityType(),
		SubjectID:   subject.ActivityID(),
		Description: desc,
		Properties:  props,
	}
	if err := tx.Create(&activity).Error; err != nil {
		log.Printf("activity: record %s on %s #%d: %v", action, subject.ActivityType(), subject.ActivityID(), err)
	}
}

const activityPageSize = 50

type ActivityPage struct {
	Items   []models.Activity `json:"items"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
	Total   int64             `json:"total"`
}

// ActivityService is the read side of the audit log.
type ActivityService struct {
	DB *gorm.DB
}

func (s *ActivityService) List(page int) (*ActivityPage, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := s.DB.Model(&models.Activity{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.Activity
	err := s.DB.Preload("User").
		Order("created_at DESC, id DESC").
		Limit(activityPageSize).
		Offset((page - 1) * activityPageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &ActivityPage{Items: items, Page: page, PerPage: activityPageSize, Total: total}, nil
}
