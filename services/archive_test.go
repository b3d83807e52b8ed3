package services

import (
	"testing"

	"github.com/erwinjames/taskmanagement/constants"
	"github.com/erwinjames/taskmanagement/models"
)

func TestArchiveListsDeletedTasks(t *testing.T) {
	db := newTestDB(t)
	tasks, _ := newTaskService(db)
	archive := &ArchiveService{DB: db}
	owner := seedUser(t, db, "Alice", constants.RoleMember, nil)

	kept := seedTask(t, db, owner, "Kept", constants.TaskStatusPending)
	gone := seedTask(t, db, owner, "Gone", constants.TaskStatusPending)
	if err := tasks.Delete(owner, gone.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	archived, total, err := archive.Tasks(ArchiveFilter{})
	if err != nil {
		t.Fatalf("archive list: %v", err)
	}
	if total != 1 || len(archived) != 1 || archived[0].ID != gone.ID {
		t.Fatalf("archived = %d rows (total %d)", len(archived), total)
	}
	_ = kept
}

func TestRestoreTaskBringsBackSubtasks(t *testing.T) {
	db := newTestDB(t)
	tasks, _ := newTaskService(db)
	archive := &ArchiveService{DB: db}
	owner := seedUser(t, db, "Alice", constants.RoleMember, nil)

	parent := seedTask(t, db, owner, "Parent", constants.TaskStatusPending)
	sub := seedSubtask(t, db, parent, "Sub", constants.TaskStatusPending)
	if err := tasks.Delete(owner, parent.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if err := archive.RestoreTasks(owner, []uint{parent.ID}); err != nil {
		t.Fatalf("restore: %v", err)
	}

	for _, id := range []uint{parent.ID, sub.ID} {
		var task models.Task
		if err := db.First(&task, id).Error; err != nil {
			t.Errorf("task %d not restored: %v", id, err)
		}
	}
}

func TestRestoreTasksLimitedToOwn(t *testing.T) {
	db := newTestDB(t)
	tasks, _ := newTaskService(db)
	archive := &ArchiveService{DB: db}

	owner := seedUser(t, db, "Alice", constants.RoleMember, nil)
	other := seedUser(t, db, "Bob", constants.RoleMember, nil)

	theirs := seedTask(t, db, owner, "Theirs", constants.TaskStatusPending)
	if err := tasks.Delete(owner, theirs.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// Restoring someone else's task silently matches nothing.
	if err := archive.RestoreTasks(other, []uint{theirs.ID}); err != nil {
		t.Fatalf("restore: %v", err)
	}
	var task models.Task
	if err := db.First(&task, theirs.ID).Error; err == nil {
		t.Error("foreign task was restored")
	}

	if err := archive.RestoreTasks(owner, []uint{theirs.ID}); err != nil {
		t.Fatalf("restore as owner: %v", err)
	}
	if err := db.First(&task, theirs.ID).Error; err != nil {
		t.Errorf("own task not restored: %v", err)
	}
}
