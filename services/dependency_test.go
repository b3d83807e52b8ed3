package services

import (
	"errors"
	"testing"

	"github.com/erwinjames/taskmanagement/constants"
	"github.com/erwinjames/taskmanagement/models"
)

func TestAddDependencySelfLoop(t *testing.T) {
	db := newTestDB(t)
	_, deps := newTaskService(db)
	owner := seedUser(t, db, "Alice", constants.RoleMember, nil)
	task := seedTask(t, db, owner, "T", constants.TaskStatusPending)

	if err := deps.Add(owner, task.ID, task.ID); !errors.Is(err, ErrInvalidDependency) {
		t.Errorf("err = %v, want ErrInvalidDependency", err)
	}
}

func TestAddDependencyIdempotent(t *testing.T) {
	db := newTestDB(t)
	_, deps := newTaskService(db)
	owner := seedUser(t, db, "Alice", constants.RoleMember, nil)
	a := seedTask(t, db, owner, "A", constants.TaskStatusPending)
	b := seedTask(t, db, owner, "B", constants.TaskStatusPending)

	if err := deps.Add(owner, a.ID, b.ID); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := deps.Add(owner, a.ID, b.ID); err != nil {
		t.Fatalf("second add: %v", err)
	}

	var n int64
	if err := db.Model(&models.TaskDependency{}).Count(&n).Error; err != nil {
		t.Fatalf("count edges: %v", err)
	}
	if n != 1 {
		t.Errorf("edge count = %d, want 1", n)
	}
}

func TestRemoveDependencyIdempotent(t *testing.T) {
	db := newTestDB(t)
	_, deps := newTaskService(db)
	owner := seedUser(t, db, "Alice", constants.RoleMember, nil)
	a := seedTask(t, db, owner, "A", constants.TaskStatusPending)
	b := seedTask(t, db, owner, "B", constants.TaskStatusPending)

	// Removing an edge that was never added is a no-op.
	if err := deps.Remove(owner, a.ID, b.ID); err != nil {
		t.Fatalf("remove absent edge: %v", err)
	}

	if err := deps.Add(owner, a.ID, b.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := deps.Remove(owner, a.ID, b.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := deps.Remove(owner, a.ID, b.ID); err != nil {
		t.Fatalf("remove again: %v", err)
	}
}

func TestAddDependencyMissingTask(t *testing.T) {
	db := newTestDB(t)
	_, deps := newTaskService(db)
	owner := seedUser(t, db, "Alice", constants.RoleMember, nil)
	task := seedTask(t, db, owner, "T", constants.TaskStatusPending)

	if err := deps.Add(owner, task.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing prerequisite: err = %v, want ErrNotFound", err)
	}
	if err := deps.Add(owner, 9999, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing dependent: err = %v, want ErrNotFound", err)
	}
}

func TestAddDependencyUnauthorized(t *testing.T) {
	db := newTestDB(t)
	_, deps := newTaskService(db)
	owner := seedUser(t, db, "Alice", constants.RoleMember, nil)
	intruder := seedUser(t, db, "Bob", constants.RoleMember, nil)
	a := seedTask(t, db, owner, "A", constants.TaskStatusPending)
	b := seedTask(t, db, owner, "B", constants.TaskStatusPending)

	if err := deps.Add(intruder, a.ID, b.ID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestIsBlocked(t *testing.T) {
	db := newTestDB(t)
	svc, deps := newTaskService(db)
	owner := seedUser(t, db, "Alice", constants.RoleMember, nil)

	task := seedTask(t, db, owner, "T", constants.TaskStatusPending)
	done := seedTask(t, db, owner, "Done", constants.TaskStatusCompleted)
	open := seedTask(t, db, owner, "Open", constants.TaskStatusPending)

	if err := deps.Add(owner, task.ID, done.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	blocked, err := deps.IsBlocked(db, task.ID)
	if err != nil {
		t.Fatalf("isBlocked: %v", err)
	}
	if blocked {
		t.Error("completed prerequisite should not block")
	}

	if err := deps.Add(owner, task.ID, open.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	blocked, err = deps.IsBlocked(db, task.ID)
	if err != nil {
		t.Fatalf("isBlocked: %v", err)
	}
	if !blocked {
		t.Error("pending prerequisite should block")
	}

	// A soft-deleted prerequisite no longer blocks.
	if err := svc.Delete(owner, open.ID); err != nil {
		t.Fatalf("delete prereq: %v", err)
	}
	blocked, err = deps.IsBlocked(db, task.ID)
	if err != nil {
		t.Fatalf("isBlocked: %v", err)
	}
	if blocked {
		t.Error("deleted prerequisite should not block")
	}
}

func TestDeleteTaskCascadesEdges(t *testing.T) {
	db := newTestDB(t)
	svc, deps := newTaskService(db)
	owner := seedUser(t, db, "Alice", constants.RoleMember, nil)

	a := seedTask(t, db, owner, "A", constants.TaskStatusPending)
	b := seedTask(t, db, owner, "B", constants.TaskStatusPending)
	c := seedTask(t, db, owner, "C", constants.TaskStatusPending)
	if err := deps.Add(owner, a.ID, b.ID); err != nil {
		t.Fatalf("add a->b: %v", err)
	}
	if err := deps.Add(owner, b.ID, c.ID); err != nil {
		t.Fatalf("add b->c: %v", err)
	}

	if err := svc.Delete(owner, b.ID); err != nil {
		t.Fatalf("delete b: %v", err)
	}

	var n int64
	if err := db.Model(&models.TaskDependency{}).Count(&n).Error; err != nil {
		t.Fatalf("count edges: %v", err)
	}
	if n != 0 {
		t.Errorf("edges after delete = %d, want 0 (cascade both directions)", n)
	}
}

func TestDeleteTaskCascadesSubtaskEdges(t *testing.T) {
	db := newTestDB(t)
	svc, deps := newTaskService(db)
	archive := &ArchiveService{DB: db}
	owner := seedUser(t, db, "Alice", constants.RoleMember, nil)

	parent := seedTask(t, db, owner, "Parent", constants.TaskStatusPending)
	sub := seedSubtask(t, db, parent, "Sub", constants.TaskStatusPending)
	prereq := seedTask(t, db, owner, "Prereq", constants.TaskStatusPending)
	if err := deps.Add(owner, sub.ID, prereq.ID); err != nil {
		t.Fatalf("add sub dependency: %v", err)
	}

	if err := svc.Delete(owner, parent.ID); err != nil {
		t.Fatalf("delete parent: %v", err)
	}

	var n int64
	if err := db.Model(&models.TaskDependency{}).Count(&n).Error; err != nil {
		t.Fatalf("count edges: %v", err)
	}
	if n != 0 {
		t.Errorf("edges after parent delete = %d, want 0 (subtask edges cascade)", n)
	}

	// A restored subtask comes back without its old blocking edges.
	if err := archive.RestoreTasks(owner, []uint{parent.ID}); err != nil {
		t.Fatalf("restore: %v", err)
	}
	blocked, err := deps.IsBlocked(db, sub.ID)
	if err != nil {
		t.Fatalf("isBlocked: %v", err)
	}
	if blocked {
		t.Error("restored subtask still blocked by a pre-deletion edge")
	}
}
