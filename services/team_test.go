package services

import (
	"testing"

	"github.com/erwinjames/taskmanagement/constants"
	"github.com/erwinjames/taskmanagement/models"
)

func memberNames(members []models.User) map[string]bool {
	names := make(map[string]bool, len(members))
	for _, m := range members {
		names[m.Name] = true
	}
	return names
}

func TestVisibleTeamForAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := &TeamService{DB: db}

	admin := seedUser(t, db, "Ada Admin", constants.RoleAdmin, nil)
	m1 := seedUser(t, db, "Mia", constants.RoleMember, &admin.ID)
	_ = seedUser(t, db, "Milo", constants.RoleMember, &admin.ID)
	otherAdmin := seedUser(t, db, "Oz Admin", constants.RoleAdmin, nil)
	_ = seedUser(t, db, "Outsider", constants.RoleMember, &otherAdmin.ID)
	_ = m1

	members, err := svc.VisibleTeam(admin, TeamFilter{})
	if err != nil {
		t.Fatalf("visible team: %v", err)
	}
	names := memberNames(members)
	if len(members) != 3 {
		t.Errorf("visible = %d users, want 3 (self + 2 members)", len(members))
	}
	for _, want := range []string{"Ada Admin", "Mia", "Milo"} {
		if !names[want] {
			t.Errorf("%s missing from admin's team view", want)
		}
	}
	if names["Outsider"] || names["Oz Admin"] {
		t.Error("users outside the hierarchy are visible")
	}
}

func TestVisibleTeamForMember(t *testing.T) {
	db := newTestDB(t)
	svc := &TeamService{DB: db}

	admin := seedUser(t, db, "Ada Admin", constants.RoleAdmin, nil)
	mia := seedUser(t, db, "Mia", constants.RoleMember, &admin.ID)
	_ = seedUser(t, db, "Milo", constants.RoleMember, &admin.ID)
	_ = seedUser(t, db, "Loner", constants.RoleMember, nil)

	members, err := svc.VisibleTeam(mia, TeamFilter{})
	if err != nil {
		t.Fatalf("visible team: %v", err)
	}
	names := memberNames(members)
	if len(members) != 3 {
		t.Errorf("visible = %d users, want 3 (teammates + admin)", len(members))
	}
	for _, want := range []string{"Mia", "Milo", "Ada Admin"} {
		if !names[want] {
			t.Errorf("%s missing from member's team view", want)
		}
	}
	if names["Loner"] {
		t.Error("unrelated user visible to member")
	}
}

func TestVisibleTeamForUnassignedMember(t *testing.T) {
	db := newTestDB(t)
	svc := &TeamService{DB: db}

	loner := seedUser(t, db, "Loner", constants.RoleMember, nil)
	_ = seedUser(t, db, "Somebody", constants.RoleMember, nil)

	members, err := svc.VisibleTeam(loner, TeamFilter{})
	if err != nil {
		t.Fatalf("visible team: %v", err)
	}
	if len(members) != 1 || members[0].ID != loner.ID {
		t.Errorf("unassigned member sees %d users, want only self", len(members))
	}
}

func TestVisibleTeamFilters(t *testing.T) {
	db := newTestDB(t)
	svc := &TeamService{DB: db}

	admin := seedUser(t, db, "Ada Admin", constants.RoleAdmin, nil)
	eng := seedUser(t, db, "Mia", constants.RoleMember, &admin.ID)
	eng.Department = "engineering"
	if err := db.Save(eng).Error; err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = seedUser(t, db, "Milo", constants.RoleMember, &admin.ID)

	members, err := svc.VisibleTeam(admin, TeamFilter{Department: "engineering"})
	if err != nil {
		t.Fatalf("visible team: %v", err)
	}
	if len(members) != 1 || members[0].Name != "Mia" {
		t.Errorf("department filter returned %d users", len(members))
	}

	members, err = svc.VisibleTeam(admin, TeamFilter{Search: "milo"})
	if err != nil {
		t.Fatalf("visible team: %v", err)
	}
	if len(members) != 1 || members[0].Name != "Milo" {
		t.Errorf("search filter returned %d users", len(members))
	}
}

func TestVisibleTasksAdminExcludesOwn(t *testing.T) {
	db := newTestDB(t)
	svc := &TeamService{DB: db}

	admin := seedUser(t, db, "Ada Admin", constants.RoleAdmin, nil)
	member := seedUser(t, db, "Mia", constants.RoleMember, &admin.ID)

	_ = seedTask(t, db, admin, "Admin's own", constants.TaskStatusPending)
	assigned := seedTask(t, db, member, "Assigned out", constants.TaskStatusPending)

	tasks, err := svc.VisibleTasks(admin)
	if err != nil {
		t.Fatalf("visible tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != assigned.ID {
		t.Errorf("admin dashboard shows %d tasks, want only tasks assigned to others", len(tasks))
	}
}

func TestVisibleTasksMemberSeesOwnOnly(t *testing.T) {
	db := newTestDB(t)
	svc := &TeamService{DB: db}

	admin := seedUser(t, db, "Ada Admin", constants.RoleAdmin, nil)
	member := seedUser(t, db, "Mia", constants.RoleMember, &admin.ID)
	other := seedUser(t, db, "Milo", constants.RoleMember, &admin.ID)

	mine := seedTask(t, db, member, "Mine", constants.TaskStatusPending)
	_ = seedTask(t, db, other, "Not mine", constants.TaskStatusPending)

	tasks, err := svc.VisibleTasks(member)
	if err != nil {
		t.Fatalf("visible tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != mine.ID {
		t.Errorf("member sees %d tasks, want own only", len(tasks))
	}
}

func TestVisibleTasksHidesSubtaskRows(t *testing.T) {
	db := newTestDB(t)
	svc := &TeamService{DB: db}

	owner := seedUser(t, db, "Alice", constants.RoleMember, nil)
	parent := seedTask(t, db, owner, "Parent", constants.TaskStatusPending)
	_ = seedSubtask(t, db, parent, "Sub", constants.TaskStatusPending)

	tasks, err := svc.VisibleTasks(owner)
	if err != nil {
		t.Fatalf("visible tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("board rows = %d, want 1 (subtasks ride along via preload)", len(tasks))
	}
	if len(tasks[0].Subtasks) != 1 {
		t.Errorf("preloaded subtasks = %d, want 1", len(tasks[0].Subtasks))
	}
}

func TestTaskStatistics(t *testing.T) {
	db := newTestDB(t)
	svc := &TeamService{DB: db}
	owner := seedUser(t, db, "Alice", constants.RoleMember, nil)

	_ = seedTask(t, db, owner, "A", constants.TaskStatusCompleted)
	_ = seedTask(t, db, owner, "B", constants.TaskStatusInProgress)
	_ = seedTask(t, db, owner, "C", constants.TaskStatusPending)
	_ = seedTask(t, db, owner, "D", constants.TaskStatusPending)

	stats, err := svc.TaskStatistics(owner.ID)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.Total != 4 || stats.Completed != 1 || stats.InProgress != 1 || stats.Pending != 2 {
		t.Errorf("stats = %+v", stats)
	}
}
