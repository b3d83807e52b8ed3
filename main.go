package main

import (
	"log"
	"os"

	"github.com/erwinjames/taskmanagement/config"
	"github.com/erwinjames/taskmanagement/models"
	"github.com/erwinjames/taskmanagement/routes"
)

func main() {
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.TaskDependency{},
		&models.Activity{},
		&models.TeamInvitation{},
		&models.AdminAssignmentRequest{},
	)
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}

	r := routes.SetupRouter(db)
	if err := r.Run(cfg.Server.Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
