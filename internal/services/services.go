package services

import (
	"gorm.io/gorm"

	"devforge/internal/repositories"
)

// Services aggregates the database-backed services plus the repositories
// the pipeline wires directly.
type Services struct {
	Projects      ProjectService
	Conversations ConversationService
	Contexts      ContextService
	Settings      AppSettingsService
	Catalog       ModelCatalogService
	Keyring       *KeyringService

	ProjectRepo repositories.ProjectRepository
	PlanRepo    repositories.PlanRepository
	FileRepo    repositories.FileRepository
	CheckRepo   repositories.DeploymentCheckRepository
}

// NewServices constructs the service container using repositories backed by db.
func NewServices(db *gorm.DB) *Services {
	projectRepo := repositories.NewProjectRepository(db)
	turnRepo := repositories.NewConversationRepository(db)
	planRepo := repositories.NewPlanRepository(db)
	fileRepo := repositories.NewFileRepository(db)
	checkRepo := repositories.NewDeploymentCheckRepository(db)
	settingsRepo := repositories.NewAppSettingsRepository(db)
	modelRepo := repositories.NewModelSettingRepository(db)

	return &Services{
		Projects:      NewProjectService(projectRepo),
		Conversations: NewConversationService(projectRepo, turnRepo),
		Contexts:      NewContextService(projectRepo, turnRepo, planRepo),
		Settings:      NewAppSettingsService(settingsRepo),
		Catalog:       NewModelCatalogService(modelRepo),
		Keyring:       NewKeyringService(),

		ProjectRepo: projectRepo,
		PlanRepo:    planRepo,
		FileRepo:    fileRepo,
		CheckRepo:   checkRepo,
	}
}
