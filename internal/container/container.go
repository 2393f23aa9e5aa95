package container

import (
	app "quality-bot/internal/application"
	"quality-bot/internal/domain/port"
)

type Container struct {
	UserService       *app.UserService
	InspectionService *app.InspectionService
}

func New(userRepo port.UserRepository, log port.InspectionLog, molding, packaging port.DefectDetector) *Container {
	userService := app.NewUserService(userRepo)
	inspectionService := app.NewInspectionService(log)
	inspectionService.RegisterDetector(app.ProcessMolding, molding)
	inspectionService.RegisterDetector(app.ProcessPackaging, packaging)

	return &Container{
		UserService:       userService,
		InspectionService: inspectionService,
	}
}
