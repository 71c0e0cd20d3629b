package container

import (
	app "mcq-grader/internal/application"
	"mcq-grader/internal/domain/entity"
	"mcq-grader/internal/domain/port"
)

type Container struct {
	UserService    *app.UserService
	GradingService *app.GradingService
}

func New(
	userRepo port.UserRepository,
	classifier port.RegionClassifier,
	loader port.ImageLoader,
	annotator port.SheetAnnotator,
	store port.ResultStore,
	layout entity.SheetLayout,
) *Container {
	userService := app.NewUserService(userRepo)
	gradingService := app.NewGradingService(userService, classifier, loader, annotator, store, layout)

	return &Container{
		UserService:    userService,
		GradingService: gradingService,
	}
}
