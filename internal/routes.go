package internal

import (
	"net/http"
	"vivafit/internal/controllers"
	"vivafit/internal/providers"
)

func InitRoutes(exerciseController *controllers.ExerciseController, workoutController *controllers.WorkoutController, historyController *controllers.HistoryController, settingsController *controllers.SettingsController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/exercises", http.HandlerFunc(exerciseController.List))
	routers.Get("/exercises/{id}", http.HandlerFunc(exerciseController.Get))
	routers.Get("/categories", http.HandlerFunc(exerciseController.Categories))
	routers.Get("/tips", http.HandlerFunc(exerciseController.Tips))
	routers.Get("/remote-exercises/{id}", http.HandlerFunc(exerciseController.Remote))
	routers.Delete("/remote-exercises/cache", http.HandlerFunc(exerciseController.ClearRemoteCache))

	routers.Post("/workout", http.HandlerFunc(workoutController.Start))
	routers.Get("/workout", http.HandlerFunc(workoutController.Get))
	routers.Post("/workout/toggle", http.HandlerFunc(workoutController.Toggle))
	routers.Post("/workout/skip", http.HandlerFunc(workoutController.Skip))
	routers.Post("/workout/reset", http.HandlerFunc(workoutController.Reset))
	routers.Post("/workout/finish", http.HandlerFunc(workoutController.Finish))

	routers.Get("/history", http.HandlerFunc(historyController.History))
	routers.Get("/achievements", http.HandlerFunc(historyController.Achievements))
	routers.Get("/progress", http.HandlerFunc(historyController.Progress))
	routers.Get("/profile", http.HandlerFunc(historyController.GetProfile))
	routers.Put("/profile", http.HandlerFunc(historyController.PutProfile))

	routers.Get("/plans", http.HandlerFunc(settingsController.Plans))
	routers.Get("/plans/subscription", http.HandlerFunc(settingsController.Subscription))
	routers.Put("/plans/subscription", http.HandlerFunc(settingsController.Subscribe))
	routers.Delete("/plans/subscription", http.HandlerFunc(settingsController.CancelSubscription))
	routers.Get("/preferences", http.HandlerFunc(settingsController.GetPreferences))
	routers.Put("/preferences", http.HandlerFunc(settingsController.PutPreferences))
	routers.Get("/onboarding", http.HandlerFunc(settingsController.Onboarding))
	routers.Post("/onboarding", http.HandlerFunc(settingsController.CompleteOnboarding))
	routers.Post("/signout", http.HandlerFunc(settingsController.SignOut))
	routers.Get("/logs", http.HandlerFunc(settingsController.Logs))
	routers.Get("/logs/export", http.HandlerFunc(settingsController.ExportLogs))
	routers.Delete("/logs", http.HandlerFunc(settingsController.ClearLogs))
	return routers
}
