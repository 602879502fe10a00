//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"vivafit/internal"
	"vivafit/internal/catalog"
	"vivafit/internal/controllers"
	"vivafit/internal/persistence"
	"vivafit/internal/providers"
	"vivafit/internal/remote"
	"vivafit/internal/services"
	"vivafit/internal/structures"
	"vivafit/internal/workout"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogRing,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		persistence.NewZstdCompressor,
		persistence.NewKeyValueStore,
		persistence.AsKeyValueStore,
		persistence.NewBlobStorage,
		persistence.NewScheduler,

		catalog.NewCatalog,
		remote.NewExerciseAPIClient,
		remote.NewMirrorStore,
		remote.NewKVSessionProvider,

		services.NewExerciseCacheService,
		services.NewExerciseDetailService,
		services.NewProfileService,
		services.NewHistoryService,
		services.NewPlanService,
		services.NewSettingsService,
		services.NewDebugLogService,
		services.AsFlushParticipant,

		workout.NewFinalizer,
		workout.NewManager,

		controllers.NewExerciseController,
		controllers.NewWorkoutController,
		controllers.NewHistoryController,
		controllers.NewSettingsController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
