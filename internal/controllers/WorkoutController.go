package controllers

import (
	"net/http"
	"vivafit/internal/models"
	"vivafit/internal/providers"
	"vivafit/internal/workout"
)

type WorkoutController struct {
	logger  providers.Logger
	manager workout.ManagerInterface
}

type startWorkoutRequest struct {
	ExerciseID any `json:"exerciseId"`
}

type finishResponse struct {
	Record   *models.FinalizationRecord `json:"record,omitempty"`
	Snapshot models.WorkoutSnapshot     `json:"snapshot"`
}

func NewWorkoutController(logger providers.Logger, manager workout.ManagerInterface) *WorkoutController {
	return &WorkoutController{
		logger:  logger,
		manager: manager,
	}
}

// Start replaces the current session. The exercise id may be a string or a number.
func (wc *WorkoutController) Start(w http.ResponseWriter, r *http.Request) {
	var payload startWorkoutRequest
	if err := decodeBody(w, r, &payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	session, err := wc.manager.Start(r.Context(), models.NormalizeExerciseID(payload.ExerciseID))
	if err != nil {
		writeWorkoutError(w, wc.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, session.Snapshot())
}

func (wc *WorkoutController) Get(w http.ResponseWriter, r *http.Request) {
	session, err := wc.manager.Current()
	if err != nil {
		writeWorkoutError(w, wc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (wc *WorkoutController) Toggle(w http.ResponseWriter, r *http.Request) {
	session, err := wc.manager.Current()
	if err != nil {
		writeWorkoutError(w, wc.logger, err)
		return
	}
	snap, err := session.TogglePlayPause()
	if err != nil {
		writeWorkoutError(w, wc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (wc *WorkoutController) Skip(w http.ResponseWriter, r *http.Request) {
	session, err := wc.manager.Current()
	if err != nil {
		writeWorkoutError(w, wc.logger, err)
		return
	}
	snap, record, err := session.SkipToNext(r.Context())
	if err != nil {
		writeWorkoutError(w, wc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, finishResponse{Record: record, Snapshot: snap})
}

func (wc *WorkoutController) Reset(w http.ResponseWriter, r *http.Request) {
	session, err := wc.manager.Current()
	if err != nil {
		writeWorkoutError(w, wc.logger, err)
		return
	}
	snap, err := session.Reset()
	if err != nil {
		writeWorkoutError(w, wc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (wc *WorkoutController) Finish(w http.ResponseWriter, r *http.Request) {
	session, err := wc.manager.Current()
	if err != nil {
		writeWorkoutError(w, wc.logger, err)
		return
	}
	record, err := session.Finish(r.Context())
	if err != nil {
		writeWorkoutError(w, wc.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, finishResponse{Record: record, Snapshot: session.Snapshot()})
}
