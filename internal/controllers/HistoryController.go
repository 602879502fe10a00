package controllers

import (
	"errors"
	"net/http"
	"vivafit/internal/providers"
	"vivafit/internal/services"
)

type HistoryController struct {
	logger  providers.Logger
	history services.HistoryServiceInterface
	profile services.ProfileServiceInterface
}

type profileRequest struct {
	ActivityLevel *int `json:"activityLevel"`
}

func NewHistoryController(logger providers.Logger, history services.HistoryServiceInterface, profile services.ProfileServiceInterface) *HistoryController {
	return &HistoryController{
		logger:  logger,
		history: history,
		profile: profile,
	}
}

func (hc *HistoryController) History(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, hc.history.List(r.Context()))
}

func (hc *HistoryController) Achievements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, hc.history.Achievements(r.Context()))
}

func (hc *HistoryController) Progress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, hc.history.Progress(r.Context()))
}

func (hc *HistoryController) GetProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, hc.profile.Profile(r.Context()))
}

func (hc *HistoryController) PutProfile(w http.ResponseWriter, r *http.Request) {
	var payload profileRequest
	if err := decodeBody(w, r, &payload); err != nil || payload.ActivityLevel == nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := hc.profile.SetActivityLevel(r.Context(), *payload.ActivityLevel); err != nil {
		if errors.Is(err, services.ErrInvalidActivityLevel) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		hc.logger.Errorf(providers.TypePost, "Cannot save profile: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, hc.profile.Profile(r.Context()))
}
