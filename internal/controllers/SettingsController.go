package controllers

import (
	"errors"
	"net/http"
	"vivafit/internal/providers"
	"vivafit/internal/services"
)

type SettingsController struct {
	logger   providers.Logger
	plans    services.PlanServiceInterface
	settings services.SettingsServiceInterface
	logs     services.DebugLogServiceInterface
}

type subscribeRequest struct {
	PlanID string `json:"planId"`
}

type preferencesRequest struct {
	Notifications *bool   `json:"notifications"`
	FontSize      *string `json:"fontSize"`
}

type onboardingResponse struct {
	Onboarded bool `json:"onboarded"`
}

func NewSettingsController(logger providers.Logger, plans services.PlanServiceInterface, settings services.SettingsServiceInterface, logs services.DebugLogServiceInterface) *SettingsController {
	return &SettingsController{
		logger:   logger,
		plans:    plans,
		settings: settings,
		logs:     logs,
	}
}

func (sc *SettingsController) Plans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sc.plans.Plans())
}

// Subscription answers null when no plan is subscribed.
func (sc *SettingsController) Subscription(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sc.plans.Current(r.Context()))
}

func (sc *SettingsController) Subscribe(w http.ResponseWriter, r *http.Request) {
	var payload subscribeRequest
	if err := decodeBody(w, r, &payload); err != nil || payload.PlanID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	plan, err := sc.plans.Subscribe(r.Context(), payload.PlanID)
	if err != nil {
		if errors.Is(err, services.ErrUnknownPlan) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		sc.logger.Errorf(providers.TypePost, "Cannot subscribe: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (sc *SettingsController) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	if err := sc.plans.Cancel(r.Context()); err != nil {
		sc.logger.Errorf(providers.TypePost, "Cannot cancel subscription: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (sc *SettingsController) GetPreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sc.settings.Preferences(r.Context()))
}

// PutPreferences merges the given fields over the current preferences.
func (sc *SettingsController) PutPreferences(w http.ResponseWriter, r *http.Request) {
	var payload preferencesRequest
	if err := decodeBody(w, r, &payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	prefs := sc.settings.Preferences(r.Context())
	if payload.Notifications != nil {
		prefs.Notifications = *payload.Notifications
	}
	if payload.FontSize != nil {
		prefs.FontSize = *payload.FontSize
	}

	if err := sc.settings.SavePreferences(r.Context(), prefs); err != nil {
		if errors.Is(err, services.ErrInvalidPreferences) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		sc.logger.Errorf(providers.TypePost, "Cannot save preferences: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (sc *SettingsController) Onboarding(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, onboardingResponse{Onboarded: sc.settings.Onboarded(r.Context())})
}

func (sc *SettingsController) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	if err := sc.settings.CompleteOnboarding(r.Context()); err != nil {
		sc.logger.Errorf(providers.TypePost, "Cannot save onboarding: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, onboardingResponse{Onboarded: true})
}

func (sc *SettingsController) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := sc.settings.SignOut(r.Context()); err != nil {
		sc.logger.Errorf(providers.TypePost, "Sign out incomplete: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (sc *SettingsController) Logs(w http.ResponseWriter, r *http.Request) {
	entries := sc.logs.Logs(r.URL.Query().Get("level"))
	if entries == nil {
		entries = []providers.RingEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (sc *SettingsController) ExportLogs(w http.ResponseWriter, r *http.Request) {
	out, err := sc.logs.Export()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="vivafit-logs.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (sc *SettingsController) ClearLogs(w http.ResponseWriter, r *http.Request) {
	if err := sc.logs.Clear(r.Context()); err != nil {
		sc.logger.Errorf(providers.TypePost, "Cannot clear logs: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

