package controllers

import (
	"errors"
	"net/http"
	"vivafit/internal/catalog"
	"vivafit/internal/providers"
	"vivafit/internal/services"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
)

type ExerciseController struct {
	logger  providers.Logger
	catalog catalog.CatalogInterface
	details services.ExerciseDetailServiceInterface
	cache   providers.CacheProviderInterface
}

func NewExerciseController(logger providers.Logger, cat catalog.CatalogInterface, details services.ExerciseDetailServiceInterface, cache providers.CacheProviderInterface) *ExerciseController {
	return &ExerciseController{
		logger:  logger,
		catalog: cat,
		details: details,
		cache:   cache,
	}
}

func (ec *ExerciseController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ec.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ec.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// List serves the local catalog filtered by ?category=, ?q= and ?sort=.
func (ec *ExerciseController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category, query, sortBy := q.Get("category"), q.Get("q"), q.Get("sort")
	ec.serveFromCacheOrCompute(w, "exercises:"+category+":"+query+":"+sortBy, func() (any, error) {
		return ec.catalog.List(category, query, sortBy), nil
	})
}

func (ec *ExerciseController) Categories(w http.ResponseWriter, r *http.Request) {
	ec.serveFromCacheOrCompute(w, "categories", func() (any, error) {
		return ec.catalog.Categories(), nil
	})
}

func (ec *ExerciseController) Get(w http.ResponseWriter, r *http.Request) {
	ex, ok := ec.catalog.Find(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

// Remote serves exercise metadata from the cache, fetching it on a miss.
func (ec *ExerciseController) Remote(w http.ResponseWriter, r *http.Request) {
	detail, err := ec.details.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, services.ErrExerciseUnavailable) {
			http.Error(w, "Exercise unavailable", http.StatusNotFound)
			return
		}
		ec.logger.Errorf(providers.TypeGet, "Remote exercise lookup failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (ec *ExerciseController) ClearRemoteCache(w http.ResponseWriter, r *http.Request) {
	ec.details.ClearCache(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (ec *ExerciseController) Tips(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	ec.serveFromCacheOrCompute(w, "tips:"+category, func() (any, error) {
		return ec.catalog.Tips(category), nil
	})
}
