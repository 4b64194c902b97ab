package cardsvc

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/alovak/testcard-playground/cardsvc/models"
	"github.com/alovak/testcard-playground/internal/cardgen"
	"github.com/go-chi/chi/v5"
)

// API is a HTTP API for the card generator service
type API struct {
	svc *Service
}

func NewAPI(svc *Service) *API {
	return &API{
		svc: svc,
	}
}

func (a *API) AppendRoutes(r chi.Router) {
	r.Post("/cards", a.generateCards)
	r.Get("/brands/{number}", a.getBrand)
}

// generateCards handles POST /cards?count=N&bin=PREFIX&secure=true
func (a *API) generateCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := models.GenerateRequest{Count: 1, BIN: q.Get("bin")}

	if v := q.Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "count must be a number", http.StatusBadRequest)
			return
		}
		req.Count = n
	}
	if v := q.Get("secure"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "secure must be a boolean", http.StatusBadRequest)
			return
		}
		req.Secure = b
	}

	batch, err := a.svc.Generate(req)
	if err != nil {
		if errors.Is(err, cardgen.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(batch)
}

func (a *API) getBrand(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(a.svc.Classify(number))
}
