package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Simplici0/sellercalc/internal/pricing"
	"github.com/Simplici0/sellercalc/internal/store"
)

type server struct {
	auth   *authService
	store  *store.Store
	logger zerolog.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

type loginState struct {
	Enabled       bool `json:"enabled"`
	Authenticated bool `json:"authenticated"`
}

type loginRequest struct {
	Password string `json:"password"`
}

func (s *server) routes(r chi.Router) {
	r.Use(s.authMiddleware)
	r.Get("/healthz", s.handleHealth)
	r.Get("/login", s.handleLoginState)
	r.Post("/login", s.handleLoginSubmit)
	r.Post("/logout", s.handleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Get("/defaults", s.handleDefaults)
		r.Post("/compute", s.handleCompute)
		r.Get("/calculations", s.handleCalculationsList)
		r.Post("/calculations", s.handleCalculationsCreate)
		r.Get("/calculations/{id}", s.handleCalculationGet)
		r.Get("/calculations/{id}/text", s.handleCalculationText)
		r.Delete("/calculations/{id}", s.handleCalculationDelete)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleLoginState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, loginState{
		Enabled:       s.auth.enabled(),
		Authenticated: s.auth.isAuthenticated(r),
	})
}

func (s *server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form")
			return
		}
		req.Password = r.FormValue("password")
	}

	if !s.auth.validatePassword(req.Password) {
		s.logger.Warn().Str("remote", r.RemoteAddr).Msg("rejected login")
		writeError(w, http.StatusUnauthorized, "Password salah. Silakan coba lagi.")
		return
	}

	s.auth.setSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, pricing.DefaultInput())
}

func (s *server) handleCompute(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, pricing.Compute(in))
}

func (s *server) handleCalculationsList(w http.ResponseWriter, r *http.Request) {
	calculations, err := s.store.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.logger.Error().Err(err).Msg("list calculations")
		writeError(w, http.StatusInternalServerError, "failed to load calculations")
		return
	}

	s.writeJSON(w, http.StatusOK, calculations)
}

func (s *server) handleCalculationsCreate(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.ProductName = strings.TrimSpace(in.ProductName)
	if in.ProductName == "" {
		writeError(w, http.StatusBadRequest, "productName wajib diisi")
		return
	}

	calculation, err := s.store.Create(r.Context(), in, pricing.Compute(in))
	if err != nil {
		s.logger.Error().Err(err).Str("product", in.ProductName).Msg("save calculation")
		writeError(w, http.StatusInternalServerError, "failed to save calculation")
		return
	}

	s.logger.Info().Int64("id", calculation.ID).Str("product", calculation.ProductName).Msg("calculation saved")
	s.writeJSON(w, http.StatusCreated, calculation)
}

func (s *server) handleCalculationGet(w http.ResponseWriter, r *http.Request) {
	calculation, ok := s.loadCalculation(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, calculation)
}

func (s *server) handleCalculationText(w http.ResponseWriter, r *http.Request) {
	calculation, ok := s.loadCalculation(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(buildCalculationText(calculation)))
}

func (s *server) handleCalculationDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	err := s.store.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("id", id).Msg("delete calculation")
		writeError(w, http.StatusInternalServerError, "failed to delete calculation")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *server) loadCalculation(w http.ResponseWriter, r *http.Request) (store.Calculation, bool) {
	id, ok := parseID(w, r)
	if !ok {
		return store.Calculation{}, false
	}

	calculation, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return store.Calculation{}, false
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("id", id).Msg("load calculation")
		writeError(w, http.StatusInternalServerError, "failed to load calculation")
		return store.Calculation{}, false
	}

	return calculation, true
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid calculation id")
		return 0, false
	}
	return id, true
}

func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" || r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		if !s.auth.isAuthenticated(r) {
			writeError(w, http.StatusUnauthorized, "login required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v before touching the response so an unencodable value,
// such as a non-finite amount from extreme inputs, still gets a proper error.
func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := encodeJSON(v)
	if err != nil {
		s.logger.Error().Err(err).Msg("encode response")
		writeError(w, http.StatusUnprocessableEntity, "result contains values that cannot be represented; check the input ranges")
		return
	}
	writeBody(w, status, body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	body, _ := encodeJSON(errorResponse{Error: msg})
	writeBody(w, status, body)
}

func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
