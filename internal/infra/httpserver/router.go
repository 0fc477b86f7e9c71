package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/serplab/rankforensics/internal/application/analysis"
	appchat "github.com/serplab/rankforensics/internal/application/chat"
	domain "github.com/serplab/rankforensics/internal/domain/analysis"
	"github.com/serplab/rankforensics/internal/domain/audit"
	"github.com/serplab/rankforensics/internal/middleware"
)

// Deps carries everything the router needs. APIKeys maps user id to key;
// Limiter may be nil to disable admission control (tests).
type Deps struct {
	Analysis *appanalysis.Service
	Chat     *appchat.Service
	APIKeys  map[string]string
	Limiter  *middleware.FixedWindowLimiter
	Health   map[string]middleware.HealthChecker
}

type Router struct {
	analysisSvc *appanalysis.Service
	chatSvc     *appchat.Service
}

func NewRouter(deps Deps) http.Handler {
	r := &Router{analysisSvc: deps.Analysis, chatSvc: deps.Chat}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Forensics-Warnings", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/health", middleware.HealthHandler(deps.Health))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(rt chi.Router) {
		if deps.APIKeys != nil {
			rt.Use(middleware.APIKeyAuth(deps.APIKeys))
		}
		if deps.Limiter != nil {
			rt.Use(middleware.RateLimitMiddleware(deps.Limiter))
		}
		rt.Post("/analyze-ticket", r.wrap(r.handleAnalyzeTicket))
		rt.Post("/chat", r.wrap(r.handleChat))
		rt.Get("/analyses", r.wrap(r.handleListAnalyses))
		rt.Get("/analyses/{id}", r.wrap(r.handleGetAnalysis))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap maps pipeline errors onto HTTP statuses: validation failures are the
// client's fault, a failed model call is ours, everything else in the
// pipeline has already degraded to warnings before reaching here.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": vErr.Error()})
			return
		}
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		if errors.Is(err, domain.ErrQuotaExceeded) {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "model quota exceeded"})
			return
		}

		var mErr *domain.ModelError
		if errors.As(err, &mErr) {
			middleware.IncrementModelFailures()
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error":   "analysis failed",
				"details": mErr.Error(),
			})
			return
		}

		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "internal error",
			"details": err.Error(),
		})
	}
}

// POST /v1/analyze-ticket
func (r *Router) handleAnalyzeTicket(w http.ResponseWriter, req *http.Request) error {
	var body domain.Request
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &domain.ValidationError{Field: "body", Reason: "must be valid JSON: " + err.Error()}
	}
	body.TicketBody = middleware.SanitizeString(body.TicketBody)
	body.TargetDomain = strings.TrimSpace(body.TargetDomain)
	if err := body.Validate(); err != nil {
		return err
	}
	if err := middleware.ValidateTargetDomain(body.TargetDomain); err != nil {
		return &domain.ValidationError{Field: "targetDomain", Reason: err.Error()}
	}

	user := middleware.GetUserFromContext(req.Context())
	resp, err := r.analysisSvc.Analyze(req.Context(), user, body)
	if err != nil {
		return err
	}

	middleware.IncrementAnalyses()
	for _, warn := range resp.Warnings {
		if strings.HasPrefix(warn, "response parse failure") {
			middleware.IncrementFallbacks()
			break
		}
	}

	return writeJSON(w, http.StatusOK, resp)
}

// POST /v1/chat — chunked plain-text token stream; warnings ride in the
// X-Forensics-Warnings header as a JSON array.
func (r *Router) handleChat(w http.ResponseWriter, req *http.Request) error {
	var body appchat.Request
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &domain.ValidationError{Field: "body", Reason: "must be valid JSON: " + err.Error()}
	}
	if err := middleware.ValidateClientID(body.ClientID); err != nil {
		return &domain.ValidationError{Field: "clientId", Reason: err.Error()}
	}

	prepared, err := r.chatSvc.Prepare(req.Context(), body)
	if err != nil {
		return err
	}

	warnJSON, err := json.Marshal(prepared.Warnings)
	if err != nil {
		warnJSON = []byte("[]")
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Forensics-Warnings", string(warnJSON))

	flusher, _ := w.(http.Flusher)
	wroteAny := false
	streamErr := r.chatSvc.Stream(req.Context(), prepared, func(token string) error {
		if _, werr := w.Write([]byte(token)); werr != nil {
			return werr
		}
		wroteAny = true
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	if streamErr != nil {
		if !wroteAny {
			return streamErr
		}
		// Headers already on the wire; all we can do is cut the stream.
		log.Printf("chat stream aborted mid-response: %v", streamErr)
	}
	return nil
}

// GET /v1/analyses?page=&page_size=
func (r *Router) handleListAnalyses(w http.ResponseWriter, req *http.Request) error {
	user := middleware.GetUserFromContext(req.Context())
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))
	size = middleware.ValidatePageSize(size)

	list, err := r.analysisSvc.ListRecords(req.Context(), user, page, size)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*audit.Record{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/analyses/{id}
func (r *Router) handleGetAnalysis(w http.ResponseWriter, req *http.Request) error {
	user := middleware.GetUserFromContext(req.Context())
	id := chi.URLParam(req, "id")

	rec, err := r.analysisSvc.GetRecord(req.Context(), user, audit.RecordID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
