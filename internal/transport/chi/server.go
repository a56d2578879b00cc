package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/papyrus/internal/domain"
	domlib "github.com/kailas-cloud/papyrus/internal/domain/library"
	domreview "github.com/kailas-cloud/papyrus/internal/domain/review"
	"github.com/kailas-cloud/papyrus/internal/domain/search/filter"
	"github.com/kailas-cloud/papyrus/internal/domain/search/order"
	logpkg "github.com/kailas-cloud/papyrus/internal/logger"
	assistuc "github.com/kailas-cloud/papyrus/internal/usecase/assist"
	directoryuc "github.com/kailas-cloud/papyrus/internal/usecase/directory"
	healthuc "github.com/kailas-cloud/papyrus/internal/usecase/health"
	reviewuc "github.com/kailas-cloud/papyrus/internal/usecase/review"
	searchuc "github.com/kailas-cloud/papyrus/internal/usecase/search"
	"github.com/kailas-cloud/papyrus/internal/version"
)

// maxReviewPapers bounds the paper list of a single review request.
const maxReviewPapers = 50

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the papyrus REST API.
type Server struct {
	directory     *directoryuc.Service
	search        *searchuc.Service
	reviews       *reviewuc.Service
	assist        *assistuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	directory *directoryuc.Service,
	search *searchuc.Service,
	reviews *reviewuc.Service,
	assist *assistuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		directory: directory,
		search:    search,
		reviews:   reviews,
		assist:    assist,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorCodeRateLimited),
		sentinelHandler(domain.ErrGenerationTimeout, http.StatusGatewayTimeout, ErrorCodeGenerationTimeout),
		sentinelHandler(domain.ErrGenerationFailed, http.StatusBadGateway, ErrorCodeGenerationFailed),
		sentinelHandler(domain.ErrUnavailable, http.StatusServiceUnavailable, ErrorCodeServiceUnavailable),
		sentinelHandler(domain.ErrNotImplemented, http.StatusNotImplemented, ErrorCodeNotImplemented),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/papers", s.ListPapers)
		r.Get("/papers/search", s.SearchPapers)
		r.Get("/papers/{paperID}", s.GetPaper)

		r.Get("/libraries", s.ListLibraries)
		r.Post("/libraries", s.CreateLibrary)
		r.Get("/libraries/{libraryID}", s.GetLibrary)
		r.Patch("/libraries/{libraryID}", s.RenameLibrary)
		r.Get("/libraries/{libraryID}/papers", s.ListLibraryPapers)
		r.Post("/libraries/{libraryID}/papers", s.AddPaperToLibrary)

		r.Get("/reviews", s.ListReviews)
		r.Post("/reviews", s.GenerateReview)
		r.Post("/reviews/prompt", s.GeneratePromptReview)
		r.Get("/reviews/{reviewID}", s.GetReview)
		r.Put("/reviews/{reviewID}/content", s.UpdateReviewContent)

		r.Post("/assist", s.Assist)
	})
}

// ListPapers handles GET /papers.
func (s *Server) ListPapers(w http.ResponseWriter, r *http.Request) {
	papers, err := s.directory.ListPapers(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PaperListResponse{Items: papersToAPI(papers), Total: len(papers)})
}

// SearchPapers handles GET /papers/search.
func (s *Server) SearchPapers(w http.ResponseWriter, r *http.Request) {
	q, err := searchQueryFromParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	res, err := s.search.Search(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchToAPI(res))
}

// GetPaper handles GET /papers/{paperID}.
func (s *Server) GetPaper(w http.ResponseWriter, r *http.Request) {
	p, ok, err := s.directory.GetPaperByID(r.Context(), chi.URLParam(r, "paperID"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, ErrorCodePaperNotFound, "paper not found")
		return
	}
	writeJSON(w, http.StatusOK, paperToAPI(p))
}

// ListLibraries handles GET /libraries.
func (s *Server) ListLibraries(w http.ResponseWriter, r *http.Request) {
	libs, err := s.directory.GetLibraries(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	items := make([]LibraryResponse, len(libs))
	for i, l := range libs {
		items[i] = libraryToAPI(l)
	}
	writeJSON(w, http.StatusOK, LibraryListResponse{Items: items, Total: len(items)})
}

// CreateLibrary handles POST /libraries.
func (s *Server) CreateLibrary(w http.ResponseWriter, r *http.Request) {
	var req CreateLibraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := domlib.ValidateName(req.Name); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	l, err := s.directory.CreateLibrary(r.Context(), req.Name)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/libraries/"+l.ID())
	writeJSON(w, http.StatusCreated, libraryToAPI(l))
}

// GetLibrary handles GET /libraries/{libraryID}.
func (s *Server) GetLibrary(w http.ResponseWriter, r *http.Request) {
	l, ok, err := s.directory.GetLibrary(r.Context(), chi.URLParam(r, "libraryID"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, ErrorCodeLibraryNotFound, "library not found")
		return
	}
	writeJSON(w, http.StatusOK, libraryToAPI(l))
}

// RenameLibrary handles PATCH /libraries/{libraryID}.
func (s *Server) RenameLibrary(w http.ResponseWriter, r *http.Request) {
	var req RenameLibraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := domlib.ValidateName(req.Name); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	l, ok, err := s.directory.RenameLibrary(r.Context(), chi.URLParam(r, "libraryID"), req.Name)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, ErrorCodeLibraryNotFound, "library not found")
		return
	}
	writeJSON(w, http.StatusOK, libraryToAPI(l))
}

// ListLibraryPapers handles GET /libraries/{libraryID}/papers.
func (s *Server) ListLibraryPapers(w http.ResponseWriter, r *http.Request) {
	papers, ok, err := s.directory.LibraryPapers(r.Context(), chi.URLParam(r, "libraryID"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, ErrorCodeLibraryNotFound, "library not found")
		return
	}
	writeJSON(w, http.StatusOK, PaperListResponse{Items: papersToAPI(papers), Total: len(papers)})
}

// AddPaperToLibrary handles POST /libraries/{libraryID}/papers.
func (s *Server) AddPaperToLibrary(w http.ResponseWriter, r *http.Request) {
	var req AddPaperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.PaperID == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "paper_id is required")
		return
	}

	ok, err := s.directory.AddPaperToLibrary(r.Context(), chi.URLParam(r, "libraryID"), req.PaperID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, ErrorCodeLibraryNotFound, "library not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListReviews handles GET /reviews.
func (s *Server) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.reviews.ListReviews(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	items := make([]ReviewResponse, len(reviews))
	for i, rev := range reviews {
		items[i] = reviewToAPI(rev)
	}
	writeJSON(w, http.StatusOK, ReviewListResponse{Items: items, Total: len(items)})
}

// GenerateReview handles POST /reviews.
func (s *Server) GenerateReview(w http.ResponseWriter, r *http.Request) {
	var req GenerateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.PaperIDs) == 0 || len(req.PaperIDs) > maxReviewPapers {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			fmt.Sprintf("paper_ids count must be between 1 and %d", maxReviewPapers))
		return
	}
	lang, err := domain.ParseLanguage(req.Language)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	rev, err := s.reviews.GenerateLiteratureReview(ctx, req.PaperIDs, req.Prompt, lang)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.writeReviewCreated(w, usage, rev)
}

// GeneratePromptReview handles POST /reviews/prompt.
func (s *Server) GeneratePromptReview(w http.ResponseWriter, r *http.Request) {
	var req PromptReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "prompt is required")
		return
	}
	lang, err := domain.ParseLanguage(req.Language)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	rev, err := s.reviews.GeneratePromptBasedReview(ctx, req.Prompt, req.References, lang)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.writeReviewCreated(w, usage, rev)
}

func (s *Server) writeReviewCreated(w http.ResponseWriter, usage *domain.GenerationUsage, rev domreview.LiteratureReview) {
	setGenerationHeaders(w, usage)
	w.Header().Set("Location", "/api/v1/reviews/"+rev.ID())
	writeJSON(w, http.StatusCreated, reviewToAPI(rev))
}

// GetReview handles GET /reviews/{reviewID}.
func (s *Server) GetReview(w http.ResponseWriter, r *http.Request) {
	rev, ok, err := s.reviews.GetReview(r.Context(), chi.URLParam(r, "reviewID"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, ErrorCodeReviewNotFound, "review not found")
		return
	}
	writeJSON(w, http.StatusOK, reviewToAPI(rev))
}

// UpdateReviewContent handles PUT /reviews/{reviewID}/content.
func (s *Server) UpdateReviewContent(w http.ResponseWriter, r *http.Request) {
	var req UpdateReviewContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Content == nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "content is required")
		return
	}

	rev, ok, err := s.reviews.UpdateReviewContent(r.Context(), chi.URLParam(r, "reviewID"), *req.Content)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, ErrorCodeReviewNotFound, "review not found")
		return
	}
	writeJSON(w, http.StatusOK, reviewToAPI(rev))
}

// Assist handles POST /assist.
func (s *Server) Assist(w http.ResponseWriter, r *http.Request) {
	var req AssistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	lang, err := domain.ParseLanguage(req.Language)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	task := domain.Task(req.Task)
	ctx, usage := domain.NewContextWithUsage(r.Context())
	text, err := s.assist.Run(ctx, task, req.Text, lang)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	setGenerationHeaders(w, usage)
	writeJSON(w, http.StatusOK, AssistResponse{Task: req.Task, Text: text})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]HealthCheckResponse, len(report.Checks))
	for name, c := range report.Checks {
		checks[name] = HealthCheckResponse{
			Status:    string(c.Result),
			Backend:   c.Backend,
			LatencyMS: float64(c.Latency.Microseconds()) / 1000,
		}
		if c.Err != nil {
			logpkg.FromContext(r.Context(), s.logger).Warn("health check failed",
				zap.String("component", name), zap.String("backend", c.Backend), zap.Error(c.Err))
		}
	}

	// Degraded still serves the directory, so only a storage outage is a 503.
	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Version: version.Version,
		Checks:  checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// searchQueryFromParams builds a search query from URL parameters:
// q, lang, page, author, journal, year_start, year_end, has_full_text, sort, year.
func searchQueryFromParams(r *http.Request) (searchuc.Query, error) {
	v := r.URL.Query()

	lang, err := domain.ParseLanguage(v.Get("lang"))
	if err != nil {
		return searchuc.Query{}, err
	}

	page := 1
	if p := v.Get("page"); p != "" {
		page, err = strconv.Atoi(p)
		if err != nil || page < 1 {
			return searchuc.Query{}, errors.New("page must be a positive integer")
		}
	}

	ord, err := order.Parse(v.Get("sort"))
	if err != nil {
		return searchuc.Query{}, fmt.Errorf("parse sort: %w", err)
	}

	year, err := filter.ParseYearSelector(v.Get("year"))
	if err != nil {
		return searchuc.Query{}, fmt.Errorf("parse year: %w", err)
	}

	var hasFullText bool
	if raw := v.Get("has_full_text"); raw != "" {
		hasFullText, err = strconv.ParseBool(raw)
		if err != nil {
			return searchuc.Query{}, errors.New("has_full_text must be a boolean")
		}
	}

	opts := filter.Reduce(filter.Options{},
		filter.SetAuthor{Value: v.Get("author")},
		filter.SetJournal{Value: v.Get("journal")},
		filter.SetYearStart{Value: v.Get("year_start")},
		filter.SetYearEnd{Value: v.Get("year_end")},
		filter.SetHasFullText{Value: hasFullText},
	)
	if err := opts.Validate(); err != nil {
		return searchuc.Query{}, fmt.Errorf("validate filters: %w", err)
	}

	return searchuc.Query{
		Text:     v.Get("q"),
		Language: lang,
		Page:     page,
		Filters:  opts,
		Order:    ord,
		Year:     year,
	}, nil
}

func setGenerationHeaders(w http.ResponseWriter, usage *domain.GenerationUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Generation-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
// Validation errors are returned in full: they describe the caller's own input.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidInput) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrRateLimited,
		domain.ErrGenerationTimeout,
		domain.ErrGenerationFailed,
		domain.ErrUnavailable,
		domain.ErrNotImplemented,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
