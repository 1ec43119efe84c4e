package api

import (
	"net/http"
	"time"

	"codeclash/internal/api/handler"
	"codeclash/internal/api/middleware"
	"codeclash/internal/app/service"
	"codeclash/internal/common"
	"codeclash/internal/common/security"
	"codeclash/internal/domain/repository"
	"codeclash/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

type Options struct {
	RequireAuth        bool
	CORSAllowedOrigins []string
}

// Services is everything the HTTP layer calls into.
type Services struct {
	Auth        *service.AuthService
	Contests    *service.ContestService
	Questions   *service.QuestionService
	Submissions *service.SubmissionService
	Leaderboard *service.LeaderboardService
}

// NewServices builds the service layer over one repository set.
func NewServices(repos repository.Set, judge service.Judge, tokens *security.TokenIssuer, m *metrics.Metrics) Services {
	return Services{
		Auth:        service.NewAuthService(repos.Users, repos.Profiles, repos.Sessions, repos.Tx, tokens),
		Contests:    service.NewContestService(repos.Contests, repos.Questions, repos.Profiles),
		Questions:   service.NewQuestionService(repos.Questions, repos.Testcases),
		Submissions: service.NewSubmissionService(repos.Submissions, judge, m),
		Leaderboard: service.NewLeaderboardService(repos.Submissions),
	}
}

func NewRouter(
	opts Options,
	svcs Services,
	sessions repository.SessionRepository,
	tokens *security.TokenIssuer,
	m *metrics.Metrics,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.Metrics(m))

	// Puts a decoded bearer token, if any, in the context. Only routes
	// behind Authenticator reject requests without one.
	r.Use(jwtauth.Verifier(tokens.JWTAuth()))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("CodeClash Backend is running!"))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	policy := middleware.NewPolicy(middleware.NewAuth(sessions), opts.RequireAuth)

	r.Route("/api", func(api chi.Router) {
		// Submissions wait on the judge for as long as it takes; only
		// JUDGE_TIMEOUT_SECONDS bounds them.
		handler.NewSubmissionHandler(svcs.Submissions).RegisterRoutes(api, policy)

		api.Group(func(store chi.Router) {
			store.Use(chiMiddleware.Timeout(60 * time.Second))
			handler.NewAuthHandler(svcs.Auth).RegisterRoutes(store, policy)
			handler.NewContestHandler(svcs.Contests).RegisterRoutes(store, policy)
			handler.NewQuestionHandler(svcs.Questions).RegisterRoutes(store, policy)
			handler.NewLeaderboardHandler(svcs.Leaderboard).RegisterRoutes(store)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithError(w, http.StatusNotFound, "Route not found")
	})

	return r
}
