package main

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/NordCoder/Todorus/internal/auth/token"
	config "github.com/NordCoder/Todorus/internal/config/todo-api"
	"github.com/NordCoder/Todorus/internal/obs"
	"github.com/NordCoder/Todorus/internal/ratelimit"
	pg "github.com/NordCoder/Todorus/internal/repository/postgres"
	authsvc "github.com/NordCoder/Todorus/internal/services/todo-api/auth"
	todosvc "github.com/NordCoder/Todorus/internal/services/todo-api/todo"
	"github.com/NordCoder/Todorus/internal/services/todo-api/web"
)

func buildHTTPServer(cfg *config.Config, logger *zap.Logger, db *pg.DB, rdb *redis.Client) *http.Server {
	issuer := token.NewIssuer(token.Config{
		AccessSecret:  []byte(cfg.Auth.AccessSecret),
		RefreshSecret: []byte(cfg.Auth.RefreshSecret),
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshTTL:    cfg.Auth.RefreshTTL,
	})

	users := pg.NewUserRepo(db)
	todos := pg.NewTodoRepo(db)

	limiter := ratelimit.New(rdb, cfg.RateLimit, logger)

	authUC := authsvc.NewUsecase(users, issuer)
	authH := authsvc.NewHandler(logger, authUC, users, limiter, cfg.Server.TrustProxy)
	todoH := todosvc.NewHandler(logger, todosvc.New(todos, nil))

	mux := http.NewServeMux()
	authH.Register(mux)
	todoH.Register(mux, authsvc.Middleware(authUC.ParseAccess))

	mux.Handle("GET /metrics", obs.MetricsHandler())
	mux.Handle("GET /healthz", healthz(db.Pool.Ping))

	var handler http.Handler = mux
	handler = obs.HTTPMetrics(handler)
	handler = web.LogRequests(logger)(handler)
	handler = web.RequestID(handler)
	handler = web.CORS(cfg.Server.CORSOrigins)(handler)
	handler = obs.TraceHTTP(handler, "todo-api")

	return &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

// healthz pings the database with a short deadline derived from the request
// context, so a gone client cancels the probe.
func healthz(ping func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := ping(hctx); err != nil {
			http.Error(w, "unhealthy: db", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

func serveHTTP(srv *http.Server, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("http listening", zap.String("addr", cfg.Server.HTTPAddr))
	return srv.ListenAndServe()
}
