package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"RCCalc/internal/auth"
	"RCCalc/internal/calc/autodesign"
	"RCCalc/internal/calc/batch"
	"RCCalc/internal/calc/ec2"
	"RCCalc/internal/calc/loads"
	"RCCalc/internal/calc/report"
	"RCCalc/internal/config"
	"RCCalc/internal/history"
	"RCCalc/internal/logger"
	"RCCalc/internal/metrics"
	"RCCalc/internal/repo"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HandleList registers the calculator API. users and calcs may be nil, in
// which case account routes are left out.
func HandleList(router *mux.Router, cfg config.Config, log *zap.Logger, limiter *auth.IPRateLimiter,
	users repo.UserRepository, calcs repo.CalculationRepository) {
	router.Use(metrics.Middleware)
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	elementH := &ec2.Handler{Log: log}
	loadsH := &loads.Handler{Log: log}
	reportH := &report.Handler{Log: log}
	batchH := &batch.Handler{Log: log}
	designH := &autodesign.Handler{Log: log}

	api.HandleFunc("/reference", elementH.Reference).Methods("GET")
	api.HandleFunc("/defaults/{type}", elementH.Defaults).Methods("GET")
	api.HandleFunc("/calc", elementH.Calc).Methods("POST")
	api.HandleFunc("/design", designH.Design).Methods("POST")
	api.HandleFunc("/loads/combine", loadsH.Calc).Methods("POST")
	api.HandleFunc("/report/pdf", reportH.Generate).Methods("POST")
	api.HandleFunc("/batch", batchH.JSON).Methods("POST")
	api.HandleFunc("/batch/xlsx", batchH.XLSX).Methods("POST")

	if users != nil && calcs != nil {
		authEnv := &auth.Auth{JWTKey: []byte(cfg.TokenKey), Users: users, Log: log}
		historyH := &history.Handler{Repo: calcs, Log: log}

		api.HandleFunc("/login", authEnv.LoginHandler).Methods("POST")
		api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

		secureApi := api.PathPrefix("/user").Subrouter()
		secureApi.Use(authEnv.Middleware)
		secureApi.HandleFunc("/calculations", historyH.List).Methods("GET")
		secureApi.HandleFunc("/calculations", historyH.Save).Methods("POST")
		secureApi.HandleFunc("/calculations/{id}", historyH.Get).Methods("GET")
		secureApi.HandleFunc("/calculations/{id}", historyH.Delete).Methods("DELETE")
	}

	if fi, err := os.Stat(cfg.StaticDir); err == nil && fi.IsDir() {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(filepath.Clean(cfg.StaticDir))))
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Must(logger.Config{}).Fatal("load config", zap.Error(err))
	}
	log := logger.Must(cfg.Log)
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var users repo.UserRepository
	var calcs repo.CalculationRepository
	if cfg.AccountsEnabled() {
		db, err := repo.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("database", zap.Error(err))
		}
		defer db.Close()
		pg := repo.NewPostgres(db)
		if err := pg.Migrate(ctx); err != nil {
			log.Fatal("migrate", zap.Error(err))
		}
		users, calcs = pg, pg
	} else {
		log.Info("DATABASE_URL not set, accounts disabled")
	}

	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	wg.Add(1)
	go func() {
		defer wg.Done()
		limiter.RunCleanup(ctx, time.Minute, 10*time.Minute)
	}()

	router := mux.NewRouter()
	HandleList(router, cfg, log, limiter, users, calcs)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           CORS(logger.Middleware(log)(router)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("starting server", zap.String("addr", cfg.ListenAddr), zap.Bool("tls", cfg.TLSCert != ""))
		var err error
		if cfg.TLSCert != "" {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	wg.Wait()
	log.Info("server stopped")
}
