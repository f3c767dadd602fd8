// Command jobcached runs a demo job-board API that exercises the cache
// consistency layer end to end: cache-aside reads for single postings,
// index-tracked list pages, an HTTP response cache mirrored into the
// same invalidation groups, and full invalidation on every mutation.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/talentwire/jobcache/internal/testutil"
	"github.com/talentwire/jobcache/pkg/cache"
	"github.com/talentwire/jobcache/pkg/config"
	"github.com/talentwire/jobcache/pkg/httpcache"
	"github.com/talentwire/jobcache/pkg/logging"
)

var errJobNotFound = errors.New("job not found")

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		port     string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:           "jobcached",
		Short:         "Demo job-board API on top of the cache consistency layer",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return err
			}
			// Flags win over environment when set explicitly.
			if !cmd.Flags().Changed("port") && cfg.Port != "" {
				port = cfg.Port
			}
			if !cmd.Flags().Changed("log-level") && cfg.LogLevel != "" {
				logLevel = cfg.LogLevel
			}
			return run(cfg, port, logLevel)
		},
	}

	cmd.Flags().StringVar(&port, "port", "8080", "HTTP listen port")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	return cmd
}

func run(cfg *config.Config, port, logLevel string) error {
	logger := logging.Setup(logging.Config{
		Level:  logging.Level(logLevel),
		Output: os.Stderr,
	})

	store, err := connectStore(cfg, logger)
	if err != nil {
		return err
	}

	manager := cache.NewManager(store, cache.Config{
		DefaultTTL: cfg.DefaultCacheTTL(),
		FailOpen:   true,
	})

	srv := newServer(manager)
	srv.seed()

	addr := ":" + port
	logger.Info().Str("addr", addr).Dur("default_ttl", cfg.DefaultCacheTTL()).Msg("Starting jobcached")
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// connectStore connects to Redis, falling back to the in-memory store
// when the backend is unreachable.
func connectStore(cfg *config.Config, logger zerolog.Logger) (cache.Store, error) {
	redisURL := cfg.ResolveRedisURL()
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", opts.Addr).Msg("Redis unavailable, using in-memory store")
		client.Close()
		return cache.NewMemoryStore(cfg.DefaultCacheTTL(), time.Minute), nil
	}

	logger.Info().Str("addr", opts.Addr).Msg("Connected to Redis")
	return cache.NewRedisStore(client), nil
}

// Key construction, shared by read paths and write-time invalidation.
func jobKey(id string) string {
	return cache.BuildKey("job", id)
}

func jobsIndexKey(companyID string) string {
	return cache.BuildKey("jobs", companyID, "index")
}

func jobsPageKey(companyID string, page int) string {
	return cache.BuildKey("jobs", companyID, "page", page)
}

type server struct {
	repo    *testutil.JobRepo
	manager *cache.Manager
	mw      *httpcache.Middleware
	userID  httpcache.UserIDFunc
	logger  zerolog.Logger
}

func newServer(manager *cache.Manager) *server {
	userID := httpcache.HeaderUserID("X-User-ID")
	return &server{
		repo:    testutil.NewJobRepo(),
		manager: manager,
		mw: httpcache.NewMiddleware(manager, 0, userID, func(r *http.Request) string {
			return jobsIndexKey(r.PathValue("companyID"))
		}),
		userID: userID,
		logger: logging.NewLogger("jobcached"),
	}
}

func (s *server) seed() {
	for _, job := range []testutil.JobPosting{
		{CompanyID: "c-1", Title: "Backend Engineer", Location: "Berlin", Salary: 72000},
		{CompanyID: "c-1", Title: "SRE", Location: "Remote", Salary: 81000},
		{CompanyID: "c-2", Title: "Data Analyst", Location: "Amsterdam", Salary: 58000},
	} {
		s.repo.Create(job)
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /jobs/{id}", s.getJob)
	mux.HandleFunc("PUT /jobs/{id}", s.updateJob)
	mux.HandleFunc("DELETE /jobs/{id}", s.deleteJob)

	mux.Handle("GET /companies/{companyID}/jobs", s.mw.Handler(http.HandlerFunc(s.listCompanyJobs)))
	mux.HandleFunc("POST /companies/{companyID}/jobs", s.createJob)

	return mux
}

func (s *server) getJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	data, err := s.manager.GetOrSet(r.Context(), jobKey(id), 0, func(context.Context) ([]byte, error) {
		job, ok := s.repo.Get(id)
		if !ok {
			return nil, errJobNotFound
		}
		return json.Marshal(job)
	})
	if errors.Is(err, errJobNotFound) {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Str("job_id", id).Msg("Job lookup failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *server) listCompanyJobs(w http.ResponseWriter, r *http.Request) {
	companyID := r.PathValue("companyID")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	data, err := s.manager.RememberList(r.Context(), jobsIndexKey(companyID), jobsPageKey(companyID, page), 0,
		func(context.Context) ([]byte, error) {
			return json.Marshal(s.repo.ListByCompany(companyID, page, 20))
		})
	if err != nil {
		s.logger.Error().Err(err).Str("company_id", companyID).Msg("Job listing failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *server) createJob(w http.ResponseWriter, r *http.Request) {
	companyID := r.PathValue("companyID")

	var job testutil.JobPosting
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	job.CompanyID = companyID
	created := s.repo.Create(job)

	s.invalidateCompany(r, companyID)
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *server) updateJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var job testutil.JobPosting
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	updated, ok := s.repo.Update(id, job)
	if !ok {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}

	s.invalidateJob(r, updated)
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *server) deleteJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	job, ok := s.repo.Get(id)
	if !ok {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}
	s.repo.Delete(id)

	s.invalidateJob(r, job)
	w.WriteHeader(http.StatusNoContent)
}

// invalidateJob clears the single-entity key and the company's list
// scope after a mutation, using the same key construction as the read
// paths.
func (s *server) invalidateJob(r *http.Request, job testutil.JobPosting) {
	if err := s.manager.Delete(r.Context(), jobKey(job.ID)); err != nil {
		s.logger.Warn().Err(err).Str("job_id", job.ID).Msg("Entity key delete failed")
	}
	s.invalidateCompany(r, job.CompanyID)
}

func (s *server) invalidateCompany(r *http.Request, companyID string) {
	ctx := r.Context()

	if err := s.manager.InvalidateIndex(ctx, jobsIndexKey(companyID)); err != nil {
		s.logger.Warn().Err(err).Str("company_id", companyID).Msg("Index invalidation incomplete")
	}

	// Clients may have cached the default listing before index tracking
	// saw it; clear the unparameterized base keys explicitly.
	path := "/companies/" + companyID + "/jobs"
	for _, key := range []string{s.mw.BaseKeyFor(s.userID(r), path), s.mw.BaseKeyFor("", path)} {
		if err := s.manager.Delete(ctx, key); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Base key delete failed")
		}
	}
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to write response")
	}
}
