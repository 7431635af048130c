package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/campaign-cli/internal/pipeline"
	"github.com/sells-group/campaign-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the campaign HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(env.Store, env.Engine),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

// newRouter builds the campaign API routes.
func newRouter(st store.Store, engine *pipeline.Engine) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "AI Sales Campaign CRM",
			"endpoints": map[string]string{
				"GET /health":             "Health check",
				"GET /leads":              "List all leads",
				"GET /leads/{id}":         "Get a lead by id",
				"POST /campaign/run":      "Start the campaign pipeline",
				"GET /campaign/status":    "Get pipeline status",
				"POST /campaign/report":   "Generate campaign report",
				"POST /response/classify": "Classify an email response",
			},
		})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/leads", func(w http.ResponseWriter, req *http.Request) {
		leads, err := st.LoadLeads(req.Context())
		if err != nil {
			zap.L().Error("serve: load leads", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load leads")
			return
		}
		writeJSON(w, http.StatusOK, leads)
	})

	r.Get("/leads/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(req, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid lead id")
			return
		}
		lead, err := st.GetLead(req.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Lead not found")
				return
			}
			zap.L().Error("serve: get lead", zap.Int("lead_id", id), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load lead")
			return
		}
		writeJSON(w, http.StatusOK, lead)
	})

	r.Post("/campaign/run", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			ProductDescription string `json:"product_description"`
		}
		if req.Body != nil && req.ContentLength != 0 {
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}

		runID, err := engine.Start(body.ProductDescription)
		if err != nil {
			if errors.Is(err, pipeline.ErrAlreadyRunning) {
				writeError(w, http.StatusConflict, "Pipeline already running")
				return
			}
			zap.L().Error("serve: start campaign", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to start campaign")
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]string{
			"message":         "Campaign pipeline started",
			"run_id":          runID,
			"status_endpoint": "/campaign/status",
		})
	})

	r.Get("/campaign/status", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, engine.Status())
	})

	r.Post("/campaign/report", func(w http.ResponseWriter, req *http.Request) {
		path, err := engine.GenerateReportNow(req.Context())
		if err != nil {
			zap.L().Error("serve: generate report", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to generate report")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"message":  "Report generated",
			"filepath": path,
		})
	})

	r.Post("/response/classify", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			LeadID       int    `json:"lead_id"`
			ResponseText string `json:"response_text"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.ResponseText == "" {
			writeError(w, http.StatusBadRequest, "response_text is required")
			return
		}

		lead, err := engine.ClassifyReply(req.Context(), body.LeadID, body.ResponseText)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Lead not found")
				return
			}
			zap.L().Error("serve: classify response", zap.Int("lead_id", body.LeadID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to classify response")
			return
		}
		writeJSON(w, http.StatusOK, lead)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
