package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/relato-labs/incident-cli/internal/model"
	"github.com/relato-labs/incident-cli/internal/pipeline"
	"github.com/relato-labs/incident-cli/internal/validate"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP extraction server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ext, err := initExtractor()
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(ext),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// incidentExtractor is the slice of the pipeline the handlers need.
type incidentExtractor interface {
	Extract(ctx context.Context, text, extra string) (*model.Incident, error)
}

func newRouter(ext incidentExtractor) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/extract", handleExtract(ext))

	return r
}

func handleExtract(ext incidentExtractor) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Text    string `json:"text"`
			Context string `json:"context"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.Text == "" {
			writeError(w, http.StatusBadRequest, "text is required")
			return
		}

		// The request context flows into the LLM call, so a client
		// disconnect cancels the in-flight completion.
		incident, err := ext.Extract(req.Context(), body.Text, body.Context)
		if err != nil {
			status, msg := classifyError(err)
			zap.L().Error("extraction failed",
				zap.String("request_id", middleware.GetReqID(req.Context())),
				zap.Int("status", status),
				zap.Error(err),
			)
			writeError(w, status, msg)
			return
		}

		writeJSON(w, http.StatusOK, incident)
	}
}

// classifyError maps the pipeline error taxonomy onto HTTP statuses.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, pipeline.ErrLLMUnavailable):
		return http.StatusServiceUnavailable, "llm unavailable"
	case errors.Is(err, pipeline.ErrLLMOutputMalformed):
		return http.StatusBadGateway, "llm output malformed"
	case errors.Is(err, validate.ErrValidationFailed):
		return http.StatusUnprocessableEntity, "validation failed"
	default:
		return http.StatusInternalServerError, "extraction failed"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
