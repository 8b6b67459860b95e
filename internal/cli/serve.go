package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/srcfetch/pkg/errors"
	"github.com/matzehuels/srcfetch/pkg/results"
	"github.com/matzehuels/srcfetch/pkg/vcs"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		workdir string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose URL resolution and downloads over a JSON API",
		Long: `Expose URL resolution and downloads over a JSON API.

Endpoints:
  GET  /healthz            liveness probe
  POST /api/normalize      {"url": ...} -> {"url": ...}
  POST /api/split          {"url": ...} -> descriptor plus confidence
  POST /api/downloads      descriptor -> download record
  GET  /api/downloads      list recorded downloads

Checkouts land in per-request directories below --workdir.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, workdir, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&workdir, "workdir", "downloads", "directory for checkouts")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the remote-metadata cache")

	return cmd
}

// runServe starts the HTTP server and blocks until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, addr, workdir string, noCache bool) error {
	store, err := c.resultStore(ctx)
	if err != nil {
		return fmt.Errorf("open result store: %w", err)
	}
	defer store.Close()

	srv := &server{
		downloader: c.newDownloader(noCache),
		store:      store,
		workdir:    workdir,
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(c),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// server bundles the API handler dependencies.
type server struct {
	downloader *vcs.Downloader
	store      results.Store
	workdir    string
}

// routes builds the chi router.
func (s *server) routes(c *CLI) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(withLogger(req.Context(), c.Logger)))
		})
	})

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/normalize", s.handleNormalize)
		r.Post("/split", s.handleSplit)
		r.Post("/downloads", s.handleDownload)
		r.Get("/downloads", s.handleListDownloads)
	})
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// urlRequest is the body of normalize and split requests.
type urlRequest struct {
	URL string `json:"url"`
}

func (s *server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": vcs.Normalize(req.URL)})
}

// splitResponse carries the decomposed URL and the heuristic's confidence.
type splitResponse struct {
	vcs.Descriptor
	Confident bool `json:"confident"`
}

func (s *server) handleSplit(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	desc, confident := vcs.Split(vcs.Normalize(req.URL))
	writeJSON(w, http.StatusOK, splitResponse{Descriptor: desc, Confident: confident})
}

// downloadRequest is the body of download requests.
type downloadRequest struct {
	Package     string `json:"package,omitempty"`
	Provider    string `json:"provider,omitempty"`
	URL         string `json:"url"`
	Revision    string `json:"revision,omitempty"`
	Path        string `json:"path,omitempty"`
	VersionHint string `json:"version_hint,omitempty"`
}

func (s *server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	declared := vcs.Descriptor{
		Provider: req.Provider,
		URL:      vcs.Normalize(req.URL),
		Revision: req.Revision,
		Path:     req.Path,
	}
	target := filepath.Join(s.workdir, uuid.NewString())

	logger := loggerFromContext(r.Context())
	result, err := s.downloader.Download(r.Context(), declared, target, req.VersionHint)
	partial := apperrors.Is(err, apperrors.ErrCodePartialResolution)
	if err != nil && !partial {
		logger.Error("download failed", "url", req.URL, "err", err)
		writeError(w, statusForError(err), err)
		return
	}

	rec := results.New(req.Package, "", result, partial)
	if err := s.store.Save(r.Context(), rec); err != nil {
		logger.Warn("could not record download", "err", err)
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *server) handleListDownloads(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if records == nil {
		records = []*results.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

// statusForError maps error codes to HTTP status codes.
func statusForError(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeNoSourceLocation,
		apperrors.ErrCodeMalformedURL,
		apperrors.ErrCodeInvalidInput,
		apperrors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case apperrors.ErrCodeNoApplicableBackend:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeTargetExists:
		return http.StatusConflict
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{
		"error": apperrors.UserMessage(err),
		"code":  string(apperrors.GetCode(err)),
	})
}
