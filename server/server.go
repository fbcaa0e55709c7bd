package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator"

	"github.com/tranvictor/assoc/association"
	"github.com/tranvictor/assoc/engine"
	"github.com/tranvictor/assoc/signature"
)

const maxRequestBody = 1 << 20

// Service is the part of *engine.Engine the API exposes.
type Service interface {
	ResolveAssociations(ctx context.Context, name string) (*engine.Result, error)
	VerifyAssociation(ctx context.Context, a association.Association, expected common.Address) (*signature.Result, error)
}

type Server struct {
	service   Service
	validator *validator.Validate
	timeout   time.Duration
	logger    log.Logger
}

// New returns a server. A positive timeout bounds every request.
func New(service Service, timeout time.Duration, logger log.Logger) *Server {
	if logger == nil {
		logger = log.Root()
	}
	return &Server{
		service:   service,
		validator: validator.New(),
		timeout:   timeout,
		logger:    logger,
	}
}

// VerifyRequest is the body of POST /v1/verify. The association is decoded
// with the same rules as a fetched document.
type VerifyRequest struct {
	Association    json.RawMessage `json:"association" validate:"required"`
	ExpectedSigner *common.Address `json:"expectedSigner" validate:"required"`
}

type errorResponse struct {
	Error string      `json:"error"`
	Kind  engine.Kind `json:"kind,omitempty"`
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if s.timeout > 0 {
		r.Use(middleware.Timeout(s.timeout))
	}

	r.Get("/healthz", s.handleHealthz)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/associations/{name}", s.handleResolve)
		r.Post("/verify", s.handleVerify)
	})
	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	res, err := s.service.ResolveAssociations(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "could not read body"})
		return
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request: %s", err)})
		return
	}
	if err := s.validator.Struct(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("field %s is %s", verrs[0].Field(), verrs[0].Tag())})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	a, err := association.DecodeAssociation(req.Association)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid association: %s", err), Kind: engine.DecodeError})
		return
	}

	res, err := s.service.VerifyAssociation(r.Context(), a, *req.ExpectedSigner)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// StatusFor maps an engine error to the HTTP status served for it.
func StatusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch engine.KindOf(err) {
	case engine.NormalizationError:
		return http.StatusBadRequest
	case engine.NoAddressBound, engine.NoAssociationsURL:
		return http.StatusNotFound
	case engine.FetchError, engine.DecodeError, engine.TransportError:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	s.logger.Debug("request failed", "path", r.URL.Path, "request", middleware.GetReqID(r.Context()), "status", status, "err", err)
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: engine.KindOf(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ListenAndServe serves handler on addr until ctx is done, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger log.Logger) error {
	httpd := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- httpd.ListenAndServe() }()
	logger.Info("Listening", "addr", addr)

	select {
	case <-ctx.Done():
		logger.Info("Shutting down", "addr", addr)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpd.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}
}
