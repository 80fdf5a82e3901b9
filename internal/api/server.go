package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"go-agentplan/internal/orchestration"
	"go-agentplan/pkg/health"
	"go-agentplan/pkg/logger"
	"go-agentplan/pkg/memory"
	"go-agentplan/pkg/messages"
	"go-agentplan/pkg/models"
)

type inputTask struct {
	SessionID   string `json:"session_id,omitempty"`
	Description string `json:"description"`
}

type taskAccepted struct {
	SessionID string        `json:"session_id"`
	PlanID    string        `json:"plan_id"`
	Steps     []models.Step `json:"steps"`
}

type planView struct {
	Plan  models.Plan   `json:"plan"`
	Steps []models.Step `json:"steps"`
}

type executeResult struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Server struct {
	ac       *actor.RootContext
	registry *orchestration.Registry
	store    memory.Store
	server   *http.Server
}

func New(addr string, ac *actor.RootContext, registry *orchestration.Registry, store memory.Store, checker *health.Checker) *Server {
	s := &Server{
		ac:       ac,
		registry: registry,
		store:    store,
	}

	r := chi.NewRouter()
	r.Use(logMiddleware())

	r.Post("/input_task", s.handleInputTask)
	r.Post("/human_feedback", s.handleHumanFeedback)
	r.Post("/plans/{planID}/execute", s.handleExecuteNext)
	r.Get("/plans/{planID}", s.handleGetPlan)
	r.Get("/sessions/{sessionID}/messages", s.handleGetMessages)
	r.Get("/healthz", checker.Handler())
	r.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

func (s *Server) handleInputTask(w http.ResponseWriter, r *http.Request) {
	log.Debug().Msg("input task request")
	var in inputTask
	if err := unmarshalRequestBody(r, &in); err != nil || in.Description == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "unable to parse body"})
		return
	}

	sessionID := uuid.New()
	if in.SessionID != "" {
		id, err := uuid.Parse(in.SessionID)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, errorResponse{Error: "unable to parse session id"})
			return
		}
		sessionID = id
	}

	sess := s.registry.Ensure(sessionID)
	future := s.ac.RequestFuture(sess.Planner, messages.NewTask{SessionID: sessionID, Description: in.Description}, time.Minute)
	res, err := future.Result()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error().Str(logger.SessionField, sessionID.String()).Err(err).Msg("unable to get plan from planner")
		render.JSON(w, r, errorResponse{Error: "planner did not respond"})
		return
	}

	switch res := res.(type) {
	case messages.PlanCreated:
		log.Debug().Str(logger.SessionField, sessionID.String()).Str(logger.PlanField, res.Plan.ID.String()).Msg("plan accepted")
		render.JSON(w, r, taskAccepted{
			SessionID: sessionID.String(),
			PlanID:    res.Plan.ID.String(),
			Steps:     res.Steps,
		})
	case messages.ReportError:
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, errorResponse{Error: res.Err})
	default:
		w.WriteHeader(http.StatusInternalServerError)
		log.Error().Str(logger.SessionField, sessionID.String()).Msgf("unknown planner response: %v", res)
	}
}

func (s *Server) handleHumanFeedback(w http.ResponseWriter, r *http.Request) {
	log.Debug().Msg("human feedback request")
	var fb models.HumanFeedback
	if err := unmarshalRequestBody(r, &fb); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "unable to parse body"})
		return
	}

	sess, ok := s.registry.Get(fb.SessionID)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, errorResponse{Error: "session not found"})
		return
	}

	future := s.ac.RequestFuture(sess.Human, messages.ApplyFeedback{Feedback: fb}, time.Minute)
	res, err := future.Result()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error().Str(logger.StepField, fb.StepID.String()).Err(err).Msg("unable to apply feedback")
		return
	}

	switch res := res.(type) {
	case messages.FeedbackApplied:
		render.JSON(w, r, res.Step)
	case messages.ReportError:
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, errorResponse{Error: res.Err})
	default:
		w.WriteHeader(http.StatusInternalServerError)
		log.Error().Msgf("unknown feedback response: %v", res)
	}
}

func (s *Server) handleExecuteNext(w http.ResponseWriter, r *http.Request) {
	log.Debug().Msg("execute next step request")
	planID, err := uuid.Parse(chi.URLParam(r, "planID"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "unable to parse plan id"})
		return
	}
	sessionID, err := uuid.Parse(r.URL.Query().Get("session"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "unable to parse session id"})
		return
	}

	sess, ok := s.registry.Get(sessionID)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, errorResponse{Error: "session not found"})
		return
	}

	future := s.ac.RequestFuture(sess.Manager, messages.ExecuteNext{SessionID: sessionID, PlanID: planID}, time.Minute)
	res, err := future.Result()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error().Str(logger.PlanField, planID.String()).Err(err).Msg("unable to execute next step")
		return
	}

	switch res := res.(type) {
	case messages.ExecuteResult:
		render.JSON(w, r, executeResult{Status: res.Message})
	case messages.ReportError:
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{Error: res.Err})
	default:
		w.WriteHeader(http.StatusInternalServerError)
		log.Error().Msgf("unknown execute response: %v", res)
	}
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := uuid.Parse(chi.URLParam(r, "planID"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "unable to parse plan id"})
		return
	}
	sessionID, err := uuid.Parse(r.URL.Query().Get("session"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "unable to parse session id"})
		return
	}

	plan, err := s.store.GetPlan(r.Context(), sessionID, planID)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error().Err(err).Msg("unable to load plan")
		return
	}
	if plan == nil {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, errorResponse{Error: "plan not found"})
		return
	}
	steps, err := s.store.GetStepsForPlan(r.Context(), sessionID, planID)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error().Err(err).Msg("unable to load steps")
		return
	}
	render.JSON(w, r, planView{Plan: *plan, Steps: steps})
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "unable to parse session id"})
		return
	}
	msgs, err := s.store.GetMessagesForSession(r.Context(), sessionID)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error().Err(err).Msg("unable to load messages")
		return
	}
	render.JSON(w, r, msgs)
}

func (s *Server) Start() error {
	err := s.server.ListenAndServe()
	if err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}

	log.Info().Msg("http server started")
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	return nil
}

func logMiddleware() func(http.Handler) http.Handler {
	c := alice.New()
	c = c.Append(hlog.NewHandler(log.Logger))
	c = c.Append(hlog.RemoteAddrHandler("ip"))
	c = c.Append(hlog.UserAgentHandler("agent"))
	c = c.Append(hlog.RefererHandler("referer"))
	c = c.Append(hlog.RequestIDHandler("req_id", "Request-Id"))
	c = c.Append(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("verb", r.Method).
			Stringer("url", r.URL).
			Int("size", size).
			Int("status", status).
			Int64("duration", duration.Milliseconds()).
			Msg("REQ")
	}))

	return c.Then
}

func unmarshalRequestBody(req *http.Request, output interface{}) error {
	if req.Body == nil {
		return errors.New("invalid body in request")
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}
	if err = req.Body.Close(); err != nil {
		return err
	}
	if err = json.Unmarshal(body, &output); err != nil {
		return err
	}

	return nil
}
