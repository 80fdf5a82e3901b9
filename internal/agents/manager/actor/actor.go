package actor

import (
	"context"
	"fmt"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/chains"

	baseActor "go-agentplan/internal/agents/base/actor"
	baseHandler "go-agentplan/internal/agents/base/handler"
	"go-agentplan/internal/agents/manager/handler"
	"go-agentplan/pkg/logger"
	"go-agentplan/pkg/memory"
	"go-agentplan/pkg/messages"
	"go-agentplan/pkg/metrics"
	"go-agentplan/pkg/models"
)

// Manager is the group chat manager for one session. It spawns the session's
// task agents as children, walks plans step by step on ExecuteNext commands
// and collects the agents' action responses.
type Manager struct {
	handler  *handler.Handler
	store    memory.Store
	rec      *metrics.Recorder
	chainFor func(models.AgentName) chains.Chain
	opts     []chains.ChainCallOption
	configs  []baseHandler.Config
	team     map[models.AgentName]*actor.PID
}

func Props(store memory.Store, rec *metrics.Recorder, chainFor func(models.AgentName) chains.Chain, configs []baseHandler.Config, callOpts []chains.ChainCallOption, propsOpts ...actor.PropsOption) *actor.Props {
	return actor.PropsFromProducer(func() actor.Actor {
		return &Manager{
			handler:  handler.New(store, rec),
			store:    store,
			rec:      rec,
			chainFor: chainFor,
			opts:     callOpts,
			configs:  configs,
			team:     make(map[models.AgentName]*actor.PID),
		}
	}, propsOpts...)
}

func (m *Manager) Receive(ac actor.Context) {
	l := log.With().Fields(map[string]interface{}{logger.ActorIDField: ac.Self().GetId(), logger.AgentNameField: "manager"}).Logger()
	switch msg := ac.Message().(type) {
	case *actor.Started:
		l.Debug().Msg("starting actor")
		decider := func(reason interface{}) actor.Directive {
			l.Error().Msgf("handling failure for child. reason: %v", reason)
			return actor.RestartDirective
		}
		strategy := actor.NewOneForOneStrategy(3, 10000, decider)
		for _, cfg := range m.configs {
			props := baseActor.Props(cfg, m.chainFor(cfg.Name), m.store, m.rec, m.opts, actor.WithSupervisor(strategy))
			m.team[cfg.Name] = ac.Spawn(props)
		}
	case *actor.Stopping:
		l.Debug().Msg("stopping actor")
	case *actor.Stopped:
		l.Debug().Msg("stopped actor and its children")
	case *actor.Restarting:
		l.Debug().Msg("restarting actor")
	case *actor.Terminated:
		l.Debug().Msg("child actor terminated")
	case messages.ExecuteNext:
		l.Info().
			Str(logger.SessionField, msg.SessionID.String()).
			Str(logger.PlanField, msg.PlanID.String()).
			Msg("executing next step")
		m.executeNext(ac, msg)
	case models.ActionResponse:
		l.Info().
			Str(logger.StepField, msg.StepID.String()).
			Str("status", string(msg.Status)).
			Msg("action response received from agent")
	default:
		l.Warn().Msgf("unknown message: %v", msg)
	}
}

func (m *Manager) executeNext(ac actor.Context, msg messages.ExecuteNext) {
	l := log.With().Fields(map[string]interface{}{logger.ActorIDField: ac.Self().GetId(), logger.AgentNameField: "manager"}).Logger()

	req, status, err := m.handler.NextStep(context.Background(), msg.SessionID, msg.PlanID)
	if err != nil {
		l.Error().Err(err).Msg("unable to pick next step")
		m.respond(ac, messages.ReportError{Err: err.Error()})
		return
	}
	if req == nil {
		m.respond(ac, messages.ExecuteResult{Message: status})
		return
	}

	target, fellBack := handler.Resolve(func(name models.AgentName) bool {
		_, ok := m.team[name]
		return ok
	}, req.Agent)
	if fellBack {
		l.Warn().Str("requested", string(req.Agent)).Msg("agent not registered, falling back to GenericAgent")
	}
	pid, ok := m.team[target]
	if !ok {
		// step stays in_progress; re-driving requires human replanning
		l.Error().Str("agent", string(target)).Msg("no agent available for dispatch")
		m.respond(ac, messages.ExecuteResult{Message: fmt.Sprintf("unable to resolve agent %s for step %s", req.Agent, req.StepID)})
		return
	}

	m.rec.StepDispatched(string(target))
	ac.Send(pid, *req)
	m.respond(ac, messages.ExecuteResult{Message: status})
}

func (m *Manager) respond(ac actor.Context, msg interface{}) {
	if ac.Sender() == nil {
		return
	}
	ac.Respond(msg)
}
