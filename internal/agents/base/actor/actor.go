package actor

import (
	"context"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/chains"

	"go-agentplan/internal/agents/base/handler"
	"go-agentplan/pkg/logger"
	"go-agentplan/pkg/memory"
	"go-agentplan/pkg/metrics"
	"go-agentplan/pkg/models"
)

// Agent is the actor shell around one configured task agent. It receives
// ActionRequests from the group chat manager and replies with the
// ActionResponse.
type Agent struct {
	handler *handler.Handler
	name    models.AgentName
	rec     *metrics.Recorder
}

func Props(cfg handler.Config, chain chains.Chain, store memory.Store, rec *metrics.Recorder, callOpts []chains.ChainCallOption, propsOpts ...actor.PropsOption) *actor.Props {
	return actor.PropsFromProducer(func() actor.Actor {
		return &Agent{
			handler: handler.New(cfg, chain, store, callOpts...),
			name:    cfg.Name,
			rec:     rec,
		}
	}, propsOpts...)
}

func (agent *Agent) Receive(ac actor.Context) {
	l := log.With().Fields(map[string]interface{}{logger.ActorIDField: ac.Self().GetId(), logger.AgentNameField: string(agent.name)}).Logger()
	switch msg := ac.Message().(type) {
	case *actor.Started:
		l.Debug().Msg("starting actor")
	case *actor.Stopping:
		l.Debug().Msg("stopping actor")
	case *actor.Stopped:
		l.Debug().Msg("stopped actor and its children")
	case *actor.Restarting:
		l.Debug().Msg("restarting actor")
	case models.ActionRequest:
		l.Info().Str(logger.StepField, msg.StepID.String()).Msg("action request received")
		resp := agent.handler.HandleAction(context.Background(), msg)
		switch resp.Status {
		case models.StepCompleted:
			agent.rec.StepCompleted(string(agent.name))
		default:
			agent.rec.StepFailed(string(agent.name))
		}
		if ac.Parent() == nil {
			// best effort: without a manager the response has nowhere to go
			l.Warn().Str(logger.StepField, msg.StepID.String()).Msg("no response sink for action response")
			return
		}
		ac.Send(ac.Parent(), resp)
	default:
		l.Warn().Msgf("unknown message: %v", msg)
	}
}
