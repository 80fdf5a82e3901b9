package actor

import (
	"context"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/chains"

	"go-agentplan/internal/agents/planner/handler"
	"go-agentplan/pkg/logger"
	"go-agentplan/pkg/memory"
	"go-agentplan/pkg/messages"
)

// Planner is the actor shell around plan creation. It answers NewTask
// requests with the persisted plan or an error report.
type Planner struct {
	handler *handler.Handler
}

func Props(chain chains.Chain, store memory.Store, agents string, callOpts []chains.ChainCallOption, propsOpts ...actor.PropsOption) *actor.Props {
	return actor.PropsFromProducer(func() actor.Actor {
		return &Planner{handler: handler.New(chain, store, agents, callOpts...)}
	}, propsOpts...)
}

func (agent *Planner) Receive(ac actor.Context) {
	l := log.With().Fields(map[string]interface{}{logger.ActorIDField: ac.Self().GetId(), logger.AgentNameField: "planner"}).Logger()
	switch msg := ac.Message().(type) {
	case *actor.Started:
		l.Debug().Msg("starting actor")
	case *actor.Stopping:
		l.Debug().Msg("stopping actor")
	case *actor.Stopped:
		l.Debug().Msg("stopped actor and its children")
	case *actor.Restarting:
		l.Debug().Msg("restarting actor")
	case messages.NewTask:
		l.Info().Str(logger.SessionField, msg.SessionID.String()).Msg("planning...")
		plan, steps, err := agent.handler.Plan(context.Background(), msg)
		if err != nil {
			l.Error().Err(err).Str(logger.SessionField, msg.SessionID.String()).Msg("unable to build plan")
			if ac.Sender() != nil {
				ac.Respond(messages.ReportError{Err: err.Error()})
			}
			return
		}
		l.Info().
			Str(logger.SessionField, msg.SessionID.String()).
			Str(logger.PlanField, plan.ID.String()).
			Int("steps", len(steps)).
			Msg("plan created")
		if ac.Sender() != nil {
			ac.Respond(messages.PlanCreated{Plan: plan, Steps: steps})
		}
	default:
		l.Warn().Msgf("unknown message: %v", msg)
	}
}
