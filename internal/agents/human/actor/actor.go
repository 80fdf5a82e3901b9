package actor

import (
	"context"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/rs/zerolog/log"

	"go-agentplan/internal/agents/human/handler"
	"go-agentplan/pkg/logger"
	"go-agentplan/pkg/memory"
	"go-agentplan/pkg/messages"
)

// Human is the actor shell for human-feedback application.
type Human struct {
	handler *handler.Handler
}

func Props(store memory.Store) *actor.Props {
	return actor.PropsFromProducer(func() actor.Actor {
		return &Human{handler: handler.New(store)}
	})
}

func (agent *Human) Receive(ac actor.Context) {
	l := log.With().Fields(map[string]interface{}{logger.ActorIDField: ac.Self().GetId(), logger.AgentNameField: "human"}).Logger()
	switch msg := ac.Message().(type) {
	case *actor.Started:
		l.Debug().Msg("starting actor")
	case *actor.Stopping:
		l.Debug().Msg("stopping actor")
	case *actor.Stopped:
		l.Debug().Msg("stopped actor and its children")
	case *actor.Restarting:
		l.Debug().Msg("restarting actor")
	case messages.ApplyFeedback:
		l.Info().Str(logger.StepField, msg.Feedback.StepID.String()).Bool("approved", msg.Feedback.Approved).Msg("applying human feedback")
		step, err := agent.handler.HandleFeedback(context.Background(), msg.Feedback)
		if err != nil {
			l.Error().Err(err).Msg("unable to apply feedback")
			if ac.Sender() != nil {
				ac.Respond(messages.ReportError{Err: err.Error()})
			}
			return
		}
		if ac.Sender() != nil {
			ac.Respond(messages.FeedbackApplied{Step: step})
		}
	default:
		l.Warn().Msgf("unknown message: %v", msg)
	}
}
