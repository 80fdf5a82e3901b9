package orchestration

import (
	"sync"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/chains"

	baseHandler "go-agentplan/internal/agents/base/handler"
	humanActor "go-agentplan/internal/agents/human/actor"
	managerActor "go-agentplan/internal/agents/manager/actor"
	plannerActor "go-agentplan/internal/agents/planner/actor"
	"go-agentplan/pkg/logger"
	"go-agentplan/pkg/memory"
	"go-agentplan/pkg/metrics"
	"go-agentplan/pkg/models"
	"go-agentplan/pkg/prompts"
	"go-agentplan/pkg/tools"
)

// Session is the explicit per-session context: the planner, group chat
// manager and human agents serving one session, with a clear lifecycle
// instead of a process-wide cache.
type Session struct {
	ID        uuid.UUID
	Planner   *actor.PID
	Manager   *actor.PID
	Human     *actor.PID
	CreatedAt time.Time
}

// Deps carries what every session's actors need.
type Deps struct {
	Store        memory.Store
	Recorder     *metrics.Recorder
	PlannerChain chains.Chain
	ActionChain  chains.Chain
	CallOpts     []chains.ChainCallOption
}

// Registry creates, looks up and tears down sessions.
type Registry struct {
	mu       sync.Mutex
	root     *actor.RootContext
	deps     Deps
	team     []baseHandler.Config
	agents   string // rendered team description for planning prompts
	sessions map[uuid.UUID]*Session
}

func NewRegistry(root *actor.RootContext, deps Deps) (*Registry, error) {
	team, err := teamConfigs()
	if err != nil {
		return nil, err
	}
	agents, err := tools.Summaries()
	if err != nil {
		return nil, err
	}
	return &Registry{
		root:     root,
		deps:     deps,
		team:     team,
		agents:   agents,
		sessions: make(map[uuid.UUID]*Session),
	}, nil
}

// Ensure returns the session for id, spawning its actors on first use.
func (r *Registry) Ensure(id uuid.UUID) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[id]; ok {
		return sess
	}

	decider := func(reason interface{}) actor.Directive {
		log.Error().Msgf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	strategy := actor.NewOneForOneStrategy(3, 10000, decider)

	chainFor := func(models.AgentName) chains.Chain { return r.deps.ActionChain }
	sess := &Session{
		ID:        id,
		Planner:   r.root.Spawn(plannerActor.Props(r.deps.PlannerChain, r.deps.Store, r.agents, r.deps.CallOpts, actor.WithSupervisor(strategy))),
		Manager:   r.root.Spawn(managerActor.Props(r.deps.Store, r.deps.Recorder, chainFor, r.team, r.deps.CallOpts, actor.WithSupervisor(strategy))),
		Human:     r.root.Spawn(humanActor.Props(r.deps.Store)),
		CreatedAt: time.Now(),
	}
	r.sessions[id] = sess
	log.Debug().Str(logger.SessionField, id.String()).Msg("session context created")
	return sess
}

// Get returns the session without creating it.
func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	return sess, ok
}

// Close stops the session's actors and forgets it.
func (r *Registry) Close(id uuid.UUID) {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return
	}
	r.root.Stop(sess.Planner)
	r.root.Stop(sess.Manager)
	r.root.Stop(sess.Human)
	log.Debug().Str(logger.SessionField, id.String()).Msg("session context closed")
}

// CloseAll tears down every live session, for shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	ids := make([]uuid.UUID, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	for _, id := range ids {
		r.Close(id)
	}
}

// teamConfigs builds the session team: one configurable agent per task-agent
// name, each with its static tool catalog and system message.
func teamConfigs() ([]baseHandler.Config, error) {
	configs := make([]baseHandler.Config, 0, len(models.TaskAgents))
	for _, name := range models.TaskAgents {
		catalog, err := tools.Catalog(name)
		if err != nil {
			return nil, err
		}
		configs = append(configs, baseHandler.Config{
			Name:          name,
			SystemMessage: prompts.SystemMessage(string(name)),
			Tools:         catalog,
		})
	}
	return configs, nil
}
