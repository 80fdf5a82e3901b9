package models

// AgentName identifies an agent in a session's team.
type AgentName string

const (
	HrAgent          AgentName = "HrAgent"
	MarketingAgent   AgentName = "MarketingAgent"
	ProcurementAgent AgentName = "ProcurementAgent"
	ProductAgent     AgentName = "ProductAgent"
	TechSupportAgent AgentName = "TechSupportAgent"
	GenericAgent     AgentName = "GenericAgent"
	HumanAgent       AgentName = "HumanAgent"
	PlannerAgent     AgentName = "PlannerAgent"
	GroupChatManager AgentName = "GroupChatManager"
)

// TaskAgents are the agents a planner may assign steps to.
var TaskAgents = []AgentName{
	HrAgent,
	MarketingAgent,
	ProcurementAgent,
	ProductAgent,
	TechSupportAgent,
	GenericAgent,
}

// KnownTaskAgent reports whether name is a registered task agent.
func KnownTaskAgent(name AgentName) bool {
	for _, a := range TaskAgents {
		if a == name {
			return true
		}
	}
	return false
}
