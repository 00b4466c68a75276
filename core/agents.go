package workflow

import "slices"

// The helpers below keep ActiveAgents exactly the set of AgentStatuses keys
// whose IsActive is true. Every mutation copies, so prior snapshots stay
// valid.

func cloneAgentStatuses(statuses map[string]AgentStatus) map[string]AgentStatus {
	cloned := make(map[string]AgentStatus, len(statuses)+1)
	for agent, status := range statuses {
		cloned[agent] = status
	}
	return cloned
}

func addActiveAgent(agents []string, agent string) []string {
	if slices.Contains(agents, agent) {
		return agents
	}

	added := make([]string, len(agents), len(agents)+1)
	copy(added, agents)
	return append(added, agent)
}

func removeActiveAgent(agents []string, agent string) []string {
	i := slices.Index(agents, agent)
	if i < 0 {
		return agents
	}

	removed := make([]string, 0, len(agents)-1)
	removed = append(removed, agents[:i]...)
	return append(removed, agents[i+1:]...)
}
