package episode

// submittedActions serves a client's explicit step actions for one component.
// Agents missing from the map take no action.
type submittedActions struct {
	component string
	actions   map[string]int
}

func (s submittedActions) ComponentAction(agentID, component string) (int, bool) {
	if component != s.component {
		return 0, false
	}
	a, ok := s.actions[agentID]
	return a, ok
}
