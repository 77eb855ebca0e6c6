package build

import "urbandesign/internal/domain/economy"

type Observation struct {
	BuildPaymentNormalized float64 `json:"build_payment"`
	BuildSkill             float64 `json:"build_skill"`
}

const MetricTotalBuilds = "total_builds"

// Observations projects each spatial agent's pay and skill. Payment is
// normalised by the configured base payment; a zero base payment yields 0.
func (c *Component) Observations() map[string]Observation {
	out := map[string]Observation{}
	for _, agent := range c.agents.Agents() {
		if agent.Class == economy.ClassPlanner {
			continue
		}
		obs := Observation{BuildSkill: 1}
		if s, ok := c.samples[agent.ID]; ok {
			obs.BuildSkill = s.SampledSkill
		}
		if c.cfg.Payment > 0 {
			obs.BuildPaymentNormalized = agent.BuildPayment / float64(c.cfg.Payment)
		}
		out[agent.ID] = obs
	}
	return out
}

// Masks recomputes build feasibility from the current grid and inventories.
func (c *Component) Masks() map[string][]bool {
	out := map[string][]bool{}
	for _, agent := range c.agents.Agents() {
		out[agent.ID] = []bool{economy.CanBuild(agent, c.grid)}
	}
	return out
}

func (c *Component) Metrics() map[string]float64 {
	counts := map[string]int{}
	for _, agent := range c.agents.Agents() {
		counts[agent.ID] = 0
	}
	for _, batch := range c.history {
		for _, event := range batch {
			counts[event.Builder]++
		}
	}
	out := make(map[string]float64, len(counts)+1)
	for id, n := range counts {
		out[NBuildsKey(id)] = float64(n)
	}
	out[MetricTotalBuilds] = float64(c.grid.CountLandmarks(c.house.Name))
	return out
}

func NBuildsKey(agentID string) string {
	return agentID + "/n_builds"
}

func (c *Component) DenseLog() []economy.BuildBatch {
	out := make([]economy.BuildBatch, len(c.history))
	for i, batch := range c.history {
		out[i] = batch.Clone()
	}
	return out
}

func (c *Component) HistoryLen() int {
	return len(c.history)
}
