package build

import (
	"fmt"

	"urbandesign/internal/app/ports"
	"urbandesign/internal/domain/economy"
	"urbandesign/internal/domain/world"
)

// Step resolves one timestep. Every action is read and validated before any
// agent is mutated, so an ActionError leaves inventories and history intact.
func (c *Component) Step(actions ports.ActionSource) (economy.BuildBatch, error) {
	builders := make([]*economy.Agent, 0)
	for _, agent := range c.randomOrderAgents() {
		if _, ok := c.ActionCount(agent.Class); !ok {
			continue
		}
		action, ok := actions.ComponentAction(agent.ID, Name)
		if !ok {
			continue
		}
		switch action {
		case actionNoop:
		case actionBuild:
			builders = append(builders, agent)
		default:
			return nil, &economy.ActionError{AgentID: agent.ID, Action: action}
		}
	}

	batch := economy.BuildBatch{}
	for _, agent := range builders {
		if !economy.CanBuild(agent, c.grid) {
			continue
		}
		event, err := c.build(agent)
		if err != nil {
			c.history = append(c.history, batch)
			return batch.Clone(), err
		}
		batch = append(batch, event)
	}
	c.history = append(c.history, batch)
	return batch.Clone(), nil
}

func (c *Component) build(agent *economy.Agent) (economy.BuildEvent, error) {
	owner := ""
	if c.house.Ownable {
		owner = agent.ID
	}
	if err := c.grid.PlaceLandmark(c.house.Name, agent.Loc, owner); err != nil {
		return economy.BuildEvent{}, fmt.Errorf("place %s for agent %s: %w", c.house.Name, agent.ID, err)
	}
	for item, cost := range economy.ResourceCost() {
		agent.ConsumeItem(item, cost)
	}
	agent.AddItem(world.ItemCoin, agent.BuildPayment)
	agent.AddEndogenous(world.EndogenousLabor, c.cfg.BuildLabor)
	return economy.BuildEvent{
		Builder: agent.ID,
		Loc:     agent.Loc,
		Income:  agent.BuildPayment,
	}, nil
}

func (c *Component) randomOrderAgents() []*economy.Agent {
	agents := append([]*economy.Agent(nil), c.agents.Agents()...)
	c.rng.Shuffle(len(agents), func(i, j int) {
		agents[i], agents[j] = agents[j], agents[i]
	})
	return agents
}
