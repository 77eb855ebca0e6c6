package economy

func (a *Agent) AddItem(item string, amount float64) {
	if amount <= 0 || item == "" {
		return
	}
	if a.Inventory == nil {
		a.Inventory = map[string]float64{}
	}
	a.Inventory[item] += amount
}

func (a *Agent) ConsumeItem(item string, amount float64) bool {
	if amount <= 0 || item == "" || a.Inventory == nil {
		return false
	}
	current := a.Inventory[item]
	if current < amount {
		return false
	}
	a.Inventory[item] = current - amount
	return true
}

// Has reports whether the inventory covers every entry of costs.
func (a *Agent) Has(costs map[string]float64) bool {
	for item, need := range costs {
		if a.Inventory[item] < need {
			return false
		}
	}
	return true
}

func (a *Agent) AddEndogenous(key string, amount float64) {
	if a.Endogenous == nil {
		a.Endogenous = map[string]float64{}
	}
	a.Endogenous[key] += amount
}

func (a *Agent) ApplyStateFields(fields map[string]float64) {
	if v, ok := fields[StateFieldBuildPayment]; ok {
		a.BuildPayment = v
	}
	if v, ok := fields[StateFieldBuildSkill]; ok {
		a.BuildSkill = v
	}
}

func (a *Agent) Clone() *Agent {
	out := *a
	out.Inventory = cloneQuantities(a.Inventory)
	out.Endogenous = cloneQuantities(a.Endogenous)
	return &out
}

func cloneQuantities(in map[string]float64) map[string]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
