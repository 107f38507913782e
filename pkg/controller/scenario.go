package controller

import (
	"fmt"

	"github.com/dd0wney/cluso-sdn/pkg/flows"
)

// SwitchSpec declares a switch and its ports.
type SwitchSpec struct {
	ID    string `yaml:"id" json:"id"`
	Ports []int  `yaml:"ports,omitempty" json:"ports,omitempty"`
}

// LinkSpec declares a link.
type LinkSpec struct {
	Src       string  `yaml:"src" json:"src"`
	Dst       string  `yaml:"dst" json:"dst"`
	Bandwidth float64 `yaml:"bandwidth" json:"bandwidth"`
}

// FlowSpec declares a flow to admit.
type FlowSpec struct {
	Src       string  `yaml:"src" json:"src"`
	Dst       string  `yaml:"dst" json:"dst"`
	Bandwidth float64 `yaml:"bandwidth" json:"bandwidth"`
	Priority  float64 `yaml:"priority" json:"priority"`
}

// LinkRef names an existing link.
type LinkRef struct {
	Src string `yaml:"src" json:"src"`
	Dst string `yaml:"dst" json:"dst"`
}

// Scenario is a scripted topology: switches and links are created first,
// then flows admitted, then failures injected, each in listed order.
type Scenario struct {
	Name     string       `yaml:"name,omitempty" json:"name,omitempty"`
	Switches []SwitchSpec `yaml:"switches" json:"switches"`
	Links    []LinkSpec   `yaml:"links" json:"links"`
	Flows    []FlowSpec   `yaml:"flows" json:"flows"`
	Failures []LinkRef    `yaml:"failures" json:"failures"`
}

// ScenarioResult reports what applying a scenario produced.
type ScenarioResult struct {
	FlowIDs          []string
	Reconfigurations []flows.Reconfiguration
}

// Apply runs a scenario through the controller, stopping at the first
// failing step. Steps before the failure stay applied.
func (c *Controller) Apply(s Scenario) (ScenarioResult, error) {
	var result ScenarioResult

	for i, sw := range s.Switches {
		c.AddSwitch(sw.ID)
		for _, port := range sw.Ports {
			if err := c.AddPort(sw.ID, port); err != nil {
				return result, fmt.Errorf("switch %d (%s): %w", i, sw.ID, err)
			}
		}
	}
	for i, l := range s.Links {
		if err := c.AddLink(l.Src, l.Dst, l.Bandwidth); err != nil {
			return result, fmt.Errorf("link %d (%s-%s): %w", i, l.Src, l.Dst, err)
		}
	}
	for i, f := range s.Flows {
		id, err := c.AddFlow(f.Src, f.Dst, f.Bandwidth, f.Priority)
		if err != nil {
			return result, fmt.Errorf("flow %d (%s-%s): %w", i, f.Src, f.Dst, err)
		}
		result.FlowIDs = append(result.FlowIDs, id)
	}
	for i, l := range s.Failures {
		r, err := c.SimulateLinkFailure(l.Src, l.Dst)
		if err != nil {
			return result, fmt.Errorf("failure %d (%s-%s): %w", i, l.Src, l.Dst, err)
		}
		result.Reconfigurations = append(result.Reconfigurations, r)
	}
	return result, nil
}
