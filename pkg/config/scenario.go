package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-sdn/pkg/controller"
	"github.com/dd0wney/cluso-sdn/pkg/validation"
)

// LoadScenario reads a YAML scenario file
func LoadScenario(path string) (controller.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return controller.Scenario{}, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a scenario. Unknown keys are
// rejected so typos do not silently drop topology.
func ParseScenario(data []byte) (controller.Scenario, error) {
	var s controller.Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return controller.Scenario{}, fmt.Errorf("parse scenario: %w", err)
	}

	for i, sw := range s.Switches {
		if err := validation.ValidateRequest(&validation.SwitchRequest{ID: sw.ID, Ports: sw.Ports}); err != nil {
			return controller.Scenario{}, fmt.Errorf("switches[%d]: %w", i, err)
		}
	}
	for i, l := range s.Links {
		if err := validation.ValidateRequest(&validation.LinkRequest{Src: l.Src, Dst: l.Dst, Bandwidth: l.Bandwidth}); err != nil {
			return controller.Scenario{}, fmt.Errorf("links[%d]: %w", i, err)
		}
	}
	for i, f := range s.Flows {
		if err := validation.ValidateRequest(&validation.FlowRequest{Src: f.Src, Dst: f.Dst, Bandwidth: f.Bandwidth, Priority: f.Priority}); err != nil {
			return controller.Scenario{}, fmt.Errorf("flows[%d]: %w", i, err)
		}
	}
	for i, l := range s.Failures {
		if err := validation.ValidateRequest(&validation.LinkRefRequest{Src: l.Src, Dst: l.Dst}); err != nil {
			return controller.Scenario{}, fmt.Errorf("failures[%d]: %w", i, err)
		}
	}
	return s, nil
}
