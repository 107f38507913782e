package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-sdn/pkg/controller"
	"github.com/dd0wney/cluso-sdn/pkg/flows"
	"github.com/dd0wney/cluso-sdn/pkg/validation"
	"github.com/dd0wney/cluso-sdn/pkg/visualization"
)

// errExit is returned by the exit command
var errExit = errors.New("exit")

type command struct {
	args []string
	help string
	run  func(c *controller.Controller, args []string) (string, error)
}

// commands are the console verbs. Arguments named bandwidth, priority or k
// must be numeric.
var commands = map[string]command{
	"add_switch": {
		args: []string{"switch_id"},
		help: "Add a new switch to the network",
		run: func(c *controller.Controller, args []string) (string, error) {
			if err := validation.ValidateSwitchID(args[0]); err != nil {
				return "", err
			}
			if !c.AddSwitch(args[0]) {
				return fmt.Sprintf("Switch %s already exists.", args[0]), nil
			}
			return fmt.Sprintf("Switch %s added.", args[0]), nil
		},
	},
	"add_link": {
		args: []string{"source", "destination", "bandwidth"},
		help: "Add a link between two switches",
		run: func(c *controller.Controller, args []string) (string, error) {
			bw, _ := strconv.ParseFloat(args[2], 64)
			if err := validation.ValidateRequest(&validation.LinkRequest{Src: args[0], Dst: args[1], Bandwidth: bw}); err != nil {
				return "", err
			}
			if err := c.AddLink(args[0], args[1], bw); err != nil {
				return "", err
			}
			return fmt.Sprintf("Link added between %s and %s with bandwidth %g", args[0], args[1], bw), nil
		},
	},
	"remove_link": {
		args: []string{"source", "destination"},
		help: "Remove a link between two switches",
		run: func(c *controller.Controller, args []string) (string, error) {
			result, err := c.RemoveLink(args[0], args[1])
			if err != nil {
				return "", err
			}
			return describeReconfiguration(c, "Link removed", result), nil
		},
	},
	"simulate_failure": {
		args: []string{"source", "destination"},
		help: "Simulate a link failure between two switches",
		run: func(c *controller.Controller, args []string) (string, error) {
			result, err := c.SimulateLinkFailure(args[0], args[1])
			if err != nil {
				return "", err
			}
			return describeReconfiguration(c, "Link failed", result), nil
		},
	},
	"list_switches": {
		help: "List all switches in the network",
		run: func(c *controller.Controller, _ []string) (string, error) {
			ids := c.ListSwitches()
			if len(ids) == 0 {
				return "No switches in the network.", nil
			}
			return "Switches: " + strings.Join(ids, ", "), nil
		},
	},
	"list_flows": {
		help: "List all flow table entries",
		run: func(c *controller.Controller, _ []string) (string, error) {
			lines := c.ListFlows()
			if len(lines) == 0 {
				return "No flows found.", nil
			}
			return strings.Join(lines, "\n"), nil
		},
	},
	"add_flow": {
		args: []string{"source", "destination", "bandwidth", "priority"},
		help: "Add a new flow between source and destination",
		run: func(c *controller.Controller, args []string) (string, error) {
			bw, _ := strconv.ParseFloat(args[2], 64)
			prio, _ := strconv.ParseFloat(args[3], 64)
			id, err := c.AddFlow(args[0], args[1], bw, prio)
			if err != nil {
				return "", err
			}
			f, _ := c.Flow(id)
			return fmt.Sprintf("Flow %s added via %s", id, strings.Join(f.Path, " -> ")), nil
		},
	},
	"remove_flow": {
		args: []string{"flow_id"},
		help: "Withdraw a flow and release its bandwidth",
		run: func(c *controller.Controller, args []string) (string, error) {
			if _, err := c.RemoveFlow(args[0]); err != nil {
				return "", err
			}
			return fmt.Sprintf("Flow %s removed.", args[0]), nil
		},
	},
	"compute_path": {
		args: []string{"start", "end"},
		help: "Compute shortest path between two nodes",
		run: func(c *controller.Controller, args []string) (string, error) {
			path, err := c.ComputeShortestPath(args[0], args[1])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Shortest path from %s to %s: %s", args[0], args[1], strings.Join(path, " -> ")), nil
		},
	},
	"k_paths": {
		args: []string{"start", "end", "k"},
		help: "Compute up to k shortest paths",
		run: func(c *controller.Controller, args []string) (string, error) {
			k, _ := strconv.Atoi(args[2])
			paths, err := c.KShortestPaths(args[0], args[1], k)
			if err != nil {
				return "", err
			}
			lines := make([]string, len(paths))
			for i, p := range paths {
				lines[i] = fmt.Sprintf("%d. %s (weight %.3f)", i+1, strings.Join(p.Nodes, " -> "), p.Weight)
			}
			return strings.Join(lines, "\n"), nil
		},
	},
	"clear_table": {
		args: []string{"switch_id"},
		help: "Drop every flow table entry installed on a switch",
		run: func(c *controller.Controller, args []string) (string, error) {
			return fmt.Sprintf("Removed %d entries from %s.", c.ClearFlowTable(args[0]), args[0]), nil
		},
	},
	"show_topology": {
		help: "Print the topology in Graphviz DOT format",
		run: func(c *controller.Controller, _ []string) (string, error) {
			layout, err := visualization.NewLayout("circular", visualization.LayoutConfig{})
			if err != nil {
				return "", err
			}
			v, err := visualization.Build(c.VisualizeTopology(), c.ShowLinkStats(), layout)
			if err != nil {
				return "", err
			}
			return strings.TrimRight(v.DOT(), "\n"), nil
		},
	},
	"show_stats": {
		help: "Show link utilization statistics",
		run: func(c *controller.Controller, _ []string) (string, error) {
			stats := c.ShowLinkStats()
			if len(stats) == 0 {
				return "No links in the network.", nil
			}
			lines := make([]string, len(stats))
			for i, s := range stats {
				lines[i] = fmt.Sprintf("%s → %s: %.2f%% utilized (%g/%g)", s.Src, s.Dst, s.Percent(), s.Utilization, s.Capacity)
			}
			return strings.Join(lines, "\n"), nil
		},
	},
}

func isNumericArg(name string) bool {
	return name == "bandwidth" || name == "priority"
}

// execute runs one console line against the controller
func execute(c *controller.Controller, line string) (string, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return "", nil
	}
	name, args := strings.ToLower(parts[0]), parts[1:]

	switch name {
	case "help":
		return helpText(), nil
	case "exit", "quit":
		return "", errExit
	}

	cmd, ok := commands[name]
	if !ok {
		return "", fmt.Errorf("unknown command: %s (type 'help' to see available commands)", name)
	}
	if len(args) != len(cmd.args) {
		return "", fmt.Errorf("invalid arguments. Usage: %s", usage(name, cmd))
	}
	for i, arg := range args {
		if cmd.args[i] == "k" {
			if _, err := strconv.Atoi(arg); err != nil {
				return "", errors.New("k must be an integer")
			}
			continue
		}
		if !isNumericArg(cmd.args[i]) {
			continue
		}
		if _, err := strconv.ParseFloat(arg, 64); err != nil {
			return "", fmt.Errorf("%s must be a number", cmd.args[i])
		}
	}
	return cmd.run(c, args)
}

func usage(name string, cmd command) string {
	parts := []string{name}
	for _, a := range cmd.args {
		parts = append(parts, "<"+a+">")
	}
	return strings.Join(parts, " ")
}

func helpText() string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := []string{"Available commands:"}
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("  %s - %s", usage(name, commands[name]), commands[name].help))
	}
	lines = append(lines, "  exit - Exit the console")
	return strings.Join(lines, "\n")
}

func describeReconfiguration(c *controller.Controller, verb string, r flows.Reconfiguration) string {
	lines := []string{fmt.Sprintf("%s between %s and %s", verb, r.Src, r.Dst)}
	for _, id := range r.Rerouted {
		f, _ := c.Flow(id)
		lines = append(lines, fmt.Sprintf("Flow %s reconfigured with new path: %s", id, strings.Join(f.Path, " -> ")))
	}
	for _, id := range r.Removed {
		lines = append(lines, fmt.Sprintf("Flow %s removed: no alternative path available", id))
	}
	return strings.Join(lines, "\n")
}
