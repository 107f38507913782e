package events

import "time"

// Topic names a stream of control-plane events.
type Topic string

const (
	TopicSwitchAdded  Topic = "switch.added"
	TopicLinkAdded    Topic = "link.added"
	TopicLinkRemoved  Topic = "link.removed"
	TopicFlowAdmitted Topic = "flow.admitted"
	TopicFlowRerouted Topic = "flow.rerouted"
	TopicFlowRemoved  Topic = "flow.removed"

	// TopicAll subscribes to every topic.
	TopicAll Topic = "*"
)

// Event describes one change to the control plane. Only the fields that
// apply to the topic are set.
type Event struct {
	Seq       uint64    `json:"seq"`
	Topic     Topic     `json:"topic"`
	Time      time.Time `json:"time"`
	Switch    string    `json:"switch,omitempty"`
	Src       string    `json:"src,omitempty"`
	Dst       string    `json:"dst,omitempty"`
	FlowID    string    `json:"flow_id,omitempty"`
	Path      []string  `json:"path,omitempty"`
	Bandwidth float64   `json:"bandwidth,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}
