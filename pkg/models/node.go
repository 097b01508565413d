package models

// NodeTypeTrigger marks the entry point of a graph. Trigger nodes are pure
// markers: the engine selects them as the start node but never executes them.
const NodeTypeTrigger = "trigger"

// NodeTypeCondition is special-cased by the engine's branch policy: outgoing
// edges labelled "true"/"false" are followed according to the node's boolean
// result.
const NodeTypeCondition = "condition"

// Position is the editor placement of a node. It has no runtime meaning.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// WorkflowNode is one typed step in the automation graph. Type is an open tag
// resolved against the executor registry at dispatch time; Data carries the
// node's configuration map.
type WorkflowNode struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Data     map[string]any `json:"data"`
	Position *Position      `json:"position,omitempty"`
}

// ConfigValue looks up a string key either directly in Data or nested under
// Data["config"]. The workflow editor historically saved node settings both
// ways, so readers must accept both shapes.
func (n *WorkflowNode) ConfigValue(key string) (any, bool) {
	if n.Data == nil {
		return nil, false
	}

	if config, ok := n.Data["config"].(map[string]any); ok {
		if v, ok := config[key]; ok {
			return v, true
		}
	}

	v, ok := n.Data[key]

	return v, ok
}

// ConfigString is ConfigValue narrowed to string values; non-strings and
// missing keys yield "".
func (n *WorkflowNode) ConfigString(key string) string {
	v, ok := n.ConfigValue(key)
	if !ok {
		return ""
	}

	s, _ := v.(string)

	return s
}

// WorkflowEdge is a directed connection between two nodes. Label only has
// semantic meaning on edges leaving a condition node ("true"/"false").
type WorkflowEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}
