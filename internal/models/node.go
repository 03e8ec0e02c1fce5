// Package models defines the domain types for flowscript.
package models

// Node types that carry meaning for script extraction. Every other type is
// passed through a document rewrite untouched.
const (
	TypeFunction = "function"
	TypeTab      = "tab"
	TypeSubflow  = "subflow"
)

// Node is the decoded view of one entry of a flows document.
type Node struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Name  string `json:"name,omitempty"`
	Label string `json:"label,omitempty"`
	Z     string `json:"z,omitempty"`
	Func  string `json:"func,omitempty"`
}

// IsFunction reports whether the node embeds a script body.
func (n Node) IsFunction() bool {
	return n.Type == TypeFunction
}

// IsContainer reports whether the node groups other nodes (tab or subflow).
func (n Node) IsContainer() bool {
	return n.Type == TypeTab || n.Type == TypeSubflow
}

// DisplayLabel returns the human-readable label of a container:
// "label" for tabs, "name" for subflows.
func (n Node) DisplayLabel() string {
	if n.Type == TypeTab {
		return n.Label
	}
	return n.Name
}
