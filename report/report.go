// Package report captures the current state of a layout as plain data and encodes it
// for machine consumption.
package report

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/TFMV/springy/physics"
	"github.com/TFMV/springy/runner"
)

// Position is a point in layout space
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Node is a node with its current position
type Node struct {
	ID       int64    `json:"id" yaml:"id"`
	Label    string   `json:"label,omitempty" yaml:"label,omitempty"`
	Position Position `json:"position" yaml:"position"`
	Fixed    bool     `json:"fixed,omitempty" yaml:"fixed,omitempty"`
	Value    *float64 `json:"value,omitempty" yaml:"value,omitempty"`
}

// Edge names the two node ids an edge connects
type Edge struct {
	ID     int64   `json:"id" yaml:"id"`
	Source int64   `json:"source" yaml:"source"`
	Target int64   `json:"target" yaml:"target"`
	Length float64 `json:"length" yaml:"length"`
	Label  string  `json:"label,omitempty" yaml:"label,omitempty"`
}

// Report is a snapshot of a layout
type Report struct {
	GraphID   string         `json:"graph_id" yaml:"graph_id"`
	GraphName string         `json:"graph_name" yaml:"graph_name"`
	Nodes     []Node         `json:"nodes" yaml:"nodes"`
	Edges     []Edge         `json:"edges" yaml:"edges"`
	Min       *Position      `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *Position      `json:"max,omitempty" yaml:"max,omitempty"`
	Energy    float64        `json:"energy" yaml:"energy"`
	Run       *runner.Result `json:"run,omitempty" yaml:"run,omitempty"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
}

// Snapshot reads the position of every node out of layout. run may be nil.
func Snapshot(layout *physics.Layout, run *runner.Result) (*Report, error) {
	g := layout.Graph()
	r := &Report{
		GraphID:   g.ID,
		GraphName: g.Name,
		Nodes:     make([]Node, 0, g.NodeCount()),
		Edges:     make([]Edge, 0, g.EdgeCount()),
		Energy:    layout.TotalEnergy(),
		Run:       run,
		Timestamp: time.Now(),
	}

	for _, node := range g.Nodes() {
		point, err := layout.NodePoint(node)
		if err != nil {
			return nil, errors.Wrap(err, "snapshot")
		}
		r.Nodes = append(r.Nodes, Node{
			ID:       node.ID,
			Label:    node.Label,
			Position: Position(point.Position),
			Fixed:    point.Fixed,
			Value:    node.Value,
		})
	}

	for _, edge := range g.Edges() {
		r.Edges = append(r.Edges, Edge{
			ID:     edge.ID,
			Source: edge.Source.ID,
			Target: edge.Target.ID,
			Length: edge.Length,
			Label:  edge.Label,
		})
	}

	if bounds := layout.Bounds(); bounds.IsValid() {
		lo, hi := Position(bounds.Min()), Position(bounds.Max())
		r.Min, r.Max = &lo, &hi
	}
	return r, nil
}

// Encoder writes a report in one format
type Encoder interface {
	Encode(w io.Writer, r *Report) error
	Name() string
}

// JSONEncoder writes indented JSON
type JSONEncoder struct{}

// Name returns the name of the encoder
func (JSONEncoder) Name() string { return "json" }

// Encode implements Encoder.
func (JSONEncoder) Encode(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(r), "encoding json report")
}

// YAMLEncoder writes YAML
type YAMLEncoder struct{}

// Name returns the name of the encoder
func (YAMLEncoder) Name() string { return "yaml" }

// Encode implements Encoder.
func (YAMLEncoder) Encode(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return errors.Wrap(err, "encoding yaml report")
	}
	return errors.Wrap(enc.Close(), "encoding yaml report")
}

// GetEncoder returns the encoder for format
func GetEncoder(format string) (Encoder, error) {
	switch strings.ToLower(format) {
	case "json":
		return JSONEncoder{}, nil
	case "yaml", "yml":
		return YAMLEncoder{}, nil
	default:
		return nil, errors.Newf("unsupported report format: %s", format)
	}
}
