package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Variable is a named string value usable inside {{name}} placeholders.
type Variable struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Command identifies the kind of operation a parameter set runs.
type Command string

const (
	CommandCopy       Command = "copy"
	CommandModifyJSON Command = "modify-json"
)

// Commands lists every known command kind in display order.
var Commands = []Command{CommandCopy, CommandModifyJSON}

// ParseCommand converts a user-supplied string into a Command.
func ParseCommand(s string) (Command, error) {
	for _, c := range Commands {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown command %q: must be one of %v", s, Commands)
}

// Operation is the per-command payload of a parameter set.
// Implemented only by CopyOp and ModifyJSONOp.
type Operation interface {
	Kind() Command
	Source() string
	Target() string
	SkipsExisting() bool
	operation()
}

// CopyOp copies files from Source to Target.
type CopyOp struct {
	From      string
	To        string
	SkipExist bool
}

func (CopyOp) Kind() Command         { return CommandCopy }
func (o CopyOp) Source() string      { return o.From }
func (o CopyOp) Target() string      { return o.To }
func (o CopyOp) SkipsExisting() bool { return o.SkipExist }
func (CopyOp) operation()            {}

// ModifyJSONOp rewrites JSON documents selected by JSONPath.
type ModifyJSONOp struct {
	From      string
	To        string
	SkipExist bool
	JSONPath  string
}

func (ModifyJSONOp) Kind() Command         { return CommandModifyJSON }
func (o ModifyJSONOp) Source() string      { return o.From }
func (o ModifyJSONOp) Target() string      { return o.To }
func (o ModifyJSONOp) SkipsExisting() bool { return o.SkipExist }
func (ModifyJSONOp) operation()            {}

// Params is the flat wire form of an Operation.
type Params struct {
	From      string `json:"from" yaml:"from"`
	To        string `json:"to" yaml:"to"`
	SkipExist bool   `json:"skipExist,omitempty" yaml:"skipExist,omitempty"`
	JSONPath  string `json:"jsonPath,omitempty" yaml:"jsonPath,omitempty"`
}

// NewOperation builds the variant for cmd. A modify-json without a JSON path
// is rejected; a JSON path given for copy is ignored.
func NewOperation(cmd Command, p Params) (Operation, error) {
	switch cmd {
	case CommandCopy:
		return CopyOp{From: p.From, To: p.To, SkipExist: p.SkipExist}, nil
	case CommandModifyJSON:
		if p.JSONPath == "" {
			return nil, &ValidationError{Fields: []FieldError{{Field: "jsonPath", Message: "JSON path is required"}}}
		}
		return ModifyJSONOp{From: p.From, To: p.To, SkipExist: p.SkipExist, JSONPath: p.JSONPath}, nil
	default:
		return nil, fmt.Errorf("unknown command %q", cmd)
	}
}

// ParamsOf flattens an operation into its wire form.
func ParamsOf(op Operation) Params {
	switch o := op.(type) {
	case CopyOp:
		return Params{From: o.From, To: o.To, SkipExist: o.SkipExist}
	case ModifyJSONOp:
		return Params{From: o.From, To: o.To, SkipExist: o.SkipExist, JSONPath: o.JSONPath}
	default:
		return Params{}
	}
}

// ParamSet is a named, reusable preset for one command.
type ParamSet struct {
	ID        string
	Name      string
	Op        Operation
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Command returns the command kind of the preset, or "" if it has no operation.
func (p ParamSet) Command() Command {
	if p.Op == nil {
		return ""
	}
	return p.Op.Kind()
}

type paramSetWire struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Command   Command `json:"command" yaml:"command"`
	Params    Params  `json:"params" yaml:"params"`
	CreatedAt int64   `json:"createdAt" yaml:"createdAt"`
	UpdatedAt int64   `json:"updatedAt" yaml:"updatedAt"`
}

func (p ParamSet) wire() (paramSetWire, error) {
	if p.Op == nil {
		return paramSetWire{}, fmt.Errorf("param set %q has no operation", p.ID)
	}
	return paramSetWire{
		ID:        p.ID,
		Name:      p.Name,
		Command:   p.Op.Kind(),
		Params:    ParamsOf(p.Op),
		CreatedAt: p.CreatedAt.UnixMilli(),
		UpdatedAt: p.UpdatedAt.UnixMilli(),
	}, nil
}

// MarshalJSON encodes the preset in the flat document shape.
func (p ParamSet) MarshalJSON() ([]byte, error) {
	w, err := p.wire()
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// MarshalYAML lets exports use the same field names as the JSON document.
func (p ParamSet) MarshalYAML() (interface{}, error) {
	return p.wire()
}

// UnmarshalJSON decodes the flat document shape. Unknown commands are an
// error. A stored modify-json without a path is kept as-is so that a
// hand-edited document can still be listed and repaired.
func (p *ParamSet) UnmarshalJSON(data []byte) error {
	var w paramSetWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var op Operation
	switch w.Command {
	case CommandCopy:
		op = CopyOp{From: w.Params.From, To: w.Params.To, SkipExist: w.Params.SkipExist}
	case CommandModifyJSON:
		op = ModifyJSONOp{From: w.Params.From, To: w.Params.To, SkipExist: w.Params.SkipExist, JSONPath: w.Params.JSONPath}
	default:
		return fmt.Errorf("param set %q: unknown command %q", w.ID, w.Command)
	}
	*p = ParamSet{
		ID:        w.ID,
		Name:      w.Name,
		Op:        op,
		CreatedAt: time.UnixMilli(w.CreatedAt),
		UpdatedAt: time.UnixMilli(w.UpdatedAt),
	}
	return nil
}

// Document is the single persisted aggregate. Both stores read and rewrite
// it wholesale.
type Document struct {
	Variables []Variable `json:"variables" yaml:"variables"`
	ParamSets []ParamSet `json:"paramSets" yaml:"paramSets"`
}

// EmptyDocument returns a document with non-nil, empty collections.
func EmptyDocument() *Document {
	return &Document{Variables: []Variable{}, ParamSets: []ParamSet{}}
}

// Normalize replaces nil collections with empty ones so that encoding never
// writes null.
func (d *Document) Normalize() {
	if d.Variables == nil {
		d.Variables = []Variable{}
	}
	if d.ParamSets == nil {
		d.ParamSets = []ParamSet{}
	}
}
