package loader

import (
	"fmt"
	"maps"
	"slices"

	"github.com/mitchellh/mapstructure"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/compstate/internal/ir"
)

// Document is the decoded form of a machine document.
type Document struct {
	Root     string                `json:"root" mapstructure:"root"`
	Machines map[string]MachineDoc `json:"machines" mapstructure:"machines"`
}

// MachineDoc describes one nesting level.
type MachineDoc struct {
	Start  string     `json:"start" mapstructure:"start"`
	States []StateDoc `json:"states" mapstructure:"states"`
}

// StateDoc describes one state. Sub names another machine in the document.
type StateDoc struct {
	ID          string          `json:"id" mapstructure:"id"`
	Sub         string          `json:"sub,omitempty" mapstructure:"sub"`
	Transitions []TransitionDoc `json:"transitions,omitempty" mapstructure:"transitions"`
}

// TransitionDoc describes one edge.
type TransitionDoc struct {
	Input string `json:"input" mapstructure:"input"`
	Next  string `json:"next" mapstructure:"next"`
}

// decodeDocument converts a generic decoded tree into a Document.
// Unknown keys are rejected. Scalar ids such as 1 or true decode as strings.
func decodeDocument(raw any) (*Document, error) {
	var doc Document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &doc,
	})
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
	}
	if err := dec.Decode(raw); err != nil {
		return nil, &LoadError{Code: ErrCodeDecodeFailed, Message: err.Error()}
	}
	return &doc, nil
}

// MachineNames returns the machine names in sorted order.
func (d *Document) MachineNames() []string {
	return slices.Sorted(maps.Keys(d.Machines))
}

// RootName returns the machine the document starts from: Root when set,
// otherwise the only machine in the document.
func (d *Document) RootName() (string, error) {
	if d.Root != "" {
		if _, ok := d.Machines[d.Root]; !ok {
			return "", &LoadError{Code: ErrCodeUnknownRoot, Message: fmt.Sprintf("root %q names no machine", d.Root)}
		}
		return d.Root, nil
	}
	if len(d.Machines) == 1 {
		return d.MachineNames()[0], nil
	}
	return "", &LoadError{
		Code:    ErrCodeUnknownRoot,
		Message: fmt.Sprintf("root is required when a document has %d machines", len(d.Machines)),
	}
}

// Build creates the configuration graph rooted at RootName. Each machine is
// created once; states naming the same sub share its pointer.
func (d *Document) Build(opts ...Option) (*ir.MachineConfig, error) {
	o := newOptions(opts)

	root, err := d.RootName()
	if err != nil {
		return nil, err
	}

	configs := make(map[string]*ir.MachineConfig, len(d.Machines))
	for _, name := range d.MachineNames() {
		configs[name] = &ir.MachineConfig{Name: nfc(name)}
	}

	for _, name := range d.MachineNames() {
		m := d.Machines[name]
		cfg := configs[name]
		cfg.Start = ir.StateID(nfc(m.Start))
		cfg.States = make([]ir.StateConfig, len(m.States))

		for i, s := range m.States {
			id := ir.StateID(nfc(s.ID))
			state := ir.StateConfig{
				ID:          id,
				Transitions: make([]ir.TransitionConfig, len(s.Transitions)),
			}
			if s.Sub != "" {
				sub, ok := configs[s.Sub]
				if !ok {
					return nil, &LoadError{
						Code:    ErrCodeUnknownSub,
						Message: fmt.Sprintf("machine %q state %q: sub %q names no machine", name, s.ID, s.Sub),
					}
				}
				state.Sub = sub
			}
			if o.hooks != nil {
				state.OnEnter = o.hooks.Enter(cfg.Name, id)
				state.OnExit = o.hooks.Exit(cfg.Name, id)
			}
			for j, t := range s.Transitions {
				input := ir.NewInput(t.Input)
				tc := ir.TransitionConfig{Input: input, Next: ir.StateID(nfc(t.Next))}
				if o.hooks != nil {
					tc.OnTransition = o.hooks.Transition(cfg.Name, id, input)
				}
				state.Transitions[j] = tc
			}
			cfg.States[i] = state
		}
	}

	return configs[root], nil
}

func nfc(s string) string {
	return norm.NFC.String(s)
}
