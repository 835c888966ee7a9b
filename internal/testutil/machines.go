// Package testutil provides deterministic fixtures shared by package tests.
package testutil

import "github.com/roach88/compstate/internal/ir"

// Inputs used by the sample machines.
const (
	Continue ir.Input = "Continue"
	GoBack   ir.Input = "GoBack"
	Skip     ir.Input = "Skip"
)

// Linear returns A --Continue--> B --Continue--> C.
func Linear() *ir.MachineConfig {
	return &ir.MachineConfig{
		Name:  "linear",
		Start: "A",
		States: []ir.StateConfig{
			{ID: "A", Transitions: []ir.TransitionConfig{{Input: Continue, Next: "B"}}},
			{ID: "B", Transitions: []ir.TransitionConfig{{Input: Continue, Next: "C"}}},
			{ID: "C"},
		},
	}
}

// Nested returns A(sub: D --Continue--> E --Continue--> F) --Continue--> B.
func Nested() *ir.MachineConfig {
	sub := &ir.MachineConfig{
		Name:  "inner",
		Start: "D",
		States: []ir.StateConfig{
			{ID: "D", Transitions: []ir.TransitionConfig{{Input: Continue, Next: "E"}}},
			{ID: "E", Transitions: []ir.TransitionConfig{{Input: Continue, Next: "F"}}},
			{ID: "F"},
		},
	}
	return &ir.MachineConfig{
		Name:  "outer",
		Start: "A",
		States: []ir.StateConfig{
			{ID: "A", Sub: sub, Transitions: []ir.TransitionConfig{{Input: Continue, Next: "B"}}},
			{ID: "B", Transitions: []ir.TransitionConfig{{Input: GoBack, Next: "A"}}},
		},
	}
}

// TwoLevel returns the two-level machine used throughout the engine tests:
//
//	A --Continue--> B
//	B(sub: D --Continue--> E --Continue--> F, F --GoBack--> E)
//	B --Continue--> C, B --GoBack--> A
//	C --GoBack--> B
//
// When rec is non-nil every state and edge reports to it.
func TwoLevel(rec *Recorder) *ir.MachineConfig {
	level2 := &ir.MachineConfig{
		Name:  "level2",
		Start: "D",
		States: []ir.StateConfig{
			rec.State("D", edge(rec, Continue, "E")),
			rec.State("E", edge(rec, Continue, "F")),
			rec.State("F", edge(rec, GoBack, "E")),
		},
	}
	b := rec.State("B", edge(rec, Continue, "C"), edge(rec, GoBack, "A"))
	b.Sub = level2
	return &ir.MachineConfig{
		Name:  "level1",
		Start: "A",
		States: []ir.StateConfig{
			rec.State("A", edge(rec, Continue, "B")),
			b,
			rec.State("C", edge(rec, GoBack, "B")),
		},
	}
}

func edge(rec *Recorder, input ir.Input, next ir.StateID) ir.TransitionConfig {
	return rec.Edge(input, next)
}

// Kiosk inputs and states.
const (
	Cancel        ir.Input = "Cancel"
	Repeat        ir.Input = "Repeat"
	Logout        ir.Input = "Logout"
	Timeout       ir.Input = "Timeout"
	Public        ir.Input = "Public"
	Personalized  ir.Input = "Personalized"
	Administrator ir.Input = "Administrator"
	FlushCache    ir.Input = "FlushCache"
	DeleteHistory ir.Input = "DeleteHistory"
	ViewLog       ir.Input = "ViewLog"
)

// KioskInputs lists every input the kiosk understands, plus one it ignores.
var KioskInputs = []ir.Input{
	Continue, GoBack, Cancel, Repeat, Logout, Timeout,
	Public, Personalized, Administrator,
	FlushCache, DeleteHistory, ViewLog,
}

// Kiosk returns a photo kiosk with a photo session machine shared by two
// parent states and an administrator menu.
func Kiosk(rec *Recorder) *ir.MachineConfig {
	photo := &ir.MachineConfig{
		Name:  "photo",
		Start: "Welcome",
		States: []ir.StateConfig{
			rec.State("Welcome", edge(rec, Continue, "CapturePhoto")),
			rec.State("CapturePhoto", edge(rec, Continue, "EditPhoto")),
			rec.State("EditPhoto", edge(rec, Continue, "PrintPhoto")),
			rec.State("PrintPhoto", edge(rec, Continue, "ThankYou"), edge(rec, Repeat, "CapturePhoto")),
			rec.State("ThankYou"),
		},
	}

	back := func() []ir.TransitionConfig {
		return []ir.TransitionConfig{edge(rec, Continue, "Menu"), edge(rec, GoBack, "Menu")}
	}
	administrator := &ir.MachineConfig{
		Name:  "administrator",
		Start: "Menu",
		States: []ir.StateConfig{
			rec.State("Menu",
				edge(rec, FlushCache, "FlushCache"),
				edge(rec, DeleteHistory, "DeleteHistory"),
				edge(rec, ViewLog, "ViewLog")),
			rec.State("FlushCache", back()...),
			rec.State("DeleteHistory", back()...),
			rec.State("ViewLog", back()...),
		},
	}

	public := rec.State("PublicPhotoSession",
		edge(rec, Continue, "Login"), edge(rec, Logout, "Login"), edge(rec, Timeout, "Login"))
	public.Sub = photo
	personalized := rec.State("PersonalizedPhotoSession",
		edge(rec, Continue, "Login"), edge(rec, Logout, "Login"), edge(rec, Timeout, "Login"))
	personalized.Sub = photo
	admin := rec.State("AdministratorSession",
		edge(rec, Logout, "Login"), edge(rec, Timeout, "Login"))
	admin.Sub = administrator

	return &ir.MachineConfig{
		Name:  "kiosk",
		Start: "Startup",
		States: []ir.StateConfig{
			rec.State("Startup", edge(rec, Continue, "Login")),
			rec.State("Login",
				edge(rec, Public, "PublicPhotoSession"),
				edge(rec, Personalized, "PersonalizedPhotoSession"),
				edge(rec, Administrator, "AdministratorSession"),
				edge(rec, Timeout, "Idle")),
			public,
			personalized,
			admin,
			rec.State("Idle", edge(rec, Continue, "Login")),
		},
	}
}
