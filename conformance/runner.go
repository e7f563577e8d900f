package conformance

import (
	"fmt"
	"strings"

	"atrium/builtin"
	"atrium/script"
	"atrium/types"
)

// Outcome is what running a Fixture's Command produced.
type Outcome struct {
	Output string
	Err    error
}

// Run builds the fixture's world and executes its top-level command,
// grounded on the teacher's runner.go Run: build one throwaway store
// per test, execute one piece of code, check one expectation. cfg
// overrides the script runtime's timeout/depth; the zero value takes
// script's defaults. Fixtures with Steps should use RunFixture instead.
func Run(f Fixture, cfg script.Config) (Outcome, *World) {
	w := buildWorld(f.World, cfg)
	return runCommand(w, f.Command, cfg), w
}

// RunFixture runs a whole Fixture — either its single Command/Expect
// pair, or its Steps in order against one built World — and returns the
// first mismatch found, if any. This is the entry point conformance_test
// drives for every testdata file.
func RunFixture(f Fixture, cfg script.Config) error {
	w := buildWorld(f.World, cfg)

	if len(f.Steps) == 0 {
		out := runCommand(w, f.Command, cfg)
		return Check(f.Expect, w, out)
	}

	for _, step := range f.Steps {
		out := runCommand(w, step.Command, cfg)
		if err := Check(step.Expect, w, out); err != nil {
			if step.Name != "" {
				return fmt.Errorf("step %q: %w", step.Name, err)
			}
			return err
		}
	}
	return nil
}

func runCommand(w *World, cmd CommandSpec, cfg script.Config) Outcome {
	if cmd.AdHoc != "" {
		player, _ := w.Graph.GetObject(w.resolveID(cmd.Player))
		targetID := player.ID
		if cmd.Target != "" {
			targetID = w.resolveID(cmd.Target)
		}
		ctx := &builtin.Context{
			Graph: w.Graph, Store: w.Store, Resolver: w.Resolver, VerbTable: w.VerbTable,
			Sessions: w.Sessions, SystemObjectID: w.SystemObjectID,
			Runtime: w.Runtime, This: player, Caller: player, Player: player, MaxDepth: cfg.MaxDepth,
		}
		val, err := w.Runtime.ExecuteAdHoc(ctx, cmd.AdHoc, targetID)
		if err != nil {
			return Outcome{Err: err}
		}
		if s, ok := val.(types.String); ok {
			return Outcome{Output: string(s)}
		}
		return Outcome{Output: val.Literal()}
	}

	player, ok := w.Graph.GetObject(w.resolveID(cmd.Player))
	if !ok {
		return Outcome{Err: fmt.Errorf("conformance fixture: unknown player %q", cmd.Player)}
	}
	output := w.Dispatcher.Dispatch(player, cmd.Input)
	return Outcome{Output: output}
}

// Check compares an Outcome against an Expectation, returning a
// non-nil error describing the first mismatch.
func Check(expect Expectation, w *World, out Outcome) error {
	if expect.ErrorKind != "" {
		if out.Err == nil {
			return fmt.Errorf("expected error kind %q, got success with output %q", expect.ErrorKind, out.Output)
		}
		if got := types.KindOf(out.Err).String(); got != expect.ErrorKind {
			return fmt.Errorf("expected error kind %q, got %q (%v)", expect.ErrorKind, got, out.Err)
		}
		return nil
	}
	if out.Err != nil {
		return fmt.Errorf("unexpected error: %v", out.Err)
	}
	if expect.Output != "" && out.Output != expect.Output {
		return fmt.Errorf("expected output %q, got %q", expect.Output, out.Output)
	}
	for _, want := range expect.OutputContains {
		if !strings.Contains(out.Output, want) {
			return fmt.Errorf("expected output to contain %q, got %q", want, out.Output)
		}
	}
	for _, pc := range expect.Properties {
		if err := checkProperty(w, pc); err != nil {
			return err
		}
	}
	return nil
}

func checkProperty(w *World, pc PropertyCheck) error {
	objID := w.resolveID(pc.Object)
	obj, ok := w.Graph.GetObject(objID)
	if !ok {
		return fmt.Errorf("property check: unknown object %q", pc.Object)
	}
	if pc.Name == "location" {
		want := w.resolveID(pc.Equals)
		if obj.Location != want {
			return fmt.Errorf("expected %s.location = %q, got %q", pc.Object, pc.Equals, obj.Location)
		}
		return nil
	}
	got, err := w.Graph.GetProperty(obj.ID, obj.ID, pc.Name)
	if err != nil {
		return fmt.Errorf("property check: get_property(%s, %q): %w", pc.Object, pc.Name, err)
	}
	var want types.Value
	if id, ok := w.ids[pc.Equals]; ok {
		want = types.String(id)
	} else {
		want = types.String(pc.Equals)
	}
	if !types.Equal(got, want) {
		return fmt.Errorf("expected %s.%s = %v, got %v", pc.Object, pc.Name, want, got)
	}
	return nil
}
