package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"atrium/builtin"
	"atrium/objectgraph"
	"atrium/resolver"
	"atrium/script"
	"atrium/store"
	"atrium/types"
	"atrium/verbtable"
)

// inspectCmd groups the read-only, no-server-started commands this
// rebuild carries forward from the teacher's one-shot flag.String
// inspection flags (cmd/_old_barn/main.go: -verb-code, -list-verbs,
// -obj-info, -eval, -ancestry), rehomed as cobra leaves under a single
// "inspect" parent per §4.10.
func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "inspect a saved world snapshot without starting a server",
	}
	cmd.AddCommand(inspectVerbCmd(), inspectObjectCmd(), inspectAncestryCmd(), inspectEvalCmd())
	return cmd
}

// loadInspectStore loads the snapshot named by --db (falling back to
// the config default) for read-only inspection.
func loadInspectStore(cmd *cobra.Command) (*store.Store, *objectStack, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open snapshot %s: %w", cfg.DBPath, err)
	}
	defer f.Close()
	s, err := store.LoadSnapshot(f)
	if err != nil {
		return nil, nil, fmt.Errorf("load snapshot %s: %w", cfg.DBPath, err)
	}
	return s, newObjectStack(s), nil
}

// objectStack bundles the read-only graph/verbtable/resolver collaborators
// inspection needs without standing up script or dispatch.
type objectStack struct {
	graph *objectgraph.Graph
	verbs *verbtable.Table
	res   *resolver.Resolver
}

func newObjectStack(s *store.Store) *objectStack {
	g := objectgraph.New(s)
	return &objectStack{graph: g, verbs: verbtable.New(g, s), res: resolver.New(g, s)}
}

// parseObjRef parses "#N" or "N" to a types.ObjID, grounded on the
// teacher's parseObjID (cmd/_old_barn/main.go).
func parseObjRef(s string) (types.ObjID, error) {
	s = strings.TrimPrefix(s, "#")
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid object reference %q, expected #N", s)
	}
	return types.ObjID(n), nil
}

// parseObjVerbRef parses "#N:verbname" to (ObjID, verbname).
func parseObjVerbRef(s string) (types.ObjID, string, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("invalid format %q, expected #obj:verb", s)
	}
	ref, err := parseObjRef(parts[0])
	if err != nil {
		return 0, "", err
	}
	return ref, parts[1], nil
}

func inspectVerbCmd() *cobra.Command {
	var listOnly bool
	cmd := &cobra.Command{
		Use:   "verb <#obj:verb | #obj --list>",
		Short: "dump a verb's code, or list every verb on an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, stack, err := loadInspectStore(cmd)
			if err != nil {
				return err
			}
			if listOnly {
				ref, err := parseObjRef(args[0])
				if err != nil {
					return err
				}
				obj, ok := stack.graph.GetObjectByDBRef(ref)
				if !ok {
					return fmt.Errorf("object %s not found", ref)
				}
				provs := stack.verbs.ListVerbsOn(obj.ID)
				fmt.Printf("=== verbs on %s (%s) ===\n", ref, obj.Name)
				for _, p := range provs {
					fmt.Printf("  %-24s perms=%-10s pattern=%-20q source=%s\n",
						p.Verb.Name, p.Verb.Permissions.String(), p.Verb.Pattern, p.Source)
				}
				return nil
			}

			ref, verbName, err := parseObjVerbRef(args[0])
			if err != nil {
				return err
			}
			obj, ok := stack.graph.GetObjectByDBRef(ref)
			if !ok {
				return fmt.Errorf("object %s not found", ref)
			}
			verb, definedOn, ok := stack.verbs.FindVerb(obj.ID, verbName)
			if !ok {
				return fmt.Errorf("verb %s not found on %s or its ancestors", verbName, ref)
			}
			fmt.Printf("=== %s:%s ===\n", ref, verb.Name)
			fmt.Printf("defined on: %s\n", definedOn)
			fmt.Printf("aliases:    %s\n", strings.Join(verb.Aliases, " "))
			fmt.Printf("pattern:    %q\n", verb.Pattern)
			fmt.Printf("perms:      %s\n", verb.Permissions.String())
			fmt.Println("--- code ---")
			for i, line := range strings.Split(verb.Code, "\n") {
				fmt.Printf("%4d: %s\n", i+1, line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&listOnly, "list", false, "list verbs on the object instead of dumping one verb's code")
	return cmd
}

func inspectObjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "object <#obj>",
		Short: "show an object's properties, location, and contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, stack, err := loadInspectStore(cmd)
			if err != nil {
				return err
			}
			ref, err := parseObjRef(args[0])
			if err != nil {
				return err
			}
			obj, ok := stack.graph.GetObjectByDBRef(ref)
			if !ok {
				return fmt.Errorf("object %s not found", ref)
			}

			fmt.Printf("=== object %s ===\n", ref)
			fmt.Printf("name:       %s\n", obj.Name)
			fmt.Printf("aliases:    %s\n", strings.Join(obj.Aliases, " "))
			fmt.Printf("class:      %s\n", obj.ClassID)
			fmt.Printf("owner:      %s\n", obj.Owner)
			fmt.Printf("location:   %s\n", obj.Location)
			fmt.Printf("contents:   %s\n", strings.Join(obj.Contents, ", "))

			names := make([]string, 0, len(obj.InstanceProperties))
			for name := range obj.InstanceProperties {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Printf("\n--- instance properties (%d) ---\n", len(names))
			for _, name := range names {
				v := obj.InstanceProperties[name]
				fmt.Printf("  %-20s = %s  [%s]\n", name, v.Literal(), v.Kind())
			}
			return nil
		},
	}
	return cmd
}

func inspectAncestryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ancestry <#obj>",
		Short: "show an object's class inheritance chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, stack, err := loadInspectStore(cmd)
			if err != nil {
				return err
			}
			ref, err := parseObjRef(args[0])
			if err != nil {
				return err
			}
			obj, ok := stack.graph.GetObjectByDBRef(ref)
			if !ok {
				return fmt.Errorf("object %s not found", ref)
			}

			chain := stack.graph.InheritanceChain(obj.ClassID)
			fmt.Printf("=== ancestry for %s (%s) ===\n", ref, obj.Name)
			for depth, class := range chain {
				fmt.Printf("%s%s  (abstract=%v)\n", strings.Repeat("  ", depth), class.Name, class.IsAbstract)
			}
			return nil
		},
	}
	return cmd
}

func inspectEvalCmd() *cobra.Command {
	var asObj string
	var targetObj string

	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "evaluate a Lua expression against a saved world, as if run from an object",
		Long:  "eval compiles and runs expression ad hoc, grounded on the conformance runner's runCommand/ExecuteAdHoc path, without starting a listener or mutating the snapshot on disk.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			s, stack, err := loadInspectStore(cmd)
			if err != nil {
				return err
			}

			actorRef, err := parseObjRef(asObj)
			if err != nil {
				return fmt.Errorf("--as: %w", err)
			}
			actor, ok := stack.graph.GetObjectByDBRef(actorRef)
			if !ok {
				return fmt.Errorf("--as object %s not found", actorRef)
			}

			systemObjectID := findSystemObjectID(s)
			rt := script.New(stack.graph, s, stack.res, stack.verbs, nil, nil, systemObjectID, script.Config{
				Timeout:  cfg.Script.Timeout,
				MaxDepth: cfg.Script.MaxDepth,
			})

			ctx := &builtin.Context{
				Graph: stack.graph, Store: s, Resolver: stack.res, VerbTable: stack.verbs,
				SystemObjectID: systemObjectID, Runtime: rt,
				This: actor, Caller: actor, Player: actor, MaxDepth: cfg.Script.MaxDepth,
			}

			var targetID string
			if targetObj != "" {
				targetRef, err := parseObjRef(targetObj)
				if err != nil {
					return fmt.Errorf("--target: %w", err)
				}
				obj, ok := stack.graph.GetObjectByDBRef(targetRef)
				if !ok {
					return fmt.Errorf("--target object %s not found", targetRef)
				}
				targetID = obj.ID
			}

			val, err := rt.ExecuteAdHoc(ctx, args[0], targetID)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				return nil
			}
			fmt.Printf("=> %s\n", val.Literal())
			return nil
		},
	}
	cmd.Flags().StringVar(&asObj, "as", "#0", "object to evaluate the expression as (This/Caller/Player)")
	cmd.Flags().StringVar(&targetObj, "target", "", "object (#N) the expression's This should resolve to if different from --as")
	return cmd
}
