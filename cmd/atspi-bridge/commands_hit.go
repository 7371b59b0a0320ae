package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/GNOME/gtk-sub066/internal/a11y"
	"github.com/GNOME/gtk-sub066/internal/atspi"
	"github.com/GNOME/gtk-sub066/internal/log"
	"github.com/spf13/cobra"
)

var hitCmd = &cobra.Command{
	Use:   "hit <tree-file> <x> <y>",
	Short: "Find the accessible at a point",
	Long: `Build the tree described by a file and report the deepest accessible at
the given point, the way GetAccessibleAtPoint answers it on the bus.`,
	Args: cobra.ExactArgs(3),
	Run:  runHit,
}

func init() {
	hitCmd.Flags().String("space", "window", "Coordinate space of the point (window, parent, screen)")
	hitCmd.Flags().String("from", "", "Name of the accessible to start from (default: first toplevel)")
	hitCmd.Flags().Bool("json", false, "Output in JSON format")
}

type hitResult struct {
	Role   string     `json:"role"`
	Name   string     `json:"name"`
	Layer  string     `json:"layer"`
	Bounds *a11y.Rect `json:"bounds,omitempty"`
}

func runHit(cmd *cobra.Command, args []string) {
	x, err := strconv.Atoi(args[1])
	if err != nil {
		log.Fatalf("invalid x coordinate %q", args[1])
	}
	y, err := strconv.Atoi(args[2])
	if err != nil {
		log.Fatalf("invalid y coordinate %q", args[2])
	}

	spaceFlag, _ := cmd.Flags().GetString("space")
	space, err := atspi.ParseCoordType(spaceFlag)
	if err != nil {
		log.Fatalf("%v", err)
	}
	from, _ := cmd.Flags().GetString("from")
	jsonFlag, _ := cmd.Flags().GetBool("json")

	spec, err := a11y.LoadTreeFile(args[0])
	if err != nil {
		log.Fatalf("%v", err)
	}
	built, err := spec.Build(a11y.NewTree())
	if err != nil {
		log.Fatalf("%v", err)
	}

	start := findStart(built.Toplevels, from)
	if start == nil {
		log.Fatalf("no accessible named %q", from)
	}

	hit := atspi.AccessibleAtPoint(start, x, y, space)
	if hit == nil {
		fmt.Fprintf(os.Stderr, "nothing at (%d, %d) in %s coordinates\n", x, y, space)
		os.Exit(1)
	}

	res := describeHit(hit)
	if jsonFlag {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			log.Fatalf("failed to marshal JSON: %v", err)
		}
		fmt.Println(string(data))
		return
	}

	fmt.Printf("%s %q (layer %s)\n", res.Role, res.Name, res.Layer)
	if res.Bounds != nil {
		fmt.Printf("  window extents: %d,%d %dx%d\n", res.Bounds.X, res.Bounds.Y, res.Bounds.Width, res.Bounds.Height)
	}
}

func findStart(toplevels []*a11y.Node, name string) a11y.Accessible {
	if name == "" {
		if len(toplevels) == 0 {
			return nil
		}
		return toplevels[0]
	}

	var found a11y.Accessible
	for _, w := range toplevels {
		a11y.Walk(w, func(acc a11y.Accessible) bool {
			if acc.Name() == name {
				found = acc
				return false
			}
			return true
		})
		if found != nil {
			break
		}
	}
	return found
}

func describeHit(acc a11y.Accessible) hitResult {
	res := hitResult{
		Role:  atspi.WireRoleFor(acc).String(),
		Name:  acc.Name(),
		Layer: atspi.LayerOf(acc).String(),
	}
	if r, ok := atspi.Extents(acc, atspi.CoordTypeWindow); ok {
		res.Bounds = &r
	}
	return res
}
