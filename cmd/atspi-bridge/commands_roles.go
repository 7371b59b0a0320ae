package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/GNOME/gtk-sub066/internal/a11y"
	"github.com/GNOME/gtk-sub066/internal/atspi"
	"github.com/GNOME/gtk-sub066/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List toolkit roles and their AT-SPI mapping",
	Args:  cobra.NoArgs,
	Run:   runRoles,
}

func init() {
	rolesCmd.Flags().Bool("json", false, "Output in JSON format")
}

type roleRow struct {
	Role     string `json:"role"`
	Title    string `json:"title"`
	WireRole string `json:"atspi_role"`
	Value    uint32 `json:"atspi_value"`
}

func roleRows() []roleRow {
	titleCaser := cases.Title(language.English)

	roles := a11y.Roles()
	rows := make([]roleRow, 0, len(roles))
	for _, role := range roles {
		wire := atspi.RoleToWire(role)
		rows = append(rows, roleRow{
			Role:     role.String(),
			Title:    titleCaser.String(strings.ReplaceAll(role.String(), "-", " ")),
			WireRole: wire.String(),
			Value:    uint32(wire),
		})
	}
	return rows
}

func runRoles(cmd *cobra.Command, args []string) {
	jsonFlag, _ := cmd.Flags().GetBool("json")
	rows := roleRows()

	if jsonFlag {
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			log.Fatalf("failed to marshal JSON: %v", err)
		}
		fmt.Println(string(data))
		return
	}

	for _, r := range rows {
		fmt.Printf("%-20s %-24s %3d  %s\n", r.Role, r.Title, r.Value, r.WireRole)
	}
}
