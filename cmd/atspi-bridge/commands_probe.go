package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/GNOME/gtk-sub066/internal/atspi"
	"github.com/GNOME/gtk-sub066/internal/log"
	"github.com/GNOME/gtk-sub066/internal/utils"
	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"
)

const (
	a11yBusName     = "org.a11y.Bus"
	registryBusName = "org.a11y.atspi.Registry"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Report what the bridge would find on this system",
	Long: `Check the session bus for the accessibility bus launcher, resolve the
accessibility bus address, look for the registry and, inside a sandbox, read
the accessibility portal version.`,
	Args: cobra.NoArgs,
	Run:  runProbe,
}

func init() {
	probeCmd.Flags().Bool("json", false, "Output in JSON format")
}

type probeReport struct {
	Backend           string `json:"backend"`
	Sandboxed         bool   `json:"sandboxed"`
	FlatpakAppID      string `json:"flatpak_app_id,omitempty"`
	LauncherRunning   bool   `json:"launcher_running"`
	LauncherActivates bool   `json:"launcher_activatable"`
	BusAddress        string `json:"bus_address,omitempty"`
	BusAddressError   string `json:"bus_address_error,omitempty"`
	RegistryRunning   bool   `json:"registry_running"`
	PortalVersion     uint32 `json:"portal_version,omitempty"`
	PortalError       string `json:"portal_error,omitempty"`
}

func runProbe(cmd *cobra.Command, args []string) {
	jsonFlag, _ := cmd.Flags().GetBool("json")
	report := probe(cmd.Context())

	if jsonFlag {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			log.Fatalf("failed to marshal JSON: %v", err)
		}
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Backend:          %s\n", report.Backend)
	fmt.Printf("Sandboxed:        %v\n", report.Sandboxed)
	if report.FlatpakAppID != "" {
		fmt.Printf("Flatpak app:      %s\n", report.FlatpakAppID)
	}
	fmt.Printf("Bus launcher:     running=%v activatable=%v\n", report.LauncherRunning, report.LauncherActivates)
	if report.BusAddressError != "" {
		fmt.Printf("Bus address:      unavailable (%s)\n", report.BusAddressError)
	} else {
		fmt.Printf("Bus address:      %s\n", report.BusAddress)
	}
	fmt.Printf("Registry running: %v\n", report.RegistryRunning)
	switch {
	case report.PortalError != "":
		fmt.Printf("Portal version:   unavailable (%s)\n", report.PortalError)
	case report.Sandboxed:
		fmt.Printf("Portal version:   %d (need %d)\n", report.PortalVersion, cfg.PortalMinVersion)
	}
}

func probe(ctx context.Context) probeReport {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, busAddressTimeout)
	defer cancel()

	report := probeReport{
		Backend:           cfg.Backend,
		Sandboxed:         utils.InSandbox(),
		LauncherRunning:   utils.IsDBusServiceAvailable(a11yBusName),
		LauncherActivates: utils.IsDBusServiceActivatable(a11yBusName),
	}
	if cfg.Sandboxed != nil {
		report.Sandboxed = *cfg.Sandboxed
	}
	if id, ok := utils.FlatpakAppID(); ok {
		report.FlatpakAppID = id
	}

	report.BusAddress = cfg.BusAddress
	if report.BusAddress == "" {
		addr, err := atspi.BusAddress(ctx)
		if err != nil {
			report.BusAddressError = err.Error()
		}
		report.BusAddress = addr
	}

	if report.BusAddress != "" {
		conn, err := dbus.Connect(report.BusAddress)
		if err != nil {
			report.BusAddressError = err.Error()
		} else {
			report.RegistryRunning = utils.NameHasOwner(conn, registryBusName)
			conn.Close()
		}
	}

	if report.Sandboxed {
		session, err := atspi.ConnectSession()
		if err != nil {
			report.PortalError = err.Error()
			return report
		}
		defer session.Close()
		if report.PortalVersion, err = atspi.PortalVersion(ctx, session); err != nil {
			report.PortalError = err.Error()
		}
	}
	return report
}
