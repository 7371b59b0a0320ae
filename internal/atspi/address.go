package atspi

import (
	"context"
	"fmt"
	"os"

	"github.com/GNOME/gtk-sub066/internal/errdefs"
)

const busAddressEnv = "AT_SPI_BUS_ADDRESS"

// BusAddress locates the accessibility bus: AT_SPI_BUS_ADDRESS wins,
// otherwise the org.a11y.Bus service on the session bus is asked.
func BusAddress(ctx context.Context) (string, error) {
	if addr := os.Getenv(busAddressEnv); addr != "" {
		return addr, nil
	}

	session, err := ConnectSession()
	if err != nil {
		return "", err
	}
	defer session.Close()

	return QueryBusAddress(ctx, session)
}

// QueryBusAddress calls org.a11y.Bus.GetAddress on session.
func QueryBusAddress(ctx context.Context, session Bus) (string, error) {
	call := session.CallAsync(ctx, a11yBusName, a11yBusPath, a11yBusIface+".GetAddress")
	select {
	case <-call.Done:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if call.Err != nil {
		return "", fmt.Errorf("failed to query the accessibility bus address: %w", call.Err)
	}

	var addr string
	if err := call.Store(&addr); err != nil {
		return "", fmt.Errorf("failed to decode the accessibility bus address: %w", err)
	}
	if addr == "" {
		return "", errdefs.ErrNoBusAddress
	}
	return addr, nil
}
