package atspi

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

func portalVersionCall(ctx context.Context, session Bus) *dbus.Call {
	return session.CallAsync(ctx, flatpakPortalName, flatpakPortalPath, ifaceProperties+".Get",
		flatpakPortalIface, "version")
}

func portalVersionFromCall(call *dbus.Call) (uint32, error) {
	if call.Err != nil {
		return 0, call.Err
	}
	var v dbus.Variant
	if err := call.Store(&v); err != nil {
		return 0, fmt.Errorf("failed to decode portal version: %w", err)
	}
	version, ok := v.Value().(uint32)
	if !ok {
		return 0, fmt.Errorf("unexpected portal version type %s", v.Signature())
	}
	return version, nil
}

// PortalVersion asks the Flatpak portal on the session bus for its version.
func PortalVersion(ctx context.Context, session Bus) (uint32, error) {
	call := portalVersionCall(ctx, session)
	select {
	case <-call.Done:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	return portalVersionFromCall(call)
}
