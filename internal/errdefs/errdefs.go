package errdefs

import "errors"

var (
	ErrInvalidBusName     = errors.New("invalid bus name")
	ErrInvalidObjectPath  = errors.New("invalid object path")
	ErrBackendUnavailable = errors.New("accessibility backend is not AT-SPI")
	ErrNoConnection       = errors.New("no accessibility bus connection")
	ErrNoParent           = errors.New("accessible has no parent")
	ErrNoBusAddress       = errors.New("accessibility bus address unavailable")
	ErrUnknownTreeFormat  = errors.New("unknown tree file format")
)

// D-Bus error names returned to bus peers.
const (
	DBusErrNotSupported    = "org.freedesktop.DBus.Error.NotSupported"
	DBusErrInvalidArgs     = "org.freedesktop.DBus.Error.InvalidArgs"
	DBusErrUnknownProperty = "org.freedesktop.DBus.Error.UnknownProperty"
	DBusErrUnknownIface    = "org.freedesktop.DBus.Error.UnknownInterface"
	DBusErrPropReadOnly    = "org.freedesktop.DBus.Error.PropertyReadOnly"
	DBusErrFailed          = "org.freedesktop.DBus.Error.Failed"
)
