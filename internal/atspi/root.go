package atspi

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/GNOME/gtk-sub066/internal/a11y"
	"github.com/GNOME/gtk-sub066/internal/log"
	"github.com/godbus/dbus/v5"
)

const BackendATSPI = "atspi"

// RegisterFunc runs for a context right before it enters the cache.
type RegisterFunc func(root *Root, ctx *Context)

// ToplevelSource is the live, ordered list of application windows.
type ToplevelSource interface {
	Items() []a11y.Accessible
}

type registrationState int

const (
	stateUnregistered registrationState = iota
	stateInFlight
	stateRegistered
	stateFailed
)

func (s registrationState) String() string {
	switch s {
	case stateInFlight:
		return "registration-in-flight"
	case stateRegistered:
		return "registered"
	case stateFailed:
		return "failed"
	}
	return "unregistered"
}

type RootOptions struct {
	Loop *Loop
	// Bus is the accessibility bus connection. A nil bus leaves the bridge
	// inert: contexts queue up and are never registered.
	Bus        Bus
	BusAddress string
	// SessionBus is used to query the Flatpak portal when Sandboxed.
	SessionBus       Bus
	Sandboxed        bool
	MinPortalVersion uint32
	Toplevels        ToplevelSource
	Backend          string

	AppID           string
	ApplicationName string
	ProgramName     string
}

type queuedContext struct {
	ctx *Context
	fn  RegisterFunc
}

// Root is the application's single AT-SPI root object. It owns the bus
// registration sequence, the object cache and the event listener table.
type Root struct {
	loop       *Loop
	bus        Bus
	sessionBus Bus
	busAddress string
	backend    string

	basePath dbus.ObjectPath
	rootPath dbus.ObjectPath

	appID       string
	appName     string
	programName string

	desktop       Ref
	applicationID int32

	state  registrationState
	queued []queuedContext
	cache  *Cache

	toplevelSource ToplevelSource
	toplevels      ToplevelSource

	sandboxed            bool
	minPortalVersion     uint32
	listeners            *listenerRegistry
	canUseEventListeners bool

	locales     localeResolver
	stopSignals []func()
}

func NewRoot(opts RootOptions) *Root {
	if opts.Loop == nil {
		opts.Loop = NewLoop()
	}
	if opts.MinPortalVersion == 0 {
		opts.MinPortalVersion = DefaultPortalVersion
	}
	if opts.Backend == "" {
		opts.Backend = BackendATSPI
	}
	return &Root{
		loop:             opts.Loop,
		bus:              opts.Bus,
		sessionBus:       opts.SessionBus,
		busAddress:       opts.BusAddress,
		backend:          opts.Backend,
		basePath:         BasePath(opts.AppID, opts.ProgramName),
		rootPath:         RootPath,
		appID:            opts.AppID,
		appName:          opts.ApplicationName,
		programName:      opts.ProgramName,
		desktop:          NullRef(),
		toplevelSource:   opts.Toplevels,
		sandboxed:        opts.Sandboxed,
		minPortalVersion: opts.MinPortalVersion,
		listeners:        newListenerRegistry(),
		locales:          defaultLocaleResolver(),
	}
}

// Open connects to the accessibility bus at address and returns its root.
// A connection failure is logged and yields an inert root, matching how
// the rest of the application keeps running without accessibility.
func Open(opts RootOptions) *Root {
	if opts.Bus == nil && opts.BusAddress != "" {
		bus, err := ConnectAddress(opts.BusAddress)
		if err != nil {
			log.Errorf("[AT-SPI] Unable to connect to the accessibility bus at '%s': %v", opts.BusAddress, err)
		} else {
			opts.Bus = bus
		}
	}
	return NewRoot(opts)
}

// BasePath derives the prefix for accessible object paths from the
// application id or, failing that, the program name.
func BasePath(appID, programName string) dbus.ObjectPath {
	if appID != "" {
		p := "/" + strings.ReplaceAll(strings.ReplaceAll(appID, "-", "_"), ".", "/")
		if dbus.ObjectPath(p).IsValid() {
			return dbus.ObjectPath(p + "/a11y")
		}
	}

	name := programName
	switch {
	case name == "":
		name = "unknown"
	case strings.HasPrefix(name, "/"):
		name = filepath.Base(name)
	}

	raw := []byte("/org/gtk/application/" + name + "/a11y")
	for i, c := range raw {
		switch {
		case c == '/', c == '_':
		case c >= '0' && c <= '9', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		default:
			raw[i] = '_'
		}
	}
	return dbus.ObjectPath(raw)
}

func (r *Root) Loop() *Loop { return r.loop }

func (r *Root) Bus() Bus { return r.bus }

func (r *Root) Backend() string { return r.backend }

func (r *Root) BasePath() dbus.ObjectPath { return r.basePath }

// Cache is nil until registration has completed.
func (r *Root) Cache() *Cache { return r.cache }

func (r *Root) Registered() bool { return r.state == stateRegistered }

func (r *Root) ApplicationID() int32 { return r.applicationID }

func (r *Root) Desktop() Ref { return r.desktop }

func (r *Root) ToRef() Ref {
	if r.bus == nil {
		return NullRef()
	}
	return Ref{Name: r.bus.UniqueName(), Path: r.rootPath}
}

// QueueRegister adds ctx to the cache, registering the application on the
// bus first if needed. fn, when set, runs once for ctx just before it is
// cached.
func (r *Root) QueueRegister(ctx *Context, fn RegisterFunc) {
	if r.cache != nil {
		if fn != nil {
			fn(r, ctx)
		}
		r.cache.addContext(ctx)
		return
	}

	if !r.isQueued(ctx) {
		r.queued = append(r.queued, queuedContext{ctx: ctx, fn: fn})
	}

	if r.state != stateUnregistered || r.bus == nil {
		return
	}
	r.state = stateInFlight
	r.loop.Post(r.register)
}

func (r *Root) isQueued(ctx *Context) bool {
	for _, q := range r.queued {
		if q.ctx == ctx {
			return true
		}
	}
	return false
}

// Unregister forgets ctx whether it is still queued or already cached.
func (r *Root) Unregister(ctx *Context) {
	for i, q := range r.queued {
		if q.ctx == ctx {
			r.queued = append(r.queued[:i], r.queued[i+1:]...)
			break
		}
	}
	if r.cache != nil {
		r.cache.Remove(ctx)
	}
}

// register publishes the root object and embeds it into the registry.
// The AT-SPI registry sets Application.Id on the root while handling
// Embed, and replies with the desktop reference.
func (r *Root) register() {
	if err := r.exportRoot(); err != nil {
		log.Errorf("[AT-SPI] Unable to publish the root object: %v", err)
		r.state = stateFailed
		return
	}

	unique := r.bus.UniqueName()
	log.Debugf("[AT-SPI] Registering (%s, %s) on the a11y bus", unique, r.rootPath)

	call := r.bus.CallAsync(context.Background(), registryName, RootPath, ifaceSocket+".Embed",
		Ref{Name: unique, Path: r.rootPath})
	r.loop.Await(call, r.onRegistrationReply)
}

func (r *Root) onRegistrationReply(call *dbus.Call) {
	if call.Err != nil {
		log.Errorf("[AT-SPI] Unable to register the application: %v", call.Err)
		r.state = stateFailed
		return
	}

	var desktop Ref
	if err := call.Store(&desktop); err != nil {
		log.Errorf("[AT-SPI] Unable to register the application: invalid Embed reply: %v", err)
		r.state = stateFailed
		return
	}
	r.desktop = desktop
	log.Debugf("[AT-SPI] Connected to the a11y registry at (%s, %s)", desktop.Name, desktop.Path)

	cache, err := NewCache(r.bus, CachePath, r)
	if err != nil {
		log.Errorf("[AT-SPI] Unable to create the object cache: %v", err)
		r.state = stateFailed
		return
	}
	r.cache = cache

	queued := r.queued
	r.queued = nil
	for _, q := range queued {
		if q.fn != nil {
			q.fn(r, q.ctx)
		}
		cache.addContext(q.ctx)
	}

	r.toplevels = r.toplevelSource
	r.state = stateRegistered

	r.trackEventListeners()
}

// trackEventListeners decides whether listener registration signals can be
// trusted. Inside a Flatpak sandbox they only reach us through a recent
// enough portal; otherwise we stay chatty.
func (r *Root) trackEventListeners() {
	if !r.sandboxed {
		r.subscribeEventListeners()
		return
	}
	if r.sessionBus == nil {
		log.Warn("[AT-SPI] Unable to retrieve the session bus")
		r.canUseEventListeners = false
		return
	}
	r.loop.Await(portalVersionCall(context.Background(), r.sessionBus), r.onPortalVersion)
}

func (r *Root) onPortalVersion(call *dbus.Call) {
	version, err := portalVersionFromCall(call)
	if err != nil {
		log.Warnf("[AT-SPI] Unable to retrieve the Flatpak portal version: %v", err)
		r.canUseEventListeners = false
		return
	}
	log.Debugf("[AT-SPI] Flatpak portal version: %d (required: %d)", version, r.minPortalVersion)
	if version < r.minPortalVersion {
		log.Debug("[AT-SPI] Sandbox does not allow event listener registration")
		r.canUseEventListeners = false
		return
	}
	r.subscribeEventListeners()
}

func (r *Root) subscribeEventListeners() {
	signals, stop, err := r.bus.Subscribe(registryName, RegistryPath, ifaceRegistry,
		"EventListenerRegistered", "EventListenerDeregistered")
	if err != nil {
		log.Warnf("[AT-SPI] Unable to watch event listeners: %v", err)
		r.canUseEventListeners = false
		return
	}
	r.stopSignals = append(r.stopSignals, stop)

	go func() {
		for sig := range signals {
			r.loop.Post(func() { r.handleRegistrySignal(sig) })
		}
	}()

	// ATs started before us are already listening; fetch them so we know
	// whether anything wants our events.
	call := r.bus.CallAsync(context.Background(), registryName, RegistryPath, ifaceRegistry+".GetRegisteredEvents")
	r.loop.Await(call, r.onRegisteredEventsReply)

	r.canUseEventListeners = true
}

type registeredEvent struct {
	Sender string
	Event  string
}

func (r *Root) onRegisteredEventsReply(call *dbus.Call) {
	if call.Err != nil {
		log.Errorf("[AT-SPI] Unable to get the list of registered event listeners: %v", call.Err)
		return
	}
	var events []registeredEvent
	if err := call.Store(&events); err != nil {
		log.Errorf("[AT-SPI] Unable to get the list of registered event listeners: %v", err)
		return
	}
	for _, ev := range events {
		r.listeners.add(ev.Sender, ev.Event)
	}
}

func (r *Root) handleRegistrySignal(sig *dbus.Signal) {
	if sig.Path != RegistryPath || len(sig.Body) < 2 {
		return
	}
	sender, ok1 := sig.Body[0].(string)
	event, ok2 := sig.Body[1].(string)
	if !ok1 || !ok2 {
		return
	}

	switch sig.Name {
	case ifaceRegistry + ".EventListenerRegistered":
		r.listeners.add(sender, event)
	case ifaceRegistry + ".EventListenerDeregistered":
		r.listeners.remove(sender, event)
	}
}

// HasEventListeners reports whether any AT may care about our events. When
// listener tracking is unavailable it assumes someone is listening.
func (r *Root) HasEventListeners() bool {
	if !r.canUseEventListeners {
		return true
	}
	return r.listeners.len() != 0
}

// ChildChanged announces a toplevel being added or removed. A nil child
// is announced with the null reference, and a removed one is never
// realized just to be reported.
func (r *Root) ChildChanged(change a11y.ChildChange, child a11y.Accessible) {
	if r.toplevels == nil || r.bus == nil {
		return
	}

	idx := 0
	for _, item := range r.toplevels.Items() {
		if item == child {
			break
		}
		if !item.ShouldPresent() {
			continue
		}
		idx++
	}

	ref := NullRef()
	switch {
	case child == nil:
	case change == a11y.ChildAdded:
		ref = refFor(child)
	default:
		ref = currentRef(child)
	}
	emitChildrenChanged(r.bus, r.rootPath, change, idx, ref, r.ToRef())
}

func (r *Root) visibleToplevels() []a11y.Accessible {
	if r.toplevels == nil {
		return nil
	}
	var out []a11y.Accessible
	for _, w := range r.toplevels.Items() {
		if w.Visible() {
			out = append(out, w)
		}
	}
	return out
}

// Teardown stops signal delivery, withdraws the bus objects and closes the
// connection. Contexts still alive keep their paths but are no longer
// reachable.
func (r *Root) Teardown() {
	for _, stop := range r.stopSignals {
		stop()
	}
	r.stopSignals = nil
	r.queued = nil

	if r.bus == nil {
		return
	}
	if r.cache != nil {
		r.cache.close()
	}
	for _, iface := range []string{ifaceApplication, ifaceAccessible, ifaceProperties, ifaceIntrospectable} {
		_ = r.bus.Unexport(r.rootPath, iface)
	}
	if err := r.bus.Close(); err != nil {
		log.Warnf("[AT-SPI] Failed to close the accessibility bus: %v", err)
	}
	if r.sessionBus != nil {
		_ = r.sessionBus.Close()
	}
}

// refFor returns the bus reference of acc, realizing its context if this
// is the first time anyone asked for it.
func refFor(acc a11y.Accessible) Ref {
	atc := acc.ATContext()
	if atc == nil {
		return NullRef()
	}
	ctx, ok := atc.(*Context)
	if !ok {
		panic(fmt.Sprintf("atspi: accessible %q has a %T context, not an AT-SPI one", acc.Name(), atc))
	}
	if !ctx.IsRealized() {
		ctx.Realize()
	}
	return ctx.ToRef()
}

// currentRef is refFor without realizing: an accessible whose context was
// never realized, or is gone, yields the null reference.
func currentRef(acc a11y.Accessible) Ref {
	ctx, ok := acc.ATContext().(*Context)
	if !ok {
		return NullRef()
	}
	return ctx.ToRef()
}
