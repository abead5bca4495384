// Package catalog assembles the fixed, process-wide set of MessageDescriptors
// a controller/host/instance/control cluster actually speaks: connection
// control, controller configuration, host and instance management, save
// files, mod packs and mods, users and roles, logs, and the internal
// host/controller bookkeeping messages, plus every broadcast/forward event.
// Build is called once at process start; the returned Registry is never
// mutated again.
package catalog

import (
	"github.com/lcx/clusterlink/net"
	"github.com/lcx/clusterlink/schema"
)

// schemaT is a short alias used throughout the catalog's per-category
// files, which build a great many small inline schemas.
type schemaT = schema.Schema

func str() *schemaT     { return &schemaT{Type: "string"} }
func integer() *schemaT { return &schemaT{Type: "integer"} }
func boolean() *schemaT { return &schemaT{Type: "boolean"} }
func number() *schemaT  { return &schemaT{Type: "number"} }
func arrayOf(item *schemaT) *schemaT {
	return &schemaT{Type: "array", Items: item}
}
func empty() *schemaT { return schema.Object(nil) }
func schemaObj(properties map[string]*schemaT, required ...string) *schemaT {
	return schema.Object(properties, required...)
}
func anyOf(variants ...*schemaT) *schemaT { return &schemaT{AnyOf: variants} }
func enum(values ...any) *schemaT         { return &schemaT{Enum: values} }

// anyValue matches any JSON value: a Schema with no constraints at all.
func anyValue() *schemaT { return &schemaT{} }

// req is a small builder that cuts the boilerplate of net.RequestSpec down
// to the knobs a catalog entry actually varies.
func req(r *net.Registry, spec net.RequestSpec) *net.Request {
	d, err := net.NewRequest(spec)
	if err != nil {
		panic(err)
	}
	r.MustRegister(d)
	return net.WrapRequest(d)
}

func ev(r *net.Registry, spec net.EventSpec) *net.Event {
	d, err := net.NewEvent(spec)
	if err != nil {
		panic(err)
	}
	r.MustRegister(d)
	return net.WrapEvent(d)
}

// Catalog holds every Request/Event handle, grouped the way §6 of the link
// protocol's external interfaces groups them, so catalog consumers (role
// wiring code, tests) can refer to e.g. Catalog.Instances.Start by name
// instead of re-deriving descriptors from bare strings.
type Catalog struct {
	Registry *net.Registry

	ConnectionControl  ConnectionControl
	ControllerConfig   ControllerConfig
	HostManagement     HostManagement
	InstanceManagement InstanceManagement
	SaveFiles          SaveFiles
	ModPacks           ModPacks
	UsersRoles         UsersRoles
	Logs               Logs
	Internal           Internal
	Events             Events
}

// Build constructs the full catalog. It panics on any internal invariant
// violation (duplicate name, malformed schema) since those are programming
// errors that must fail loudly and immediately at startup (§4.2, §9).
func Build() *Catalog {
	r := net.NewRegistry()
	c := &Catalog{Registry: r}
	c.ConnectionControl = buildConnectionControl(r)
	c.ControllerConfig = buildControllerConfig(r)
	c.HostManagement = buildHostManagement(r)
	c.InstanceManagement = buildInstanceManagement(r)
	c.SaveFiles = buildSaveFiles(r)
	c.ModPacks = buildModPacks(r)
	c.UsersRoles = buildUsersRoles(r)
	c.Logs = buildLogs(r)
	c.Internal = buildInternal(r)
	c.Events = buildEvents(r)
	return c
}
