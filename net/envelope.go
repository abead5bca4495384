// Package net implements the link protocol: typed, schema-validated
// request/response and event traffic between the controller, host, instance
// and control roles of a game-server cluster manager. It defines how
// messages are declared, validated, routed, forwarded, authorized and
// dispatched across the pairwise connections ("links") between adjacent
// roles.
package net

import "fmt"

// Role identifies one of the four node kinds that participate in the link
// protocol.
type Role string

const (
	RoleController Role = "controller"
	RoleHost       Role = "host"
	RoleInstance   Role = "instance"
	RoleControl    Role = "control"
)

func (r Role) valid() bool {
	switch r {
	case RoleController, RoleHost, RoleInstance, RoleControl:
		return true
	}
	return false
}

// LinkSpec names a directional edge between two roles, written "<source>-<target>".
// The closed set of physical edges is the cluster's actual topology; the
// logical edges exist only so descriptors can declare forwarding and
// permission rules without being attached to a link that carries them
// directly (e.g. a control-originated request that the controller forwards
// on to a host).
type LinkSpec struct {
	Source Role
	Target Role
}

func link(src, tgt Role) LinkSpec { return LinkSpec{Source: src, Target: tgt} }

// String renders the LinkSpec in "<source>-<target>" form.
func (l LinkSpec) String() string {
	return fmt.Sprintf("%s-%s", l.Source, l.Target)
}

// Reverse swaps source and target, used when checking whether a Link is
// accepting a message as its target rather than originating it as its
// source (invariant 4 in the data model).
func (l LinkSpec) Reverse() LinkSpec { return LinkSpec{Source: l.Target, Target: l.Source} }

// Physical edges: the links a Connector can actually be attached to.
var (
	ControlController = link(RoleControl, RoleController)
	ControllerControl = link(RoleController, RoleControl)
	ControllerHost    = link(RoleController, RoleHost)
	HostController    = link(RoleHost, RoleController)
	HostInstance      = link(RoleHost, RoleInstance)
	InstanceHost      = link(RoleInstance, RoleHost)
)

// physicalLinks is the declared topology (§3): the closed set of edges a
// real Connector may sit on.
var physicalLinks = map[LinkSpec]bool{
	ControlController: true,
	ControllerControl: true,
	ControllerHost:    true,
	HostController:    true,
	HostInstance:      true,
	InstanceHost:      true,
}

// IsPhysical reports whether l is one of the six edges a Link may actually
// be constructed on. control-controller and host-controller are also used
// as "extended logical links" purely for forwardTo/permission declarations
// on descriptors, so they are physical too; there is no third kind.
func (l LinkSpec) IsPhysical() bool { return physicalLinks[l] }

// Envelope is every on-wire value exchanged over a link. Type always ends in
// "_request", "_response" or "_event". Seq is assigned by the sender's
// Connector; a response's Seq is the Connector's own outbound counter, while
// Data["seq"] echoes the originating request's envelope Seq and is the
// actual correlation key (§6).
type Envelope struct {
	Type string         `json:"type"`
	Seq  uint64         `json:"seq,omitempty"`
	Data map[string]any `json:"data"`
}

// dataSeq extracts the inner "seq" correlation field used by response
// payloads, returning 0 and false if it is absent or not a number.
func dataSeq(data map[string]any) (uint64, bool) {
	if data == nil {
		return 0, false
	}
	v, ok := data["seq"]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return uint64(n), true
	case int:
		return uint64(n), true
	case uint64:
		return n, true
	}
	return 0, false
}

// dataError extracts the "error" string from a response payload, if present.
func dataError(data map[string]any) (string, bool) {
	v, ok := data["error"]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
