// Package discovery registers and deregisters hosts with a Consul agent as
// their controller-host Link connects and disconnects, so an operator (or
// the admin UI's "list hosts" view, fed from outside this module) can find
// live hosts by querying Consul instead of only through a live control
// connection.
package discovery

import (
	"fmt"

	consulapi "github.com/hashicorp/consul/api"

	"github.com/lcx/clusterlink/log"
)

// HostConfig names where a host's Link listens, for the health check Consul
// runs against it.
type HostConfig struct {
	ID      string
	Name    string
	Address string
	Port    int
	Tags    []string
}

// HostRegistrar registers/deregisters hosts in a Consul catalog. It is
// constructed once per controller process and handed the host ID to
// register/deregister as each controller-host Link connects and closes.
type HostRegistrar struct {
	client *consulapi.Client
}

// NewHostRegistrar builds a HostRegistrar talking to the Consul agent at
// addr (empty uses the library's default: CONSUL_HTTP_ADDR or
// 127.0.0.1:8500).
func NewHostRegistrar(addr string) (*HostRegistrar, error) {
	cfg := consulapi.DefaultConfig()
	if addr != "" {
		cfg.Address = addr
	}
	client, err := consulapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("discovery: building consul client: %w", err)
	}
	return &HostRegistrar{client: client}, nil
}

// buildRegistration is the pure part of Register: translating a HostConfig
// into the agent registration request, kept separate so it can be unit
// tested without a running Consul agent.
func buildRegistration(h HostConfig) *consulapi.AgentServiceRegistration {
	return &consulapi.AgentServiceRegistration{
		ID:      h.ID,
		Name:    h.Name,
		Address: h.Address,
		Port:    h.Port,
		Tags:    append([]string{"clusterlink-host"}, h.Tags...),
		Check: &consulapi.AgentServiceCheck{
			TCP:                            fmt.Sprintf("%s:%d", h.Address, h.Port),
			Interval:                       "10s",
			Timeout:                        "2s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}
}

// Register records h in the Consul catalog. Call it when the controller's
// host-Link for h finishes its handshake (its Ping round-trip succeeds).
func (r *HostRegistrar) Register(h HostConfig) error {
	reg := buildRegistration(h)
	if err := r.client.Agent().ServiceRegister(reg); err != nil {
		log.Error().Err(err).Str("host", h.ID).Msg("discovery: host registration failed")
		return fmt.Errorf("discovery: registering host %s: %w", h.ID, err)
	}
	log.Info().Str("host", h.ID).Str("address", h.Address).Int("port", h.Port).
		Msg("discovery: host registered")
	return nil
}

// Deregister removes hostID from the Consul catalog. Call it from the
// host-Link's close path (§5: a Link's Close drains its pending table and
// tears down its peer bookkeeping) so a dropped host stops being discoverable
// as soon as the controller notices.
func (r *HostRegistrar) Deregister(hostID string) error {
	if err := r.client.Agent().ServiceDeregister(hostID); err != nil {
		log.Error().Err(err).Str("host", hostID).Msg("discovery: host deregistration failed")
		return fmt.Errorf("discovery: deregistering host %s: %w", hostID, err)
	}
	log.Info().Str("host", hostID).Msg("discovery: host deregistered")
	return nil
}

// ListHosts returns the hosts currently passing their health check, for an
// operator tool to cross-check against the controller's own live Link set.
func (r *HostRegistrar) ListHosts() ([]*consulapi.ServiceEntry, error) {
	entries, _, err := r.client.Health().Service("clusterlink-host", "", true, nil)
	if err != nil {
		return nil, fmt.Errorf("discovery: listing hosts: %w", err)
	}
	return entries, nil
}
