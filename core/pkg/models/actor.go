package models

// ActorRole is the role of the already authenticated caller, as asserted by
// the fronting authentication proxy.
type ActorRole string

const (
	ActorAdmin  ActorRole = "admin"
	ActorDevice ActorRole = "device"
)
