// Package driving defines the interfaces external actors use to drive core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The HTTP adapter depends on these interfaces; core services implement them.
package driving
