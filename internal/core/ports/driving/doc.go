// Package driving defines the inbound ports of the carbon14 core:
// the services the CLI drives.
package driving
