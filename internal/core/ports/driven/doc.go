// Package driven defines the outbound ports of the carbon14 core:
// interfaces the core depends on and adapters implement (HTTP fetching,
// HTML extraction, storage, configuration).
package driven
