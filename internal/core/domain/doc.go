// Package domain holds the core types of carbon14: fetched pages,
// dated image findings and completed analyses. It has no dependencies
// on adapters or infrastructure.
package domain
