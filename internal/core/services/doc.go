// Package services implements the carbon14 core use cases on top of
// the driven ports: analysing a page and managing stored analyses.
package services
