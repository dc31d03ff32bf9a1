// Package plan turns a validated binding graph into the ordered
// construction plan handed to code generators, and renders plans as JSON,
// text or HCL.
package plan
