// Package hcladapter is the HCL front-end: it decodes declaration files into
// the format-agnostic decl.Model. Provider bodies and default values are
// kept as unevaluated hcl.Expression values.
package hcladapter
