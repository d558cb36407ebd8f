// Package api holds the HTTP types and chi routing generated from
// api/openapi.yaml.
package api

//go:generate go tool oapi-codegen -config ../../api/oapi-codegen.yaml ../../api/openapi.yaml
