// Package types defines the wire types shared by the rule API handlers and
// middleware.
package types
