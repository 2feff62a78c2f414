// Package context carries request scoped values shared by transports, services and logging.
package context

type contextKey string
