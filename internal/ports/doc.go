// Package ports defines the boundary interfaces between the platform core
// and its collaborators. Adapters under internal/adapters implement them;
// embedders may supply their own through the public options.
package ports
