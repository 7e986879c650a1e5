// Package workspace resolves the monorepo root and loads its launcher
// manifest. It provides the Context type that holds resolved paths and the
// loaded configuration, and the target plan derived from it.
package workspace
