// Package target discovers the sub-packages of a monorepo that have a dev
// task to launch. Discovery is a pure function of a filesystem view and a
// Plan, so it can be exercised with an in-memory filesystem.
package target
