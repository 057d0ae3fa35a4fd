// Package lregistry provides the local, single-node registry implementation.
// Engines are kept in a concurrent map as their binary encodings. No
// replication, no persistence; intended for single-node deployments and
// tests.
package lregistry
