// Package repository implements the MySQL-backed stores of the
// application. Sentinel errors defined here let handlers and services
// distinguish failure classes without inspecting driver errors.
// sql.ErrNoRows is deliberately reused as the not-found sentinel
// between repositories and their callers.
package repository

import "errors"

// ErrNIPExists is returned when provisioning a company whose NIP is
// already registered. Handlers translate this into HTTP 409.
var ErrNIPExists = errors.New("nip already exists")

// ErrConflict is returned when an update cannot be performed because
// of conflicting state, such as an illegal return-request status
// transition. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrImportBusy is returned when a bulk inventory replacement is
// already running. Imports are serialized with a MySQL advisory lock
// so two runs can never interleave their delete and insert phases.
var ErrImportBusy = errors.New("another import is already running")
