// Package coordinator wires the circulation feature slices into one façade.
//
// CirculationCoordinator owns the operational defaults (loan period, fine
// rate), builds every command and query handler against a single Store,
// HolderDirectory and EventSink, and wraps the command handlers with the
// observability decorators. Applications that do not need per-slice wiring
// talk to the coordinator only.
package coordinator
