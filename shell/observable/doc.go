// Package observable provides wrapper components for instrumenting command and query handlers
// with comprehensive observability (metrics, tracing, logging) while keeping business logic pure.
//
// # Core Principle: External Wrapping
//
// The observable wrappers are applied externally at bootstrap/wiring time, not hidden
// inside factory functions. This makes the observability composition explicit and transparent.
//
// # Command Handler Usage
//
// Basic pattern for wrapping a command handler with observability:
//
//	// 1. Create pure business logic handler
//	coreHandler := issuebook.NewCommandHandler(store, holders, sink)
//
//	// 2. Wrap with observability (external, explicit)
//	observableHandler, err := observable.NewCommandWrapper(
//		coreHandler,
//		observable.WithCommandMetrics[issuebook.Command](metricsCollector),
//		observable.WithCommandTracing[issuebook.Command](tracingCollector),
//		observable.WithCommandContextualLogging[issuebook.Command](contextualLogger),
//	)
//
//	// 3. Use wrapped handler in application
//	result, err := observableHandler.Handle(ctx, command)
//
// # Selective Observability
//
// You can choose which observability concerns to apply:
//
//	// Only metrics and basic logging
//	wrapper, err := observable.NewCommandWrapper(
//		coreHandler,
//		observable.WithCommandMetrics[issuebook.Command](metricsCollector),
//		observable.WithCommandLogging[issuebook.Command](logger),
//	)
//
// # Pure Business Logic Testing
//
// For unit tests focused on business logic, use handlers without observability:
//
//	// Pure handler - no observability overhead
//	handler := issuebook.NewCommandHandler(store, holders, sink)
//	result, err := handler.Handle(ctx, command)  // Direct business logic execution
//
// # Architecture Benefits
//
//   - Command handlers contain ONLY business logic (Load → Decide → Commit → Publish)
//   - All observability is optional and composable
//   - Clear separation between business logic and infrastructure concerns
//   - Easy to test business logic without observability complexity
//   - External wrapping makes observability composition explicit and transparent
package observable
