// Package testutil provides shared test helpers and test doubles for the
// circulation engine: a fake holder directory, an event sink spy, and spies
// for the observability interfaces.
package testutil
