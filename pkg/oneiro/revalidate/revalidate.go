// Package revalidate carries the "refresh this view" signal emitted after a
// successful mutation. The rendering layer owns the actual cache mechanics;
// this package only announces which resource went stale.
package revalidate

import "github.com/rs/zerolog/log"

// Func receives the path of a resource whose cached views are now stale.
type Func func(resource string)

// Log is the default notifier. It records the signal so an external
// collaborator tailing the log can invalidate its views.
func Log(resource string) {
	log.Debug().Str("resource", resource).Msg("view stale")
}
