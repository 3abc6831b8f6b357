package media

import "github.com/rs/zerolog"

// Deprecation describes a deprecated usage. Reporting one never fails the operation.
type Deprecation struct {
	Instance   string
	Method     string
	Problem    string
	Resolution string
}

type DeprecationHandler interface {
	Deprecated(d Deprecation)
}

// DeprecationFunc adapts a function to a DeprecationHandler.
type DeprecationFunc func(d Deprecation)

func (f DeprecationFunc) Deprecated(d Deprecation) { f(d) }

// DiscardDeprecations drops every warning.
var DiscardDeprecations DeprecationHandler = DeprecationFunc(func(Deprecation) {})

// LogDeprecations reports warnings through logger at warn level.
func LogDeprecations(logger zerolog.Logger) DeprecationHandler {
	return DeprecationFunc(func(d Deprecation) {
		logger.Warn().
			Str("instance", d.Instance).
			Str("method", d.Method).
			Str("resolution", d.Resolution).
			Msgf("deprecation warning: %s", d.Problem)
	})
}
