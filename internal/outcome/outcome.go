// Package outcome defines the status carried by every processor result and
// the boundary guard that turns an internal failure into an error result.
package outcome

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Status tags a processor result. Consumers branch on it instead of on the
// presence of fields.
type Status string

const (
	StatusSuccess Status = "success"
	StatusEmpty   Status = "empty"
	StatusError   Status = "error"
)

// OK reports whether the result carries usable output.
func (s Status) OK() bool { return s == StatusSuccess }

// Guard runs fn and recovers a panic into the value built by onFailure.
// The recovered reason is logged with the unit name; input text never is.
func Guard[T any](unit string, onFailure func(reason string) T, fn func() T) (res T) {
	defer func() {
		if r := recover(); r != nil {
			reason := fmt.Sprint(r)
			log.Error().Str("stage", unit).Str("reason", reason).Msg("processor failed")
			res = onFailure(reason)
		}
	}()
	return fn()
}
