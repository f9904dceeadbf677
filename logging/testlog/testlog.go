/*package testlog configures logging for tests and marks where each test's
output begins.
*/
package testlog

import (
	"testing"

	"github.com/rs/zerolog/log"

	"github.com/phil-mansfield/gosphere/logging"
)

// Start installs the test logging profile and logs the name of t. Call it
// at the top of every test in a package which logs.
func Start(t *testing.T) {
	t.Helper()
	logging.ConfigureTests()
	log.Info().Str("test", t.Name()).Msg("test started")
}
