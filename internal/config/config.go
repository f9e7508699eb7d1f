package config

import (
	"fmt"
	"io"
	"os"

	"github.com/vitaminmoo/chihirosctl/internal/logging"
	"github.com/vitaminmoo/chihirosctl/internal/util"
)

// Verbose enables debug output when true
var Verbose bool

var output io.Writer = os.Stdout

// SetOutput redirects verbose debug output. nil restores stdout.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	output = w
}

// Debugf prints debug messages when Verbose is true. Messages also go to the
// zap logger at debug level.
func Debugf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logging.Debug(msg)
	if Verbose {
		fmt.Fprintln(output, "[DEBUG] "+msg)
	}
}

// DebugDump prints a hex dump of data when Verbose is true.
func DebugDump(label string, data []byte) {
	if !Verbose {
		return
	}
	fmt.Fprintf(output, "[DEBUG] %s (%d bytes):\n", label, len(data))
	util.FprintHexDump(output, data)
}
