package cmd

import (
	"os"

	"github.com/op/go-logging"
	"github.com/urfave/cli/v2"
)

var logger = logging.MustGetLogger("glint")

var logFormat = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

// SetupLogging configures the shared logging backend from the global
// verbosity flags
func SetupLogging(ctx *cli.Context) error {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend, logFormat)
	leveled := logging.AddModuleLevel(formatted)

	switch {
	case ctx.Bool("vv"):
		leveled.SetLevel(logging.DEBUG, "")
	case ctx.Bool("v"):
		leveled.SetLevel(logging.INFO, "")
	default:
		leveled.SetLevel(logging.NOTICE, "")
	}
	logging.SetBackend(leveled)
	return nil
}
