// Package command provides CLI command definitions for airsig-cli.
package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/airsig/airsig-go/internal/cli/connection"
	"github.com/airsig/airsig-go/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "airsig-cli",
		Usage:   "AirSig gesture pairing command-line tool",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			RecordCommand(),
			SendCommand(),
			ReceiveCommand(),
			CompleteCommand(),
			StatusCommand(),
			WatchCommand(),
			ScoreCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "AirSig server address (e.g., localhost:5580)",
			EnvVars: []string{"AIRSIG_SERVER"},
			Value:   "localhost:5580",
		},
		&cli.StringFlag{
			Name:    "device-id",
			Aliases: []string{"d"},
			Usage:   "Device identifier sent with match requests",
			EnvVars: []string{"AIRSIG_DEVICE_ID"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable verbose output",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server   string
	DeviceID string

	Output string // table, json
	Wide   bool

	Verbose bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Server:   c.String("server"),
		DeviceID: c.String("device-id"),
		Output:   c.String("output"),
		Wide:     c.Bool("wide"),
		Verbose:  c.Bool("verbose"),
	}
}

// NewClient builds the HTTP client from global flags.
func NewClient(c *cli.Context) *connection.HTTPClient {
	flags := ParseGlobalFlags(c)
	return connection.NewHTTPClient(flags.Server, flags.DeviceID)
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
