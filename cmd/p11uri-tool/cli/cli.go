package cli

import (
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/effective-security/p11uri/p11"
	"github.com/effective-security/x/ctl"
	"github.com/effective-security/xlog"
	"github.com/pkg/errors"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/p11uri", "cli")

// Cli provides CLI context to run commands
type Cli struct {
	Cfg      string          `help:"Location of module config file" type:"path"`
	Debug    bool            `short:"D" help:"Enable debug mode"`
	LogLevel string          `short:"l" help:"Set the logging level (debug|info|warn|error)" default:"error"`
	Version  ctl.VersionFlag `name:"version" help:"Print version information and quit" hidden:""`

	// Output is the destination for all output from the command, typically set to os.Stdout
	output io.Writer
	// ErrOutput is the destination for errors.
	// If not set, errors will be written to os.StdError
	errOutput io.Writer

	modules *p11.ModuleConfig
}

// Writer returns a writer for control output
func (c *Cli) Writer() io.Writer {
	if c.output != nil {
		return c.output
	}
	return os.Stdout
}

// WithWriter allows to specify a custom writer
func (c *Cli) WithWriter(out io.Writer) *Cli {
	c.output = out
	return c
}

// ErrWriter returns a writer for control output
func (c *Cli) ErrWriter() io.Writer {
	if c.errOutput != nil {
		return c.errOutput
	}
	return os.Stderr
}

// WithErrWriter allows to specify a custom error writer
func (c *Cli) WithErrWriter(out io.Writer) *Cli {
	c.errOutput = out
	return c
}

// AfterApply hook loads config
func (c *Cli) AfterApply(app *kong.Kong, vars kong.Vars) error {
	if c.Debug {
		xlog.SetGlobalLogLevel(xlog.DEBUG)
	} else {
		val := strings.TrimLeft(c.LogLevel, "=")
		l, err := xlog.ParseLevel(strings.ToUpper(val))
		if err != nil {
			return errors.WithStack(err)
		}
		xlog.SetGlobalLogLevel(l)
	}

	return nil
}

// ModuleConfig loads the module config, if --cfg was provided
func (c *Cli) ModuleConfig() (*p11.ModuleConfig, error) {
	if c.modules != nil || c.Cfg == "" {
		return c.modules, nil
	}
	var err error
	c.modules, err = p11.LoadModuleConfig(c.Cfg)
	if err != nil {
		return nil, errors.WithMessagef(err, "unable to load module config: %s", c.Cfg)
	}
	logger.KV(xlog.DEBUG, "cfg", c.Cfg, "modules", len(c.modules.Modules))
	return c.modules, nil
}
