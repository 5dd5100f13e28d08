package cli

import (
	"fmt"

	"github.com/effective-security/p11uri/resolver"
	"github.com/effective-security/p11uri/uri"
	"github.com/pkg/errors"
)

// ParseCmd parses a PKCS#11 URI and prints its attributes
type ParseCmd struct {
	URI string `kong:"arg" required:"" help:"PKCS#11 URI"`
}

// Run the command
func (a *ParseCmd) Run(ctx *Cli) error {
	u, err := uri.Parse(a.URI)
	if err != nil {
		return errors.WithMessage(err, "unable to parse URI")
	}

	out := ctx.Writer()
	printIfNotEmpty := func(label, val string) {
		if val != "" {
			fmt.Fprintf(out, "  %s: %s\n", label, val)
		}
	}
	strOf := func(v *string) string {
		if v == nil {
			return ""
		}
		return *v
	}

	p := u.Path
	fmt.Fprintf(out, "%s\n", u.Sanitized())
	printIfNotEmpty("Library description", strOf(p.LibraryDescription))
	printIfNotEmpty("Library manufacturer", strOf(p.LibraryManufacturer))
	if p.LibraryVersion != nil {
		printIfNotEmpty("Library version", p.LibraryVersion.String())
	}
	printIfNotEmpty("Slot description", strOf(p.SlotDescription))
	printIfNotEmpty("Slot manufacturer", strOf(p.SlotManufacturer))
	if p.SlotID != nil {
		fmt.Fprintf(out, "  Slot ID: %d\n", *p.SlotID)
	}
	printIfNotEmpty("Token manufacturer", strOf(p.TokenManufacturer))
	printIfNotEmpty("Token model", strOf(p.TokenModel))
	printIfNotEmpty("Token label", strOf(p.TokenLabel))
	if p.TokenSerial != nil {
		printIfNotEmpty("Token serial", p.TokenSerial.String())
	}
	if p.ObjectClass != nil {
		printIfNotEmpty("Object class", p.ObjectClass.String())
	}
	if p.ObjectID != nil {
		fmt.Fprintf(out, "  Object ID: %x\n", p.ObjectID)
	}
	printIfNotEmpty("Object label", strOf(p.ObjectLabel))

	q := u.Query
	printIfNotEmpty("PIN source", strOf(q.PinSource))
	if q.PinValue != nil {
		printIfNotEmpty("PIN value", "***")
	}
	printIfNotEmpty("Module name", strOf(q.ModuleName))
	printIfNotEmpty("Module path", strOf(q.ModulePath))

	return nil
}

// LookupCmd resolves a PKCS#11 URI to an object on a token
type LookupCmd struct {
	URI string `kong:"arg" required:"" help:"PKCS#11 URI"`
}

// Run the command
func (a *LookupCmd) Run(ctx *Cli) error {
	u, err := uri.Parse(a.URI)
	if err != nil {
		return errors.WithMessage(err, "unable to parse URI")
	}

	cfg, err := ctx.ModuleConfig()
	if err != nil {
		return err
	}

	lib, err := resolver.OpenModule(&u.Query, cfg)
	if err != nil {
		return errors.WithMessage(err, "unable to load module")
	}
	defer lib.Close()

	res, err := resolver.New(lib).Resolve(u)
	if err != nil {
		return errors.WithMessagef(err, "unable to resolve %q", u.Sanitized())
	}
	defer res.Close()

	out := ctx.Writer()
	fmt.Fprintf(out, "Module: %s\n", lib.Path())
	fmt.Fprintf(out, "Session: 0x%X\n", res.Session)
	fmt.Fprintf(out, "Object: 0x%X\n", res.Object)
	return nil
}
