package resolver

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/p11uri/uri"
)

// Secrets supplies PIN material from outside the URI. Injected as a
// capability so tests run without touching the process environment.
type Secrets interface {
	// Getenv reports the value of an environment variable and
	// whether it is set.
	Getenv(name string) (string, bool)

	// ReadFile returns the contents of a file.
	ReadFile(name string) ([]byte, error)
}

type osSecrets struct{}

func (osSecrets) Getenv(name string) (string, bool) {
	return os.LookupEnv(name)
}

func (osSecrets) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// resolvePin returns the PIN for the session and whether a login
// should be attempted at all. A literal pin-value wins over
// pin-source. pin-source carries a scheme prefix: "env:NAME" reads an
// environment variable, "file:/path" reads the file and trims trailing
// whitespace. Any other scheme is a hard error, never a silent
// anonymous session.
func resolvePin(q *uri.QueryAttributes, secrets Secrets) (string, bool, error) {
	if q.PinValue != nil {
		return *q.PinValue, true, nil
	}
	if q.PinSource == nil {
		return "", false, nil
	}

	scheme, rest, ok := strings.Cut(*q.PinSource, ":")
	if !ok {
		return "", false, errors.Newf("pin-source without scheme: %q", *q.PinSource)
	}
	switch scheme {
	case "env":
		pin, ok := secrets.Getenv(rest)
		if !ok {
			return "", false, errors.Newf("pin-source environment variable not set: %s", rest)
		}
		return pin, true, nil
	case "file":
		name := strings.TrimPrefix(rest, "//")
		b, err := secrets.ReadFile(name)
		if err != nil {
			return "", false, errors.WithMessagef(err, "unable to read PIN file: %s", name)
		}
		return strings.TrimRight(string(b), " \t\r\n"), true, nil
	default:
		return "", false, errors.Newf("unsupported pin-source scheme: %q", scheme)
	}
}
