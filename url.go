package loam

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/loamdb/loam/adapter"
)

// Scheme is the URL scheme identifying repository connection descriptors.
const Scheme = "loam"

// ParseURL converts a connection descriptor into adapter options.
//
// The descriptor has the shape
//
//	loam://username[:password]@[host[:port]]/database[?key=value&...]
//
// The scheme must be "loam", the username must be non-empty, and the path
// must name exactly one database segment. Password, host, and port are
// optional. Query parameters become Options.Params verbatim; when a key
// repeats, the last value wins. Anything malformed is an InvalidURLError.
func ParseURL(raw string) (adapter.Options, error) {
	fail := func(reason string) (adapter.Options, error) {
		return adapter.Options{}, &InvalidURLError{URL: raw, Reason: reason}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fail(fmt.Sprintf("unparseable: %v", err))
	}
	if u.Scheme != Scheme {
		return fail(fmt.Sprintf("scheme must be %q, got %q", Scheme, u.Scheme))
	}
	if u.User == nil || u.User.Username() == "" {
		return fail("username is required")
	}

	database := strings.Trim(u.Path, "/")
	switch {
	case database == "":
		return fail("path names no database")
	case strings.Contains(database, "/"):
		return fail("path must name exactly one database")
	}

	port := 0
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return fail(fmt.Sprintf("invalid port %q", p))
		}
	}

	var params map[string]string
	if rawQuery := u.Query(); len(rawQuery) > 0 {
		params = make(map[string]string, len(rawQuery))
		for key, values := range rawQuery {
			params[key] = values[len(values)-1]
		}
	}

	password, _ := u.User.Password()
	return adapter.Options{
		Username: u.User.Username(),
		Password: password,
		Host:     u.Hostname(),
		Port:     port,
		Database: database,
		Params:   params,
	}, nil
}
