package outpost

import (
	"net/url"
	"os"
	"strings"
	"time"
)

// envVarOr parses the environment variable key,
// falling back to def when it is unset or parse rejects it.
func envVarOr[T any](key string, def T, parse func(string) (T, error)) T {
	val := os.Getenv(key)
	if val == "" {
		return def
	}

	v, err := parse(val)
	if err != nil {
		return def
	}

	return v
}

// EnvVarOrDuration reads key as a [time.Duration], e.g. "1m30s".
func EnvVarOrDuration(key string, def time.Duration) time.Duration {
	return envVarOr(key, def, time.ParseDuration)
}

// EnvVarOrEnv reads key as an [Environment], ignoring case.
func EnvVarOrEnv(key string, def Environment) Environment {
	return envVarOr(key, def, func(val string) (Environment, error) {
		env := Environment(strings.ToUpper(val))
		return env, env.Valid()
	})
}

// EnvVarOrString reads key, or returns def when it is unset.
func EnvVarOrString(key, def string) string {
	return envVarOr(key, def, func(val string) (string, error) { return val, nil })
}

// EnvVarOrURL reads key as an absolute URL.
// The default URL is rooted at "/", and a malformed default is nil.
func EnvVarOrURL(key, def string) *url.URL {
	defURL, err := url.ParseRequestURI(def)
	if err != nil {
		return nil
	}
	defURL.Path = "/"

	return envVarOr(key, defURL, url.ParseRequestURI)
}
