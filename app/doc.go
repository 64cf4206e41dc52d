/*
Package app initializes and manages the outpost console and the catalog server it reads routes from.

# Console

The main entrypoint to package app is the [Console] type, constructed with [New].
A [Console] serves the console's screens: a handful of static routes,
plus every route the catalog offers the operator, resolved by [nav.Registrar] on first navigation.

[*Console.Guide] begins the console's web server.
By default, [*Console.Guide] listens on [DefaultHost]:[DefaultPort] (localhost:3000).
Stop that web server with [*Console.Shutdown],
cancel the context passed to [WithContext],
or send a signal [*Console.Guide] listens for.

# Catalog server

A [CatalogServer], constructed with [NewCatalogServer], serves the route catalog API
over a Postgres database it migrates on start.
[*CatalogServer.GrantAdmin] makes a player an administrator.

# Configuration

A developer configures both servers through environment variables,
read by [NewConfig] and [NewCatalogConfig].
Environment variables ought to be set in a file called ".env"
found at the same directory the application is executed from.

Here are the console's environment variables.
  - API_BASE_URL: the base URL of the catalog API; default: http://localhost:8080/api
  - BASE_URL: the base URL the console runs on; replaces HOST & PORT
  - CATALOG_BACKOFF_BASE: the delay - as understood by [time.ParseDuration] - before retrying a failed route load; default: 1s
  - CATALOG_BACKOFF_MAX: the longest delay between route load retries; default: 1m
  - CATALOG_LOAD_TIMEOUT: how long one route load may take; default: 10s
  - ENVIRONMENT: the environment the application is running in; cf. [outpost.Environment]
  - FLASH_STORAGE: where flashes are kept, "cookie" or "redis"; default: cookie
  - HOST: the host the console is running on; default: localhost
  - LOG_LEVEL: the level at which to begin logging; default: INFO; cf. [logger.LogLevel]
  - PORT: the port the console should listen on; default: :3000
  - REDIS_ADDR: the address of Redis, when used for state or flashes; default: localhost:6379
  - REDIS_PASSWORD: the password for authenticating to Redis
  - SENTRY_DSN: where errors are reported to
  - SERVER_IDLE_TIMEOUT: the timeout for idling between requests when using keep-alives; default: 120s
  - SERVER_READ_TIMEOUT: the timeout for reading HTTP requests; default: 5s
  - SERVER_WRITE_TIMEOUT: the timeout for writing HTTP responses; default: 35s
  - SESSION_AUTH_KEY: a hex-encoded key for authenticating flash cookies; cf. [encoding/hex]
  - SESSION_ENCRYPTION_KEY: a hex-encoded key for encrypting flash cookies
  - STATE_FILE: the file session state persists to; default: .outpost-state.json
  - STATE_STORAGE: where session state persists, "file", "memory", or "redis"; default: file

Here are the catalog server's environment variables, besides ENVIRONMENT, LOG_LEVEL, PORT, SENTRY_DSN, and the SERVER timeouts.
  - CORS_ORIGIN: the origin browsers may call the API from
  - DATABASE_HOST: the host the database is running on; default: localhost
  - DATABASE_NAME: the name of the database
  - DATABASE_PASSWORD: the password for authenticating a connection to the database
  - DATABASE_PORT: the port the database is listening on; default: 5432
  - DATABASE_SSLMODE: the sslmode of the connection; default: prefer
  - DATABASE_URL: the fully-qualified connection string for connecting to the database; replaces all other DATABASE_* env vars
  - DATABASE_USER: the user for authenticating a connection to the database
  - JWT_SECRET: the secret signing session tokens; required
  - JWT_TTL: how long a session token is valid for; default: 24h

The catalog server's PORT defaults to :8080.
*/
package app
