package internal

import "io"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	stdout    io.Writer
	stderr    io.Writer
	dryRun    bool
	scanLimit int
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithOutput sets where reports (stdout) and logs (stderr) are written.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *application) {
		a.stdout = stdout
		a.stderr = stderr
	}
}

// WithDryRun makes sync and migrate report changes without writing them.
func WithDryRun(dryRun bool) Option {
	return func(a *application) {
		a.dryRun = dryRun
	}
}

// WithScanLimit caps the number of rows in the scan report. Zero keeps the default.
func WithScanLimit(n int) Option {
	return func(a *application) {
		a.scanLimit = n
	}
}
