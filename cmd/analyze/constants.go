package main

const (
	appName = "diskmap"

	// exitStartupFailure is returned when the board never came up: a bad
	// folder, a missing terminal or an unusable configuration.
	exitStartupFailure = 2

	flagFolder                    = "folder"
	flagApparentSize              = "apparent-size"
	flagDisableDeleteConfirmation = "disable-delete-confirmation"
	flagConfig                    = "config"
	flagLogFile                   = "log-file"
	flagLogLevel                  = "log-level"
)
