package constants

const (
	AppName            = "becoming"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/becoming/becoming.db"
	Version            = "v0.3.0"

	// EnvDBConnection overrides the database connection string.
	EnvDBConnection = "BECOMING_DB_CONNECTION"

	// EnvToday overrides the clock's notion of "today" (YYYY-MM-DD).
	// Intended for demos and manual testing only.
	EnvToday = "BECOMING_TODAY"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "becoming-"
	BackupFileSuffix = ".db"
)
