package driven

// ConfigStore holds the persisted settings as flat dotted keys such as
// "document.path" or "chunker.separators". Nested tables in the backing file
// map onto the dotted form.
type ConfigStore interface {
	// Get returns the raw value and whether the key is present.
	Get(key string) (any, bool)

	// GetString returns "" for missing or non-string values.
	GetString(key string) string

	// GetInt accepts any integer or float encoding and returns 0 otherwise.
	GetInt(key string) int

	// GetBool returns false for missing or non-boolean values.
	GetBool(key string) bool

	// GetStringSlice returns nil for missing or non-list values.
	GetStringSlice(key string) []string

	// Set stores a value and writes the file.
	Set(key string, value any) error

	// Save writes all values to the file.
	Save() error

	// Load replaces the values with the file contents.
	Load() error

	// Path describes where values are persisted, for diagnostics.
	Path() string
}
