package config

// Config represents everything the todo CLI reads from the environment or an
// optional YAML file.
type Config struct {
	Mongo  Mongo  `mapstructure:"mongodb"`
	DevDB  DevDB  `mapstructure:"devdb"`
	Backup Backup `mapstructure:"backup"`
}

// Mongo selects the collection todos live in.
type Mongo struct {
	URL        string `mapstructure:"url" validate:"required"`        // e.g., "mongodb://localhost:27017"
	Database   string `mapstructure:"database" validate:"required"`   // e.g., "todos_db"
	Collection string `mapstructure:"collection" validate:"required"` // e.g., "todos"
}

// DevDB describes the local MongoDB container started by "todo db up".
type DevDB struct {
	Image   string `mapstructure:"image"`   // e.g., "mongo:7.0"
	Port    string `mapstructure:"port"`    // e.g., "27017:27017"
	Volume  string `mapstructure:"volume"`  // e.g., "todo-mongo-data:/data/db"
	Network string `mapstructure:"network"` // e.g., "todo-dev"
}

// Backup is where "todo backup" uploads snapshots.
type Backup struct {
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"` // e.g., "todos/"
}
