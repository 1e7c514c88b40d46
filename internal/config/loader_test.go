package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setMongoEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MONGODB_URL", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DATABASE", "todos_db")
	t.Setenv("MONGODB_COLLECTION", "todos")
}

func TestLoad_FromEnvironment(t *testing.T) {
	setMongoEnv(t)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URL)
	assert.Equal(t, "todos_db", cfg.Mongo.Database)
	assert.Equal(t, "todos", cfg.Mongo.Collection)
}

func TestLoad_Defaults(t *testing.T) {
	setMongoEnv(t)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "mongo:7.0", cfg.DevDB.Image)
	assert.Equal(t, "27017:27017", cfg.DevDB.Port)
	assert.Equal(t, "todo-dev", cfg.DevDB.Network)
	assert.Equal(t, "todos/", cfg.Backup.Prefix)
	assert.Empty(t, cfg.Backup.Bucket)
}

func TestLoad_MissingVariable(t *testing.T) {
	tests := []struct {
		unset string
	}{
		{"MONGODB_URL"},
		{"MONGODB_DATABASE"},
		{"MONGODB_COLLECTION"},
	}

	for _, tt := range tests {
		t.Run(tt.unset, func(t *testing.T) {
			setMongoEnv(t)
			t.Setenv(tt.unset, "")

			_, err := Load("")

			require.Error(t, err)
			assert.EqualError(t, err, "missing environment variable "+tt.unset)
		})
	}
}

func TestLoad_FileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo.yaml")
	yaml := `mongodb:
  url: mongodb://file:27017
  database: from_file
  collection: items
backup:
  bucket: my-bucket
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("MONGODB_URL", "")
	t.Setenv("MONGODB_DATABASE", "from_env")
	t.Setenv("MONGODB_COLLECTION", "")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "mongodb://file:27017", cfg.Mongo.URL)
	assert.Equal(t, "from_env", cfg.Mongo.Database)
	assert.Equal(t, "items", cfg.Mongo.Collection)
	assert.Equal(t, "my-bucket", cfg.Backup.Bucket)
}

func TestLoad_MissingFile(t *testing.T) {
	setMongoEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}
