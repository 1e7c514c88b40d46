package docker

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/errdefs"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerConfigs(t *testing.T) {
	config, hostConfig, networkConfig, err := containerConfigs(DatabaseSpec{
		Image:   "mongo:7.0",
		Port:    "27018:27017",
		Volume:  "todo-mongo-data:/data/db",
		Network: "todo-dev",
	})
	require.NoError(t, err)

	assert.Equal(t, "mongo:7.0", config.Image)
	assert.Equal(t, "true", config.Labels[managedLabel])
	assert.Contains(t, config.ExposedPorts, nat.Port("27017/tcp"))

	bindings := hostConfig.PortBindings[nat.Port("27017/tcp")]
	require.Len(t, bindings, 1)
	assert.Equal(t, "27018", bindings[0].HostPort)
	assert.Equal(t, []string{"todo-mongo-data:/data/db"}, hostConfig.Binds)

	require.NotNil(t, networkConfig)
	assert.Contains(t, networkConfig.EndpointsConfig, "todo-dev")
}

func TestContainerConfigs_NoPortNoNetwork(t *testing.T) {
	config, hostConfig, networkConfig, err := containerConfigs(DatabaseSpec{Image: "mongo:7.0"})
	require.NoError(t, err)

	assert.Empty(t, config.ExposedPorts)
	assert.Empty(t, hostConfig.PortBindings)
	assert.Empty(t, hostConfig.Binds)
	assert.Nil(t, networkConfig)
}

func TestContainerConfigs_InvalidPort(t *testing.T) {
	_, _, _, err := containerConfigs(DatabaseSpec{Image: "mongo:7.0", Port: "abc:def"})

	assert.Error(t, err)
}

func TestFormatPorts(t *testing.T) {
	c := types.Container{Ports: []types.Port{
		{PrivatePort: 27017, PublicPort: 27017, Type: "tcp"},
		{PrivatePort: 9000, Type: "tcp"},
	}}

	assert.Equal(t, "27017->27017/tcp", FormatPorts(c))
}

// fakeDocker records teardown calls. Methods it doesn't override panic via
// the nil embedded interface.
type fakeDocker struct {
	dockerAPI
	stopErr, removeErr, networkErr error
	removed, networkRemoved        []string
}

func (f *fakeDocker) ContainerStop(_ context.Context, _ string, _ container.StopOptions) error {
	return f.stopErr
}

func (f *fakeDocker) ContainerRemove(_ context.Context, name string, _ container.RemoveOptions) error {
	f.removed = append(f.removed, name)
	return f.removeErr
}

func (f *fakeDocker) NetworkRemove(_ context.Context, name string) error {
	f.networkRemoved = append(f.networkRemoved, name)
	return f.networkErr
}

func TestTeardownDatabase_Removes(t *testing.T) {
	fake := &fakeDocker{}
	m := newManager(fake, &bytes.Buffer{}, nil)

	err := m.TeardownDatabase(context.Background(), "todo-dev")

	require.NoError(t, err)
	assert.Equal(t, []string{ContainerName}, fake.removed)
	assert.Equal(t, []string{"todo-dev"}, fake.networkRemoved)
}

func TestTeardownDatabase_AlreadyGone(t *testing.T) {
	gone := errdefs.NotFound(errors.New("No such container: todo-mongodb"))
	fake := &fakeDocker{
		stopErr:    gone,
		removeErr:  gone,
		networkErr: errdefs.NotFound(errors.New("network todo-dev not found")),
	}
	m := newManager(fake, &bytes.Buffer{}, nil)

	err := m.TeardownDatabase(context.Background(), "todo-dev")

	require.NoError(t, err)
	assert.Equal(t, []string{"todo-dev"}, fake.networkRemoved)
}

func TestTeardownDatabase_RemovesNetworkAfterContainerFailure(t *testing.T) {
	boom := errors.New("daemon busy")
	fake := &fakeDocker{removeErr: boom}
	m := newManager(fake, &bytes.Buffer{}, nil)

	err := m.TeardownDatabase(context.Background(), "todo-dev")

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"todo-dev"}, fake.networkRemoved)
}

func TestTeardownDatabase_NoNetwork(t *testing.T) {
	fake := &fakeDocker{}
	m := newManager(fake, &bytes.Buffer{}, nil)

	require.NoError(t, m.TeardownDatabase(context.Background(), ""))
	assert.Empty(t, fake.networkRemoved)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "todo-mongodb", DisplayName(types.Container{Names: []string{"/todo-mongodb"}}))
	assert.Equal(t, "0123456789ab", DisplayName(types.Container{ID: "0123456789abcdef"}))
	assert.Equal(t, "abc", DisplayName(types.Container{ID: "abc", Names: []string{}}))
}
