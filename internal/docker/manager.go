package docker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/docker/go-connections/nat"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"go.uber.org/zap"
)

const (
	managedLabel = "todo.managed"
	serviceLabel = "todo.service"

	// ContainerName is the name of the development database container.
	ContainerName = "todo-mongodb"
)

// DatabaseSpec describes the development database container.
type DatabaseSpec struct {
	Image   string // e.g., "mongo:7.0"
	Port    string // e.g., "27017:27017" (host:container)
	Volume  string // e.g., "todo-mongo-data:/data/db"
	Network string // e.g., "todo-dev"
}

// dockerAPI is the subset of *client.Client the manager uses.
type dockerAPI interface {
	ImagePull(ctx context.Context, ref string, options types.ImagePullOptions) (io.ReadCloser, error)
	NetworkList(ctx context.Context, options types.NetworkListOptions) ([]types.NetworkResource, error)
	NetworkCreate(ctx context.Context, name string, options types.NetworkCreate) (types.NetworkCreateResponse, error)
	NetworkRemove(ctx context.Context, network string) error
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, container string, options container.StartOptions) error
	ContainerStop(ctx context.Context, container string, options container.StopOptions) error
	ContainerRemove(ctx context.Context, container string, options container.RemoveOptions) error
	ContainerList(ctx context.Context, options container.ListOptions) ([]types.Container, error)
	Close() error
}

var _ dockerAPI = (*client.Client)(nil)

// Manager handles all interactions with the Docker daemon.
type Manager struct {
	cli dockerAPI
	out io.Writer
	log *zap.Logger
}

// NewManager creates a Docker client connected to the local daemon.
// Progress from image pulls is streamed to out.
func NewManager(out io.Writer, log *zap.Logger) (*Manager, error) {
	// FromEnv honors DOCKER_HOST and friends, defaulting to the unix socket.
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	return newManager(cli, out, log), nil
}

func newManager(cli dockerAPI, out io.Writer, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{cli: cli, out: out, log: log}
}

// Close releases the Docker client.
func (m *Manager) Close() error {
	return m.cli.Close()
}

// EnsureImage pulls imageName. The pull output must be drained or the daemon
// cancels the pull.
func (m *Manager) EnsureImage(ctx context.Context, imageName string) error {
	fmt.Fprintf(m.out, "Pulling image: %s...\n", imageName)

	reader, err := m.cli.ImagePull(ctx, imageName, types.ImagePullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", imageName, err)
	}
	defer reader.Close()

	if _, err := io.Copy(io.Discard, reader); err != nil {
		return fmt.Errorf("error reading pull output: %w", err)
	}

	m.log.Debug("image pulled", zap.String("image", imageName))
	return nil
}

// EnsureNetwork creates a bridge network named networkName if it doesn't exist.
func (m *Manager) EnsureNetwork(ctx context.Context, networkName string) error {
	filterArgs := filters.NewArgs(filters.Arg("name", networkName))
	networks, err := m.cli.NetworkList(ctx, types.NetworkListOptions{Filters: filterArgs})
	if err != nil {
		return fmt.Errorf("failed to list networks: %w", err)
	}

	// The name filter matches substrings.
	for _, n := range networks {
		if n.Name == networkName {
			m.log.Debug("network exists", zap.String("network", networkName))
			return nil
		}
	}

	fmt.Fprintf(m.out, "Creating network: %s...\n", networkName)
	_, err = m.cli.NetworkCreate(ctx, networkName, types.NetworkCreate{
		Driver: "bridge",
	})
	if err != nil {
		return fmt.Errorf("failed to create network %s: %w", networkName, err)
	}

	return nil
}

// containerConfigs translates spec into the Docker create parameters.
func containerConfigs(spec DatabaseSpec) (*container.Config, *container.HostConfig, *network.NetworkingConfig, error) {
	portBindings := nat.PortMap{}
	exposedPorts := nat.PortSet{}

	if spec.Port != "" {
		mappings, err := nat.ParsePortSpec(spec.Port)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("invalid port mapping %s: %w", spec.Port, err)
		}

		for _, pm := range mappings {
			exposedPorts[pm.Port] = struct{}{}
			portBindings[pm.Port] = append(portBindings[pm.Port], nat.PortBinding{
				HostIP:   pm.Binding.HostIP,
				HostPort: pm.Binding.HostPort,
			})
		}
	}

	config := &container.Config{
		Image: spec.Image,
		Labels: map[string]string{
			managedLabel: "true",
			serviceLabel: "mongodb",
		},
		ExposedPorts: exposedPorts,
	}

	hostConfig := &container.HostConfig{
		PortBindings: portBindings,
	}
	if spec.Volume != "" {
		hostConfig.Binds = []string{spec.Volume}
	}

	var networkConfig *network.NetworkingConfig
	if spec.Network != "" {
		networkConfig = &network.NetworkingConfig{
			EndpointsConfig: map[string]*network.EndpointSettings{
				spec.Network: {},
			},
		}
	}

	return config, hostConfig, networkConfig, nil
}

// StartDatabase creates and starts the development database container,
// replacing any previous one.
func (m *Manager) StartDatabase(ctx context.Context, spec DatabaseSpec) error {
	config, hostConfig, networkConfig, err := containerConfigs(spec)
	if err != nil {
		return err
	}

	// Ignore the error: the container usually doesn't exist yet.
	_ = m.cli.ContainerRemove(ctx, ContainerName, container.RemoveOptions{Force: true})

	fmt.Fprintf(m.out, "Creating container %s...\n", ContainerName)
	resp, err := m.cli.ContainerCreate(ctx, config, hostConfig, networkConfig, nil, ContainerName)
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}

	fmt.Fprintf(m.out, "Starting container %s...\n", ContainerName)
	if err := m.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return fmt.Errorf("failed to start container: %w", err)
	}

	m.log.Debug("container started", zap.String("id", resp.ID), zap.String("image", spec.Image))
	return nil
}

// ListContainers returns every container managed by todo.
func (m *Manager) ListContainers(ctx context.Context) ([]types.Container, error) {
	filterArgs := filters.NewArgs()
	filterArgs.Add("label", managedLabel+"=true")

	return m.cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
}

// StopAndRemoveDatabase stops and deletes the development database
// container. The data volume is kept. A container that is already gone
// counts as removed.
func (m *Manager) StopAndRemoveDatabase(ctx context.Context) error {
	fmt.Fprintf(m.out, "Stopping %s...\n", ContainerName)

	if err := m.cli.ContainerStop(ctx, ContainerName, container.StopOptions{}); err != nil {
		if errdefs.IsNotFound(err) {
			m.log.Debug("container not found", zap.String("container", ContainerName))
		} else {
			m.log.Warn("failed to stop container", zap.String("container", ContainerName), zap.Error(err))
		}
	}

	fmt.Fprintf(m.out, "Removing %s...\n", ContainerName)
	err := m.cli.ContainerRemove(ctx, ContainerName, container.RemoveOptions{
		RemoveVolumes: false,
		Force:         true,
	})
	if err != nil && !errdefs.IsNotFound(err) {
		return fmt.Errorf("failed to remove %s: %w", ContainerName, err)
	}

	return nil
}

// RemoveNetwork deletes the development network. A missing network counts
// as removed.
func (m *Manager) RemoveNetwork(ctx context.Context, networkName string) error {
	fmt.Fprintf(m.out, "Removing network %s...\n", networkName)
	if err := m.cli.NetworkRemove(ctx, networkName); err != nil && !errdefs.IsNotFound(err) {
		return fmt.Errorf("failed to remove network %s: %w", networkName, err)
	}
	return nil
}

// TeardownDatabase removes the container and then the network, attempting
// both even when the first step fails.
func (m *Manager) TeardownDatabase(ctx context.Context, networkName string) error {
	var errs []error

	if err := m.StopAndRemoveDatabase(ctx); err != nil {
		errs = append(errs, err)
	}
	if networkName != "" {
		if err := m.RemoveNetwork(ctx, networkName); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// DisplayName returns the container name without its leading slash, or the
// short ID when the daemon reports no name.
func DisplayName(c types.Container) string {
	if len(c.Names) > 0 && c.Names[0] != "" {
		return strings.TrimPrefix(c.Names[0], "/")
	}
	if len(c.ID) > 12 {
		return c.ID[:12]
	}
	return c.ID
}

// FormatPorts renders the published ports of c, e.g. "27017->27017/tcp".
func FormatPorts(c types.Container) string {
	ports := ""
	for _, p := range c.Ports {
		if p.PublicPort != 0 {
			if ports != "" {
				ports += " "
			}
			ports += fmt.Sprintf("%d->%d/%s", p.PublicPort, p.PrivatePort, p.Type)
		}
	}
	return ports
}
