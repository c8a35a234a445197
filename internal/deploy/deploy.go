package deploy

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/pkg/errors"
	testcontainers "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const devToolsPort = "9222/tcp"

// HostAlias is how a container reaches services listening on the Docker host.
const HostAlias = "host.docker.internal"

// HeadlessShell is a running Chrome container which the chrome package can attach to.
type HeadlessShell struct {
	container testcontainers.Container
	logger    *log.Logger
	// DevToolsURL is the http://host:port address of the container's remote debugging endpoint.
	DevToolsURL string
}

// RunHeadlessShell starts image (normally chromedp/headless-shell) and waits for its
// DevTools endpoint.
func RunHeadlessShell(ctx context.Context, image string, logger *log.Logger) (*HeadlessShell, error) {
	// allow time for the image pull and for Chrome to start
	ctx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        image,
		ExposedPorts: []string{devToolsPort},
		WaitingFor:   wait.ForListeningPort(nat.Port(devToolsPort)),
		HostConfigModifier: func(hc *container.HostConfig) {
			if runtime.GOOS == "linux" {
				// Ensure that the container can contact the host, so Chrome can load pages
				// from the player. Docker Desktop defines this alias itself.
				hc.ExtraHosts = []string{HostAlias + ":host-gateway"}
			}
		},
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to start %s", image)
	}
	devToolsURL, err := externalURL(ctx, c, devToolsPort)
	if err != nil {
		c.Terminate(context.Background())
		return nil, err
	}
	logger.Info("headless shell running", "image", image, "devtools", devToolsURL)
	return &HeadlessShell{
		container:   c,
		logger:      logger,
		DevToolsURL: devToolsURL,
	}, nil
}

// Teardown writes the container logs to ./logs and stops the container.
func (h *HeadlessShell) Teardown() {
	logs, err := h.container.Logs(context.Background())
	if err != nil {
		h.logger.Warn("failed to get container logs", "err", err)
	} else if err := writeContainerLogs(logs, "container-headless-shell.log"); err != nil {
		h.logger.Warn("failed to write container logs", "err", err)
	}
	if err := h.container.Terminate(context.Background()); err != nil {
		h.logger.Error("failed to stop headless shell", "err", err)
	}
}

func externalURL(ctx context.Context, c testcontainers.Container, exposedPort string) (string, error) {
	host, err := c.Host(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to get host")
	}
	if host == "localhost" {
		// always use IPv4: dynamically allocated ports are independent for v4 and v6, so
		// localhost may resolve to a different process listening on ::1
		host = "127.0.0.1"
	}
	mappedPort, err := c.MappedPort(ctx, nat.Port(exposedPort))
	if err != nil {
		return "", errors.Wrap(err, "failed to get mapped port")
	}
	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port()), nil
}

func writeContainerLogs(readCloser io.ReadCloser, filename string) error {
	defer readCloser.Close()
	os.Mkdir("./logs", os.ModePerm) // ignore error, we don't care if it already exists
	w, err := os.Create("./logs/" + filename)
	if err != nil {
		return fmt.Errorf("os.Create: %s", err)
	}
	defer w.Close()
	_, err = io.Copy(w, readCloser)
	if err != nil {
		return fmt.Errorf("io.Copy: %s", err)
	}
	return nil
}
