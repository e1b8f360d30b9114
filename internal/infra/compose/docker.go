// Where: internal/infra/compose/docker.go
// What: Docker SDK queries scoped to a compose project.
// Why: Report what an environment's stack is running without shelling out.
package compose

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/anibalxyz/reconciler/cli/internal/meta"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
)

// DockerClient defines the subset of Docker SDK methods used by this package.
// This interface enables mocking the Docker client in tests.
type DockerClient interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
}

// ContainerInfo holds information about containers discovered via compose.
type ContainerInfo struct {
	Name    string
	Service string
	Image   string
	State   string
	Status  string
}

// ListContainersByProject returns every container (running or not) labelled
// with the compose project, ordered by service then name.
func ListContainersByProject(
	ctx context.Context,
	client DockerClient,
	project string,
) ([]ContainerInfo, error) {
	if client == nil {
		return nil, errDockerClientNil
	}
	project = strings.TrimSpace(project)
	if project == "" {
		return nil, errProjectRequired
	}

	labelFilter := filters.NewArgs()
	labelFilter.Add("label", fmt.Sprintf("%s=%s", meta.ComposeProjectLabel, project))

	containers, err := client.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: labelFilter,
	})
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}

	result := make([]ContainerInfo, 0, len(containers))
	for _, ctr := range containers {
		if ctr.Labels == nil || ctr.Labels[meta.ComposeProjectLabel] != project {
			continue
		}

		name := ""
		if len(ctr.Names) > 0 {
			name = strings.TrimPrefix(ctr.Names[0], "/")
		}

		result = append(result, ContainerInfo{
			Name:    name,
			Service: ctr.Labels[meta.ComposeServiceLabel],
			Image:   ctr.Image,
			State:   string(ctr.State),
			Status:  ctr.Status,
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Service != result[j].Service {
			return result[i].Service < result[j].Service
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}
