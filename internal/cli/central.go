package cli

import (
	"context"
	"io"

	"github.com/neuroblueprint/shuttle/internal/config"
	"github.com/neuroblueprint/shuttle/internal/project"
	"github.com/neuroblueprint/shuttle/internal/remote"
)

// connectCentral dials the central host when the project reaches it
// over SSH. For local-filesystem projects no connection is needed and
// the returned closer is nil.
func connectCentral(ctx context.Context, p *project.Project) (io.Closer, error) {
	if p.Config.ConnectionMethod != config.ConnectionSSH {
		return nil, nil
	}

	keyPath, err := config.SSHKeyPath(p.Name)
	if err != nil {
		return nil, err
	}
	knownHosts, err := config.KnownHostsPath(p.Name)
	if err != nil {
		return nil, err
	}

	client, err := remote.Connect(
		ctx, p.Config.CentralHostID, p.Config.CentralHostUsername, keyPath, knownHosts)
	if err != nil {
		return nil, err
	}
	p.SetCentralLister(client)
	return client, nil
}
