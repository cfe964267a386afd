package cli

import (
	"context"

	"github.com/brandonbloom/fx/internal/forwarder"
	"github.com/brandonbloom/fx/internal/workspace"
)

func (a *app) loadWorkspaceFromWD() (*workspace.Workspace, error) {
	wd, err := a.getwd()
	if err != nil {
		return nil, err
	}
	return workspace.Discover(wd)
}

func (a *app) runForward(ctx context.Context, name string, args []string) error {
	ws, err := a.loadWorkspaceFromWD()
	if err != nil {
		return err
	}
	shell, err := forwarder.Shell(a.cfg.Shell)
	if err != nil {
		return err
	}
	f := &forwarder.Forwarder{
		Workspace: ws,
		Name:      name,
		Shell:     shell,
		Executor:  a.executor,
		Logger:    a.logger,
		Out:       a.stdout,
		Width:     a.width(),
	}
	return f.Run(ctx, args)
}
