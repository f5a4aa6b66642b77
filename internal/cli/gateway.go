package cli

import (
	"context"
	"fmt"

	"github.com/evcraddock/visitor-pass/internal/client"
	"github.com/evcraddock/visitor-pass/internal/pass"
	"github.com/evcraddock/visitor-pass/internal/request"
)

// gateway is what the request commands need. It is served by the local store
// or, after "vp login", by a running server.
type gateway interface {
	Submit(ctx context.Context, username string, d request.Draft) (string, error)
	List(ctx context.Context, username string) ([]*request.VisitorRequest, error)
	Get(ctx context.Context, id string) (*request.VisitorRequest, error)
	Resolve(ctx context.Context, id string, a request.Action) (*request.VisitorRequest, error)
	Pass(ctx context.Context, id string) ([]byte, string, error)
	Close(ctx context.Context)
}

// openGateway picks the remote server when one is configured, else the local store.
func openGateway(ctx context.Context) (gateway, error) {
	if server := getServerURL(); server != "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		if cfg.Session == "" || cfg.ServerURL != server {
			return nil, fmt.Errorf("not logged in to %s; run 'vp login'", server)
		}
		return &remoteGateway{c: client.New(server, cfg.Session)}, nil
	}

	b, cfg, err := openFromFlags(ctx)
	if err != nil {
		return nil, err
	}
	return &localGateway{
		b:      b,
		svc:    request.NewService(b.requests),
		passes: pass.New(cfg.LogoPath),
	}, nil
}

type localGateway struct {
	b      *backend
	svc    *request.Service
	passes *pass.Generator
}

func (g *localGateway) Submit(ctx context.Context, username string, d request.Draft) (string, error) {
	if username == "" {
		return "", fmt.Errorf("--user is required")
	}
	return g.svc.Submit(ctx, username, d)
}

func (g *localGateway) List(ctx context.Context, username string) ([]*request.VisitorRequest, error) {
	if username != "" {
		return g.svc.ForUser(ctx, username)
	}
	return g.svc.All(ctx)
}

func (g *localGateway) Get(ctx context.Context, id string) (*request.VisitorRequest, error) {
	return g.svc.Get(ctx, id)
}

func (g *localGateway) Resolve(ctx context.Context, id string, a request.Action) (*request.VisitorRequest, error) {
	return g.svc.Resolve(ctx, id, a)
}

func (g *localGateway) Pass(ctx context.Context, id string) ([]byte, string, error) {
	req, err := g.svc.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if req.Status != request.StatusApproved {
		return nil, "", fmt.Errorf("request %s is %s; only approved requests have a pass", id, req.Status)
	}

	doc, err := g.passes.Generate(req)
	if err != nil {
		return nil, "", err
	}
	return doc, pass.Filename(id), nil
}

func (g *localGateway) Close(ctx context.Context) {
	closeBackend(ctx, g.b)
}

type remoteGateway struct {
	c *client.Client
}

func (g *remoteGateway) Submit(ctx context.Context, username string, d request.Draft) (string, error) {
	if username != "" {
		return "", fmt.Errorf("--user cannot be used with a server; requests are submitted as the logged-in user")
	}
	return g.c.SubmitRequest(ctx, d)
}

func (g *remoteGateway) List(ctx context.Context, username string) ([]*request.VisitorRequest, error) {
	reqs, err := g.c.ListRequests(ctx)
	if err != nil || username == "" {
		return reqs, err
	}

	var filtered []*request.VisitorRequest
	for _, r := range reqs {
		if r.RequestedBy == username {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (g *remoteGateway) Get(ctx context.Context, id string) (*request.VisitorRequest, error) {
	return g.c.GetRequest(ctx, id)
}

func (g *remoteGateway) Resolve(ctx context.Context, id string, a request.Action) (*request.VisitorRequest, error) {
	return g.c.Resolve(ctx, id, a)
}

func (g *remoteGateway) Pass(ctx context.Context, id string) ([]byte, string, error) {
	doc, filename, err := g.c.Pass(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if filename == "" {
		filename = pass.Filename(id)
	}
	return doc, filename, nil
}

func (g *remoteGateway) Close(context.Context) {}
