package provisioning

import (
	"github.com/imamik/searchprov/internal/config"
	"github.com/imamik/searchprov/internal/platform/cluster"
	"github.com/imamik/searchprov/internal/platform/sigv4"
)

// NewExecutorFromConfig wires a SigV4 signer and a cluster client for cfg.
func NewExecutorFromConfig(cfg *config.Config, opts ...Option) *Executor {
	signer := sigv4.New(cfg.Credentials, cfg.Region)
	client := cluster.NewClient(cluster.WithTimeout(cfg.Timeouts.Request))
	return NewExecutor(cfg.Endpoint, signer, client, opts...)
}
