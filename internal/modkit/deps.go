package modkit

import (
	"embedbatch/internal/modkit/repokit"
	"embedbatch/internal/platform/config"
	"embedbatch/internal/platform/logger"
	"embedbatch/internal/platform/store"
)

// Deps are the shared dependencies handed to every module; PG and CH are nil when not configured
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}
