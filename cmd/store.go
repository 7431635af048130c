package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/campaign-cli/internal/store"
)

// openStore builds the configured store driver and runs migrations.
func openStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)

	switch cfg.Store.Driver {
	case "sqlite":
		st, err = store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "csv":
		st = store.NewCSV(cfg.Store.CSVPath)
	default:
		return nil, eris.Errorf("unknown store driver %q (want sqlite, postgres or csv)", cfg.Store.Driver)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "open %s store", cfg.Store.Driver)
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}
