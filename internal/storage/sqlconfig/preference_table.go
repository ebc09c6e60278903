package sqlconfig

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/tx-ledger/internal/ledger"
	"github.com/carson-networks/tx-ledger/internal/storage"
)

var _ storage.IPreferenceWriter = (*PreferencesTable)(nil)

type preferenceRow struct {
	Category int16 `db:"category"`
	Enabled  bool  `db:"enabled"`
}

// PreferencesTable provides access to the notification_preferences table.
type PreferencesTable struct {
	exec bob.Executor
}

func NewPreferencesTable(exec bob.Executor) *PreferencesTable {
	return &PreferencesTable{exec: exec}
}

func (t *PreferencesTable) Flags(ctx context.Context, user ledger.Identity) (map[ledger.Category]bool, error) {
	query := psql.Select(
		sm.Columns("category", "enabled"),
		sm.From(preferencesTableName),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(string(user)))),
	)
	rows, err := bob.All(ctx, t.exec, query, scan.StructMapper[preferenceRow]())
	if err != nil {
		return nil, err
	}

	flags := make(map[ledger.Category]bool, len(rows))
	for _, row := range rows {
		flags[ledger.Category(row.Category)] = row.Enabled
	}
	return flags, nil
}

// Set upserts one (user, category) flag.
func (t *PreferencesTable) Set(ctx context.Context, user ledger.Identity, category ledger.Category, enabled bool) error {
	query := psql.Insert(
		im.Into(preferencesTableName, "user_id", "category", "enabled"),
		im.Values(psql.Arg(string(user), int16(category), enabled)),
		im.OnConflict("user_id", "category").DoUpdate(
			im.SetExcluded("enabled"),
		),
	)
	_, err := bob.Exec(ctx, t.exec, query)
	return err
}
