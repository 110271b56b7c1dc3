package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/itemquery/internal/common"
	"github.com/Veraticus/itemquery/internal/model"
	"github.com/Veraticus/itemquery/internal/service"
)

const (
	kindCategory = "category"
	kindRarity   = "rarity"
)

// Checksum fingerprints a catalog's content, including its dictionaries.
func Checksum(cat *model.Catalog) (string, error) {
	data, err := json.Marshal(struct {
		Groups     []model.StatGroup    `json:"groups"`
		Categories []model.FilterOption `json:"categories"`
		Rarities   []model.FilterOption `json:"rarities"`
	}{cat.Groups, cat.Categories, cat.Rarities})
	if err != nil {
		return "", fmt.Errorf("failed to encode catalog: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

var _ service.CatalogStore = (*SQLiteStorage)(nil)

// SaveCatalog stores cat as a new snapshot. progress, when set, is called
// after each stat entry is written. When the latest snapshot already
// has the same content it is returned instead and created is false.
func (s *SQLiteStorage) SaveCatalog(ctx context.Context, cat *model.Catalog, source string, progress func(done, total int)) (snapshot *model.CatalogSnapshot, created bool, err error) {
	if err := validateContext(ctx); err != nil {
		return nil, false, err
	}
	if err := validateCatalog(cat); err != nil {
		return nil, false, err
	}

	checksum, err := Checksum(cat)
	if err != nil {
		return nil, false, err
	}

	latest, err := s.latestSnapshot(ctx)
	switch {
	case err == nil && latest.Checksum == checksum:
		return latest, false, nil
	case err != nil && !errors.Is(err, common.ErrNotFound):
		return nil, false, err
	}

	snapshot = &model.CatalogSnapshot{
		Source:     source,
		Checksum:   checksum,
		ImportedAt: time.Now().UTC(),
		Entries:    cat.EntryCount(),
	}

	err = s.withRetry(ctx, func() error {
		id, saveErr := s.saveCatalogTx(ctx, cat, snapshot, progress)
		if saveErr != nil {
			return saveErr
		}
		snapshot.ID = id
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to save catalog: %w", err)
	}

	return snapshot, true, nil
}

func (s *SQLiteStorage) saveCatalogTx(ctx context.Context, cat *model.Catalog, snapshot *model.CatalogSnapshot, progress func(done, total int)) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO catalog_snapshots (source, imported_at, entry_count, checksum) VALUES (?, ?, ?, ?)`,
		snapshot.Source, snapshot.ImportedAt, snapshot.Entries, snapshot.Checksum)
	if err != nil {
		return 0, fmt.Errorf("failed to insert snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get snapshot id: %w", err)
	}

	groupStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO stat_groups (snapshot_id, position, group_id, label) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare group insert: %w", err)
	}
	defer func() { _ = groupStmt.Close() }()

	entryStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO stat_entries (snapshot_id, group_position, position, stat_id, text, type, has_options)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer func() { _ = entryStmt.Close() }()

	optionStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO stat_options (snapshot_id, group_position, entry_position, position, option_id, text)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare option insert: %w", err)
	}
	defer func() { _ = optionStmt.Close() }()

	done := 0
	for gi, g := range cat.Groups {
		if _, err := groupStmt.ExecContext(ctx, id, gi, g.ID, g.Label); err != nil {
			return 0, fmt.Errorf("failed to insert group %s: %w", g.ID, err)
		}
		for ei, e := range g.Entries {
			if _, err := entryStmt.ExecContext(ctx, id, gi, ei, e.ID, e.Text, e.Type, e.Option != nil); err != nil {
				return 0, fmt.Errorf("failed to insert stat %s: %w", e.ID, err)
			}
			if e.Option != nil {
				for oi, o := range e.Option.Options {
					if _, err := optionStmt.ExecContext(ctx, id, gi, ei, oi, string(o.ID), o.Text); err != nil {
						return 0, fmt.Errorf("failed to insert option %s of %s: %w", o.ID, e.ID, err)
					}
				}
			}
			done++
			if progress != nil {
				progress(done, snapshot.Entries)
			}
		}
	}

	if err := insertFilterOptions(ctx, tx, id, kindCategory, cat.Categories); err != nil {
		return 0, err
	}
	if err := insertFilterOptions(ctx, tx, id, kindRarity, cat.Rarities); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit catalog: %w", err)
	}
	return id, nil
}

func insertFilterOptions(ctx context.Context, tx *sql.Tx, snapshotID int64, kind string, options []model.FilterOption) error {
	for i, o := range options {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO filter_options (snapshot_id, kind, position, option_id, text) VALUES (?, ?, ?, ?, ?)`,
			snapshotID, kind, i, o.ID, o.Text); err != nil {
			return fmt.Errorf("failed to insert %s option %s: %w", kind, o.ID, err)
		}
	}
	return nil
}

// LoadCatalog returns the most recently imported catalog.
func (s *SQLiteStorage) LoadCatalog(ctx context.Context) (*model.Catalog, *model.CatalogSnapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, nil, err
	}
	latest, err := s.latestSnapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	cat, err := s.LoadSnapshot(ctx, latest.ID)
	if err != nil {
		return nil, nil, err
	}
	return cat, latest, nil
}

// LoadSnapshot rebuilds the catalog stored under id, preserving the original
// group, entry and option order.
func (s *SQLiteStorage) LoadSnapshot(ctx context.Context, id int64) (*model.Catalog, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var cat *model.Catalog
	err := s.withRetry(ctx, func() error {
		loaded, err := s.loadSnapshot(ctx, id)
		if err != nil {
			return err
		}
		cat = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *SQLiteStorage) loadSnapshot(ctx context.Context, id int64) (*model.Catalog, error) {
	groupRows, err := s.db.QueryContext(ctx,
		`SELECT group_id, label FROM stat_groups WHERE snapshot_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer func() { _ = groupRows.Close() }()

	cat := &model.Catalog{}
	for groupRows.Next() {
		var g model.StatGroup
		if err := groupRows.Scan(&g.ID, &g.Label); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		cat.Groups = append(cat.Groups, g)
	}
	if err := groupRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating groups: %w", err)
	}
	if len(cat.Groups) == 0 {
		return nil, fmt.Errorf("%w: catalog snapshot %d", common.ErrNotFound, id)
	}

	entryRows, err := s.db.QueryContext(ctx,
		`SELECT group_position, stat_id, text, type, has_options FROM stat_entries
		 WHERE snapshot_id = ? ORDER BY group_position, position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query stat entries: %w", err)
	}
	defer func() { _ = entryRows.Close() }()

	for entryRows.Next() {
		var (
			gi         int
			e          model.StatEntry
			hasOptions bool
		)
		if err := entryRows.Scan(&gi, &e.ID, &e.Text, &e.Type, &hasOptions); err != nil {
			return nil, fmt.Errorf("failed to scan stat entry: %w", err)
		}
		if gi < 0 || gi >= len(cat.Groups) {
			return nil, fmt.Errorf("%w: stat %s references missing group %d", common.ErrInvalidCatalog, e.ID, gi)
		}
		if hasOptions {
			e.Option = &model.StatOptions{}
		}
		cat.Groups[gi].Entries = append(cat.Groups[gi].Entries, e)
	}
	if err := entryRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stat entries: %w", err)
	}

	optionRows, err := s.db.QueryContext(ctx,
		`SELECT group_position, entry_position, option_id, text FROM stat_options
		 WHERE snapshot_id = ? ORDER BY group_position, entry_position, position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query stat options: %w", err)
	}
	defer func() { _ = optionRows.Close() }()

	for optionRows.Next() {
		var (
			gi, ei int
			o      model.StatOption
			optID  string
		)
		if err := optionRows.Scan(&gi, &ei, &optID, &o.Text); err != nil {
			return nil, fmt.Errorf("failed to scan stat option: %w", err)
		}
		o.ID = model.OptionID(optID)
		if gi < 0 || gi >= len(cat.Groups) || ei < 0 || ei >= len(cat.Groups[gi].Entries) {
			return nil, fmt.Errorf("%w: option %s references missing entry", common.ErrInvalidCatalog, optID)
		}
		entry := &cat.Groups[gi].Entries[ei]
		if entry.Option == nil {
			entry.Option = &model.StatOptions{}
		}
		entry.Option.Options = append(entry.Option.Options, o)
	}
	if err := optionRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stat options: %w", err)
	}

	if cat.Categories, err = s.loadFilterOptions(ctx, id, kindCategory); err != nil {
		return nil, err
	}
	if cat.Rarities, err = s.loadFilterOptions(ctx, id, kindRarity); err != nil {
		return nil, err
	}

	return cat, nil
}

func (s *SQLiteStorage) loadFilterOptions(ctx context.Context, id int64, kind string) ([]model.FilterOption, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT option_id, text FROM filter_options WHERE snapshot_id = ? AND kind = ? ORDER BY position`, id, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s options: %w", kind, err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.FilterOption
	for rows.Next() {
		var o model.FilterOption
		if err := rows.Scan(&o.ID, &o.Text); err != nil {
			return nil, fmt.Errorf("failed to scan %s option: %w", kind, err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s options: %w", kind, err)
	}
	return out, nil
}

// ListSnapshots returns every stored snapshot, newest first.
func (s *SQLiteStorage) ListSnapshots(ctx context.Context) ([]model.CatalogSnapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, imported_at, entry_count, checksum FROM catalog_snapshots ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.CatalogSnapshot
	for rows.Next() {
		var snap model.CatalogSnapshot
		if err := rows.Scan(&snap.ID, &snap.Source, &snap.ImportedAt, &snap.Entries, &snap.Checksum); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return out, nil
}

// PruneSnapshots deletes all but the newest keep snapshots and returns how
// many were removed.
func (s *SQLiteStorage) PruneSnapshots(ctx context.Context, keep int) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if keep < 1 {
		return 0, fmt.Errorf("%w: keep must be at least 1, got %d", common.ErrInvalidConfig, keep)
	}

	var removed int64
	err := s.withRetry(ctx, func() error {
		res, err := s.db.ExecContext(ctx,
			`DELETE FROM catalog_snapshots WHERE id NOT IN (
				SELECT id FROM catalog_snapshots ORDER BY id DESC LIMIT ?
			)`, keep)
		if err != nil {
			return fmt.Errorf("failed to prune snapshots: %w", err)
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return int(removed), nil
}

func (s *SQLiteStorage) latestSnapshot(ctx context.Context) (*model.CatalogSnapshot, error) {
	var snap model.CatalogSnapshot
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, imported_at, entry_count, checksum FROM catalog_snapshots ORDER BY id DESC LIMIT 1`).
		Scan(&snap.ID, &snap.Source, &snap.ImportedAt, &snap.Entries, &snap.Checksum)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no catalog has been imported", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}
	return &snap, nil
}
