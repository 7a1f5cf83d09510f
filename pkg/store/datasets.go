package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rmax-ai/haze/pkg/content"
)

// Name identifies the store as a dataset source.
func (s *Store) Name() string { return "sqlite" }

// Seed replaces every dataset row with ds in a single transaction.
func (s *Store) Seed(ctx context.Context, ds *content.Datasets) error {
	if err := ds.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"skill_links", "skill_nodes", "achievements"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i, n := range ds.Skills.Nodes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO skill_nodes (id, grp, level, position) VALUES (?, ?, ?, ?)`,
			n.ID, n.Group, n.Level, i); err != nil {
			return fmt.Errorf("failed to insert skill node %q: %w", n.ID, err)
		}
	}
	for i, l := range ds.Skills.Links {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO skill_links (source, target, weight, position) VALUES (?, ?, ?, ?)`,
			l.Source, l.Target, l.Weight, i); err != nil {
			return fmt.Errorf("failed to insert skill link %q -> %q: %w", l.Source, l.Target, err)
		}
	}
	radar := ds.Achievements
	for i, label := range radar.Labels {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO achievements (series, label, value, position) VALUES (?, ?, ?, ?)`,
			radar.Label, label, radar.Values[i], i); err != nil {
			return fmt.Errorf("failed to insert achievement %q: %w", label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit datasets: %w", err)
	}
	return nil
}

// Datasets reads the stored datasets in insertion order.
func (s *Store) Datasets(ctx context.Context) (*content.Datasets, error) {
	var ds content.Datasets

	nodes, err := s.db.QueryContext(ctx, `SELECT id, grp, level FROM skill_nodes ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query skill nodes: %w", err)
	}
	err = scanAll(nodes, func(r *sql.Rows) error {
		var n content.SkillNode
		if err := r.Scan(&n.ID, &n.Group, &n.Level); err != nil {
			return err
		}
		ds.Skills.Nodes = append(ds.Skills.Nodes, n)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan skill nodes: %w", err)
	}

	links, err := s.db.QueryContext(ctx, `SELECT source, target, weight FROM skill_links ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query skill links: %w", err)
	}
	err = scanAll(links, func(r *sql.Rows) error {
		var l content.SkillLink
		if err := r.Scan(&l.Source, &l.Target, &l.Weight); err != nil {
			return err
		}
		ds.Skills.Links = append(ds.Skills.Links, l)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan skill links: %w", err)
	}

	axes, err := s.db.QueryContext(ctx, `SELECT series, label, value FROM achievements ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	err = scanAll(axes, func(r *sql.Rows) error {
		var series, label string
		var value float64
		if err := r.Scan(&series, &label, &value); err != nil {
			return err
		}
		ds.Achievements.Label = series
		ds.Achievements.Labels = append(ds.Achievements.Labels, label)
		ds.Achievements.Values = append(ds.Achievements.Values, value)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan achievements: %w", err)
	}

	if len(ds.Skills.Nodes) == 0 && len(ds.Achievements.Labels) == 0 {
		return nil, ErrEmpty
	}
	return &ds, nil
}

func scanAll(rows *sql.Rows, fn func(*sql.Rows) error) error {
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
