// Copyright (C) 2025 pairmatch.app <dev@pairmatch.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package postgres

func (s *Store) Migrate() error {
	migrations := []string{
		// One thread per unordered user pair. The CHECK plus UNIQUE pair
		// is the canonical pair key: callers store the lexicographically
		// smaller id in user1_id.
		`CREATE TABLE IF NOT EXISTS match_threads (
			id BIGSERIAL PRIMARY KEY,
			uuid VARCHAR(36) NOT NULL UNIQUE,
			user1_id VARCHAR(255) NOT NULL,
			user2_id VARCHAR(255) NOT NULL,
			user1_allows_uploads BOOLEAN NOT NULL DEFAULT FALSE,
			user2_allows_uploads BOOLEAN NOT NULL DEFAULT FALSE,
			user1_last_seen_at TIMESTAMPTZ,
			user2_last_seen_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			changed_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT unique_thread_pair UNIQUE (user1_id, user2_id),
			CONSTRAINT ordered_thread_pair CHECK (user1_id < user2_id)
		)`,

		// Inbox listing is ordered by changed_at.
		`CREATE INDEX IF NOT EXISTS idx_threads_user1
		ON match_threads(user1_id, changed_at DESC)`,

		`CREATE INDEX IF NOT EXISTS idx_threads_user2
		ON match_threads(user2_id, changed_at DESC)`,

		// Append-only message log. seq is assigned per thread under a row
		// lock and breaks created_at ties.
		`CREATE TABLE IF NOT EXISTS match_messages (
			id BIGSERIAL PRIMARY KEY,
			thread_id BIGINT NOT NULL,
			sender_id VARCHAR(255) NOT NULL,
			body TEXT NOT NULL DEFAULT '',
			attachments TEXT[] NOT NULL DEFAULT '{}',
			seq BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT unique_thread_seq UNIQUE (thread_id, seq),
			FOREIGN KEY (thread_id) REFERENCES match_threads(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_messages_thread
		ON match_messages(thread_id, created_at, seq)`,

		// Directed block edges; a mutual block is two rows.
		`CREATE TABLE IF NOT EXISTS match_blocks (
			blocker_id VARCHAR(255) NOT NULL,
			blocked_id VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (blocker_id, blocked_id)
		)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
