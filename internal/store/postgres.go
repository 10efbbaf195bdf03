package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Marcoluik/Biblenotes/internal/bible"
)

// PGStore serves verse text from a Postgres verses table, for
// deployments that keep the dataset in the database instead of a bulk
// JSON asset. Schema lives in migrations/.
type PGStore struct {
	DB *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{DB: db}
}

func (p *PGStore) VerseText(ctx context.Context, lang, verseID string) (string, error) {
	ordinal, chapter, verse, err := bible.ParseVerseID(verseID)
	if err != nil {
		return "", ErrVerseNotFound
	}

	query := `
			SELECT text
			FROM verses
			WHERE lang = $1 AND book = $2 AND chapter = $3 AND verse = $4`

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var text string
	err = p.DB.QueryRowContext(ctx, query, lang, ordinal, chapter, verse).Scan(&text)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrVerseNotFound
		}
		return "", err
	}

	return text, nil
}

// InsertVerses bulk-inserts one chapter's verses; the offline generator
// uses it when asked to mirror the dataset into Postgres.
func (p *PGStore) InsertVerses(ctx context.Context, lang string, verses map[string]string) error {
	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO verses (lang, book, chapter, verse, text)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (lang, book, chapter, verse) DO UPDATE SET text = EXCLUDED.text`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for id, text := range verses {
		ordinal, chapter, verse, err := bible.ParseVerseID(id)
		if err != nil {
			continue
		}
		if _, err := stmt.ExecContext(ctx, lang, ordinal, chapter, verse, text); err != nil {
			return err
		}
	}

	return tx.Commit()
}
