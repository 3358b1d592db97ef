package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"parlwatch/internal/adapter/notify"
	"parlwatch/internal/adapter/source"
	"parlwatch/internal/adapter/store"
	"parlwatch/internal/keyword"
	"parlwatch/internal/port"
)

// openStore opens the bbolt record store at the configured path,
// resolved against the base directory.
func openStore() (*store.BoltStore, error) {
	path := cfg.Storage.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	st, err := store.NewBoltStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	return st, nil
}

// loadTerms builds the term set. Terms persisted in the store win; an
// empty store is seeded from the configured keyword file, and the seed
// is persisted so later mutations have a single home.
func loadTerms(st *store.BoltStore) (*keyword.TermSet, error) {
	terms, err := keyword.NewTermSet(cfg.Keywords.MinLength, cfg.Keywords.CaseSensitive)
	if err != nil {
		return nil, err
	}

	stored, err := st.Keywords()
	if err != nil {
		return nil, fmt.Errorf("failed to load keywords: %w", err)
	}
	if len(stored) > 0 {
		for _, term := range stored {
			terms.Add(term)
		}
		return terms, nil
	}

	seedPath := cfg.Keywords.File
	if !filepath.IsAbs(seedPath) {
		seedPath = filepath.Join(baseDir, seedPath)
	}
	if _, err := os.Stat(seedPath); os.IsNotExist(err) {
		return terms, nil
	}
	if _, err := terms.LoadFile(seedPath); err != nil {
		return nil, err
	}
	for _, term := range terms.Terms() {
		if err := st.PutKeyword(term); err != nil {
			return nil, fmt.Errorf("failed to persist keyword: %w", err)
		}
	}
	return terms, nil
}

// buildAggregator assembles matcher and aggregator over the term set.
func buildAggregator(terms *keyword.TermSet) *keyword.Aggregator {
	matcher := keyword.NewMatcher(terms, cfg.Keywords.WholeWord)
	return keyword.NewAggregator(matcher, terms, cfg.Keywords.MaxResults)
}

// buildSource creates the configured HTTP document source.
func buildSource() port.DocumentSource {
	return source.NewEuroParlSource(
		cfg.Source.BaseURL,
		cfg.Source.Endpoint,
		time.Duration(cfg.Source.TimeoutSeconds)*time.Second,
		cfg.Source.MaxRetries,
		cfg.Source.RateLimitRPS,
	)
}

// buildNotifier creates the email notifier, reading recipients only
// when notifications are enabled.
func buildNotifier() (port.Notifier, error) {
	var recipients []string
	if cfg.Notify.Enabled {
		path := cfg.Notify.RecipientsFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		var err error
		recipients, err = notify.LoadRecipients(path)
		if err != nil {
			return nil, err
		}
	}
	return notify.NewEmailNotifier(notify.Options{
		Enabled:       cfg.Notify.Enabled,
		Host:          cfg.Notify.SMTPHost,
		Port:          cfg.Notify.SMTPPort,
		Username:      os.Getenv(cfg.Notify.UsernameEnv),
		Password:      os.Getenv(cfg.Notify.PasswordEnv),
		From:          cfg.Notify.From,
		SubjectPrefix: cfg.Notify.SubjectPrefix,
		Recipients:    recipients,
	})
}
