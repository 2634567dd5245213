package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bookkeep/library-records/internal/core/ports"
	"github.com/bookkeep/library-records/internal/core/service"
	"github.com/bookkeep/library-records/pkg/logger"
)

// catalog is the YAML layout accepted by "library seed".
type catalog struct {
	Books []catalogBook `yaml:"books"`
}

type catalogBook struct {
	Title           string `yaml:"title"`
	Author          string `yaml:"author"`
	PublishedYear   *int   `yaml:"published_year"`
	AvailableCopies *int   `yaml:"available_copies"`
}

func parseCatalog(r io.Reader) (*catalog, error) {
	var c catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return &c, nil
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for i, b := range c.Books {
		if b.Title == "" || b.Author == "" {
			return nil, fmt.Errorf("parse catalog: book %d needs a title and an author", i+1)
		}
		if b.AvailableCopies != nil && *b.AvailableCopies < 0 {
			return nil, fmt.Errorf("parse catalog: book %d has negative available_copies", i+1)
		}
	}
	return &c, nil
}

func newSeedCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create books from a YAML catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			c, err := parseCatalog(f)
			if err != nil {
				return err
			}

			db, store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := seedBooks(cmd.Context(), service.NewBookService(store, logger.Component("seed")), c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d books\n", n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "catalog.yaml", "YAML catalog to import")
	return cmd
}

func seedBooks(ctx context.Context, books ports.BookService, c *catalog) (int, error) {
	for i, b := range c.Books {
		if _, err := books.CreateBook(ctx, ports.BookInput{
			Title:           b.Title,
			Author:          b.Author,
			PublishedYear:   b.PublishedYear,
			AvailableCopies: b.AvailableCopies,
		}); err != nil {
			return i, fmt.Errorf("create %q: %w", b.Title, err)
		}
	}
	return len(c.Books), nil
}
