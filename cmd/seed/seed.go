package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"portfolio/models"
	"portfolio/store"
)

//go:embed schema.json
var schema []byte

// Dataset is the content a seed run replaces the site with.
type Dataset struct {
	Profile    models.Profile      `json:"profile"`
	Projects   []models.Project    `json:"projects"`
	Experience []models.Experience `json:"experience"`
	Skills     []models.Skill      `json:"skills"`
}

// Counts reports how many rows a seed run inserted per table.
type Counts struct {
	Profiles   int
	Projects   int
	Experience int
	Skills     int
}

// Validate checks raw JSON against the embedded dataset schema.
func Validate(data []byte) error {
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("seed: invalid dataset: %w", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("seed: schema validation failed: %s", strings.Join(msgs, "; "))
}

// LoadDataset reads and validates the dataset at path.
func LoadDataset(path string) (Dataset, error) {
	var ds Dataset
	data, err := os.ReadFile(path)
	if err != nil {
		return ds, err
	}
	if err := Validate(data); err != nil {
		return ds, err
	}
	if err := json.Unmarshal(data, &ds); err != nil {
		return ds, fmt.Errorf("seed: decode dataset: %w", err)
	}
	return ds, nil
}

// Seed empties the content tables and inserts ds. It is not atomic: a
// failure part way leaves whatever was written before it.
func Seed(ctx context.Context, c *store.Client, ds Dataset) (Counts, error) {
	var counts Counts

	if err := store.DeleteAll[models.Skill](ctx, c); err != nil {
		return counts, fmt.Errorf("clear skills: %w", err)
	}
	if err := store.DeleteAll[models.Experience](ctx, c); err != nil {
		return counts, fmt.Errorf("clear experience: %w", err)
	}
	if err := store.DeleteAll[models.Project](ctx, c); err != nil {
		return counts, fmt.Errorf("clear projects: %w", err)
	}
	if err := store.DeleteAll[models.Profile](ctx, c); err != nil {
		return counts, fmt.Errorf("clear profiles: %w", err)
	}

	profile := ds.Profile
	if err := store.Insert(ctx, c, &profile); err != nil {
		return counts, fmt.Errorf("insert profile: %w", err)
	}
	counts.Profiles = 1

	for i := range ds.Projects {
		if err := store.Insert(ctx, c, &ds.Projects[i]); err != nil {
			return counts, fmt.Errorf("insert project %q: %w", ds.Projects[i].Slug, err)
		}
		counts.Projects++
	}
	for i := range ds.Experience {
		if err := store.Insert(ctx, c, &ds.Experience[i]); err != nil {
			return counts, fmt.Errorf("insert experience %q: %w", ds.Experience[i].Company, err)
		}
		counts.Experience++
	}
	for i := range ds.Skills {
		if err := store.Insert(ctx, c, &ds.Skills[i]); err != nil {
			return counts, fmt.Errorf("insert skill %q: %w", ds.Skills[i].Name, err)
		}
		counts.Skills++
	}
	return counts, nil
}
