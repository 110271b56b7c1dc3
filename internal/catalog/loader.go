package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/itemquery/internal/common"
	"github.com/Veraticus/itemquery/internal/model"
)

// Filter ids inside the trade filter dictionary.
const (
	typeFiltersID = "type_filters"
	categoryID    = "category"
	rarityID      = "rarity"
)

// LoadFiles reads a stats file and an optional filters file. Stats files ending
// in .yaml or .yml are read as a self-contained YAML catalog that may carry
// its own category and rarity dictionaries.
func LoadFiles(statsPath, filtersPath string) (*model.Catalog, error) {
	f, err := os.Open(statsPath) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open stats file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var cat *model.Catalog
	switch strings.ToLower(filepath.Ext(statsPath)) {
	case ".yaml", ".yml":
		cat, err = DecodeYAML(f)
	default:
		cat, err = DecodeStats(f)
	}
	if err != nil {
		return nil, err
	}

	if filtersPath == "" {
		return cat, nil
	}

	ff, err := os.Open(filtersPath) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open filters file: %w", err)
	}
	defer func() { _ = ff.Close() }()

	categories, rarities, err := DecodeFilters(ff)
	if err != nil {
		return nil, err
	}
	cat.Categories = categories
	cat.Rarities = rarities
	return cat, nil
}

// DecodeStats reads the trade service stats document: {"result": [groups]}.
func DecodeStats(r io.Reader) (*model.Catalog, error) {
	var cat model.Catalog
	if err := json.NewDecoder(r).Decode(&cat); err != nil {
		return nil, fmt.Errorf("%w: failed to decode stats: %w", common.ErrInvalidCatalog, err)
	}
	if len(cat.Groups) == 0 {
		return nil, fmt.Errorf("%w: stats document has no groups", common.ErrInvalidCatalog)
	}
	return &cat, nil
}

// DecodeYAML reads a YAML catalog with groups, categories and rarities.
func DecodeYAML(r io.Reader) (*model.Catalog, error) {
	var cat model.Catalog
	if err := yaml.NewDecoder(r).Decode(&cat); err != nil {
		return nil, fmt.Errorf("%w: failed to decode yaml catalog: %w", common.ErrInvalidCatalog, err)
	}
	if len(cat.Groups) == 0 {
		return nil, fmt.Errorf("%w: yaml catalog has no groups", common.ErrInvalidCatalog)
	}
	return &cat, nil
}

type filtersDocument struct {
	Result []struct {
		ID      string `json:"id"`
		Filters []struct {
			Option *struct {
				Options []struct {
					ID   *string `json:"id"`
					Text string  `json:"text"`
				} `json:"options"`
			} `json:"option"`
			ID string `json:"id"`
		} `json:"filters"`
	} `json:"result"`
}

// DecodeFilters extracts the item category and rarity dictionaries from the
// trade service filters document. The "Any" option, which has a null id, is
// dropped.
func DecodeFilters(r io.Reader) (categories, rarities []model.FilterOption, err error) {
	var doc filtersDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("%w: failed to decode filters: %w", common.ErrInvalidCatalog, err)
	}

	for _, group := range doc.Result {
		if group.ID != typeFiltersID {
			continue
		}
		for _, filter := range group.Filters {
			if filter.Option == nil {
				continue
			}
			var opts []model.FilterOption
			for _, o := range filter.Option.Options {
				if o.ID == nil {
					continue
				}
				opts = append(opts, model.FilterOption{ID: *o.ID, Text: o.Text})
			}
			switch filter.ID {
			case categoryID:
				categories = opts
			case rarityID:
				rarities = opts
			}
		}
	}

	if len(categories) == 0 {
		return nil, nil, fmt.Errorf("%w: filters document has no item categories", common.ErrInvalidCatalog)
	}
	return categories, rarities, nil
}
