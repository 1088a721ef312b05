package catalog

import (
	"context"

	"carstock/internal/config"
	"carstock/internal/model"
	"carstock/internal/utils"
)

// Snapshot builds the backup payload for a loaded catalog: metadata,
// aggregate statistics and the full product map. Products are keyed by
// normalized number so the marshaled JSON is deterministic.
func (f *Facade) Snapshot(backupType, createdBy string, cache map[string]model.Product) model.BackupSnapshot {
	stats := model.BackupStatistics{ProductsByType: map[string]int{}}
	for _, p := range cache {
		stats.TotalValue += p.PriceIQD
		stats.TotalWholesaleValue += p.WholesalePriceIQD
		stats.ProductsByType[group(p.Type)]++
	}
	return model.BackupSnapshot{
		Info: model.BackupInfo{
			Version:       config.Version,
			BackupType:    backupType,
			BackupDate:    f.Now(),
			TotalProducts: len(cache),
			CreatedBy:     createdBy,
		},
		Statistics: stats,
		Products:   cache,
	}
}

// ImportError records a single failed record of an import batch.
type ImportError struct {
	ProductNumber string `json:"product_number"`
	Error         string `json:"error"`
}

// ImportStats summarizes an import batch.
type ImportStats struct {
	TotalImported     int           `json:"total_imported"`
	NewProducts       int           `json:"new_products"`
	UpdatedProducts   int           `json:"updated_products"`
	SkippedDuplicates int           `json:"skipped_duplicates"`
	Errors            []ImportError `json:"errors"`
}

// Import merges an uploaded product map into the catalog and pushes the
// result to the authoritative database: unknown numbers are inserted,
// records with a strictly newer last_update overwrite the existing
// document, everything else is skipped as a duplicate. Per-record
// failures are collected and never abort the batch.
func (f *Facade) Import(ctx context.Context, incoming map[string]model.Product) ImportStats {
	stats := ImportStats{Errors: []ImportError{}}
	cache := f.Load(ctx)

	for number, record := range incoming {
		stats.TotalImported++
		key := utils.NormalizeDigits(number)
		record.ProductNumber = key
		record.ID = ""
		if record.Status == "" {
			record.Status = model.DeriveStatus(record.Quantity)
		}
		if record.OriginalQuantity == 0 {
			record.OriginalQuantity = record.Quantity
		}
		if record.LastUpdate == "" {
			record.LastUpdate = f.Now()
		}

		existing, exists := cache[key]
		if !exists {
			if err := f.repo.Insert(ctx, record); err != nil {
				stats.Errors = append(stats.Errors, ImportError{ProductNumber: key, Error: err.Error()})
				continue
			}
			cache[key] = record
			stats.NewProducts++
			continue
		}
		// ISO-8601 timestamps compare lexicographically; only a
		// strictly newer record wins.
		if record.LastUpdate <= existing.LastUpdate {
			stats.SkippedDuplicates++
			continue
		}
		patch := importPatch(record)
		if err := f.repo.PatchFields(ctx, existing.ID, patch); err != nil {
			stats.Errors = append(stats.Errors, ImportError{ProductNumber: key, Error: err.Error()})
			continue
		}
		record.ID = existing.ID
		cache[key] = record
		stats.UpdatedProducts++
	}
	return stats
}

// importPatch builds the whitelisted patch carrying every mutable field
// of an imported record.
func importPatch(p model.Product) model.ProductPatch {
	patch := model.ProductPatch{
		ProductName:       &p.ProductName,
		CarName:           &p.CarName,
		ModelNumber:       &p.ModelNumber,
		Type:              &p.Type,
		Quantity:          &p.Quantity,
		PriceIQD:          &p.PriceIQD,
		WholesalePriceIQD: &p.WholesalePriceIQD,
		Status:            &p.Status,
		LastUpdate:        &p.LastUpdate,
	}
	if p.Image != "" {
		patch.Image = &p.Image
	}
	if p.MessageID != 0 {
		patch.MessageID = &p.MessageID
	}
	return patch
}
