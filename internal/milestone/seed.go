package milestone

import (
	"context"
	"time"

	id "sprout/pkg/domain"
)

// SeedDefaults loads a starter catalog into an empty store for development
// and tests. Windows follow common well-child guidance; production catalogs
// are maintained by program administrators.
func SeedDefaults(ctx context.Context, store Store) ([]*Definition, error) {
	existing, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	now := time.Now()
	defs := []*Definition{
		{
			Name: "Social smile", Description: "Smiles in response to faces and voices",
			MinMonths: 1, MaxMonths: 3, DisplayOrder: 1, IconRef: "smile",
			Guidance: &Guidance{
				Checklist:    []string{"Smiles when you talk to them", "Smiles at their mirror image"},
				Tips:         []string{"Hold the baby close and talk with exaggerated expressions"},
				RedFlags:     []string{"No social smile by 3 months"},
				WhatToExpect: "Most babies begin smiling socially between one and three months.",
			},
		},
		{
			Name: "Rolls over", Description: "Rolls from tummy to back and back to tummy",
			MinMonths: 4, MaxMonths: 6, DisplayOrder: 2, IconRef: "roll",
			Guidance: &Guidance{
				Checklist:      []string{"Rolls tummy to back", "Rolls back to tummy"},
				Tips:           []string{"Daily supervised tummy time builds the needed strength"},
				SafetyWarnings: []string{"Never leave the baby unattended on a raised surface once rolling starts"},
			},
		},
		{
			Name: "Sits without support", Description: "Sits steadily without hands for support",
			MinMonths: 6, MaxMonths: 9, DisplayOrder: 3, IconRef: "sit",
		},
		{
			Name: "First words", Description: "Says one or more meaningful words",
			MinMonths: 10, MaxMonths: 14, DisplayOrder: 4, IconRef: "speech",
			Guidance: &Guidance{
				Tips:     []string{"Name objects during daily routines", "Read aloud every day"},
				RedFlags: []string{"No babbling by 12 months"},
			},
		},
		{
			Name: "Walks alone", Description: "Takes several independent steps",
			MinMonths: 11, MaxMonths: 16, DisplayOrder: 5, IconRef: "walk",
			Guidance: &Guidance{
				SafetyWarnings: []string{"Stair gates and furniture anchoring before independent walking"},
			},
		},
		{
			Name: "Two-word phrases", Description: "Combines two words with meaning",
			MinMonths: 18, MaxMonths: 26, DisplayOrder: 6, IconRef: "chat",
		},
	}

	for _, def := range defs {
		def.ID = id.NewMilestoneID()
		def.CreatedAt = now
		def.UpdatedAt = now
		if err := store.Create(ctx, def); err != nil {
			return nil, err
		}
	}
	return defs, nil
}
