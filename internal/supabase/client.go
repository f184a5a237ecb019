package supabase

import (
	"context"
	"fmt"

	supa "github.com/supabase-community/supabase-go"
	"outfit-studio/internal/models"
)

const outfitsTable = "outfits"

// OutfitTable reads the outfit collection through the Supabase REST API
// instead of a direct database connection.
type OutfitTable struct {
	client *supa.Client
}

func NewOutfitTable(supabaseURL, apiKey string) (*OutfitTable, error) {
	client, err := supa.NewClient(supabaseURL, apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &OutfitTable{client: client}, nil
}

type outfitRow struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	File     string   `json:"file"`
	Keywords []string `json:"keywords"`
	Items    []string `json:"items"`
}

// FetchOutfits satisfies catalog.OutfitSource. The REST client has no
// context support, so ctx is only checked before the call.
func (t *OutfitTable) FetchOutfits(ctx context.Context) ([]models.RemoteOutfit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []outfitRow
	_, err := t.client.From(outfitsTable).
		Select("id,name,file,keywords,items", "", false).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list outfits: %w", err)
	}

	outfits := make([]models.RemoteOutfit, len(rows))
	for i, row := range rows {
		outfits[i] = models.RemoteOutfit{
			ID:       row.ID,
			Name:     row.Name,
			File:     row.File,
			Keywords: row.Keywords,
			Items:    row.Items,
		}
	}
	return outfits, nil
}
