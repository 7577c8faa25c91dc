package inventory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mousto-pos/internal/application/dto"
	"github.com/jhoicas/mousto-pos/internal/domain/repository"
)

const (
	journalWindow   = 100
	journalPageSize = 5
	// SystemAuthor nombre mostrado para movimientos sin autor.
	SystemAuthor = "Système"
)

// JournalUseCase journal de auditoría de los últimos movimientos de stock.
type JournalUseCase struct {
	movRepo repository.StockMovementRepository
}

// NewJournalUseCase construye el caso de uso.
func NewJournalUseCase(movRepo repository.StockMovementRepository) *JournalUseCase {
	return &JournalUseCase{movRepo: movRepo}
}

// List devuelve la página pedida de los 100 últimos movimientos, filtrada por autor,
// junto con la lista de autores presentes en esa ventana.
func (uc *JournalUseCase) List(ctx context.Context, q dto.JournalQuery) (*dto.JournalResponse, error) {
	q.Normalize(journalPageSize)
	records, err := uc.movRepo.ListRecent(ctx, journalWindow)
	if err != nil {
		return nil, err
	}

	authorFilter := strings.TrimSpace(q.AuthorID)
	if authorFilter == "all" {
		authorFilter = ""
	}

	seen := make(map[string]bool)
	authors := make([]dto.AuthorOption, 0)
	entries := make([]dto.JournalEntry, 0, len(records))
	for _, r := range records {
		entry := toJournalEntry(r)
		key := ""
		if entry.AuthorID != nil {
			key = *entry.AuthorID
		}
		if !seen[key] {
			seen[key] = true
			authors = append(authors, dto.AuthorOption{ID: key, Name: entry.Author})
		}
		if authorFilter != "" && key != authorFilter {
			continue
		}
		entries = append(entries, entry)
	}
	sort.SliceStable(authors, func(i, j int) bool {
		return strings.ToLower(authors[i].Name) < strings.ToLower(authors[j].Name)
	})

	return &dto.JournalResponse{
		Items:   dto.Paginate(entries, q.PageRequest),
		Authors: authors,
		Page:    dto.NewPageResponse(q.PageRequest, len(entries)),
	}, nil
}

func toJournalEntry(r repository.MovementRecord) dto.JournalEntry {
	author := strings.TrimSpace(r.AuthorName)
	if r.Movement.CreatedBy == nil || author == "" {
		author = SystemAuthor
	}
	return dto.JournalEntry{
		ID:          r.Movement.ID,
		ProductID:   r.Movement.ProductID,
		ProductName: r.ProductName,
		UnitPrice:   r.UnitPrice,
		Value:       r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Movement.Quantity))),
		Type:        string(r.Movement.Type),
		Quantity:    r.Movement.Quantity,
		Reason:      r.Movement.Reason,
		AuthorID:    r.Movement.CreatedBy,
		Author:      author,
		CreatedAt:   r.Movement.CreatedAt,
	}
}
