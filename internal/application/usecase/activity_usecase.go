package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/mousto-pos/internal/application/dto"
	"github.com/jhoicas/mousto-pos/internal/application/ports"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	"github.com/jhoicas/mousto-pos/internal/domain/repository"
	"github.com/jhoicas/mousto-pos/pkg/logger"
)

const activityPageSize = 6

var _ ports.ActivityRecorder = (*ActivityUseCase)(nil)

// ActivityUseCase journal de actividad: registro best effort y consulta paginada.
type ActivityUseCase struct {
	repo      repository.ActivityLogRepository
	publisher ports.ChangePublisher
	log       *logger.Logger
}

// NewActivityUseCase construye el caso de uso.
func NewActivityUseCase(repo repository.ActivityLogRepository, publisher ports.ChangePublisher, log *logger.Logger) *ActivityUseCase {
	return &ActivityUseCase{repo: repo, publisher: publisher, log: log}
}

// Record guarda la acción. Sin usuario no se registra nada; un fallo solo se loguea.
func (uc *ActivityUseCase) Record(ctx context.Context, userID, action string, details map[string]any) {
	if userID == "" {
		return
	}
	if details == nil {
		details = map[string]any{}
	}
	raw, err := json.Marshal(details)
	if err != nil {
		uc.log.Warn().Err(err).Str("action", action).Msg("activity: detalles no serializables")
		raw = []byte("{}")
	}
	entry := &entity.ActivityLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Details:   raw,
		Timestamp: time.Now(),
	}
	if err := uc.repo.Create(ctx, entry); err != nil {
		uc.log.Warn().Err(err).Str("action", action).Str("user_id", userID).Msg("activity: no se pudo registrar")
		return
	}
	uc.publisher.Publish(ctx, ports.ChangeEvent{
		Table:    ports.TableActivityLogs,
		Type:     ports.ChangeInsert,
		RecordID: entry.ID,
		At:       entry.Timestamp,
	})
}

// List página del journal: más recientes primero, búsqueda por acción o autor.
func (uc *ActivityUseCase) List(ctx context.Context, q dto.ActivityQuery) (*dto.ActivityListResponse, error) {
	q.Normalize(activityPageSize)
	action := strings.TrimSpace(q.Action)
	if action == "all" {
		action = ""
	}
	records, total, err := uc.repo.List(ctx, repository.ActivityFilter{
		Search: strings.TrimSpace(q.Search),
		Action: action,
		Limit:  q.PageSize,
		Offset: q.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ActivityResponse, 0, len(records))
	for _, r := range records {
		author := entity.User{Firstname: r.Firstname, Lastname: r.Lastname}
		items = append(items, dto.ActivityResponse{
			ID:          r.Log.ID,
			UserID:      r.Log.UserID,
			UserName:    author.FullName(),
			Action:      r.Log.Action,
			ActionLabel: ActionLabel(r.Log.Action),
			Summary:     SummarizeDetails(r.Log.Action, r.Log.Details),
			Details:     r.Log.Details,
			Timestamp:   r.Log.Timestamp,
		})
	}
	return &dto.ActivityListResponse{Items: items, Page: dto.NewPageResponse(q.PageRequest, total)}, nil
}

// ActionLabel nombre legible de la acción.
func ActionLabel(action string) string {
	switch action {
	case entity.ActionDeleteUser:
		return "Suppression Utilisateur"
	case entity.ActionToggleUserStatus:
		return "Changement Statut User"
	case entity.ActionEditProduct:
		return "Modification Produit"
	case entity.ActionRestockProduct:
		return "Réapprovisionnement"
	case entity.ActionArchiveProduct:
		return "Archivage Produit"
	case entity.ActionCreateUser:
		return "Création Utilisateur"
	case entity.ActionDeleteProduct:
		return "Suppression Produit"
	case entity.ActionCheckout:
		return "Vente"
	default:
		return action
	}
}

// SummarizeDetails resumen de una línea de los detalles según la acción.
func SummarizeDetails(action string, raw json.RawMessage) string {
	details := map[string]any{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &details)
	}
	str := func(key string) string {
		if v, ok := details[key].(string); ok {
			return v
		}
		return ""
	}
	num := func(key string) int {
		if v, ok := details[key].(float64); ok {
			return int(v)
		}
		return 0
	}

	switch action {
	case entity.ActionArchiveProduct:
		return fmt.Sprintf("Produit ID: %s...", shortID(str("product_id")))
	case entity.ActionDeleteUser:
		return fmt.Sprintf("Utilisateur cible: %s...", shortID(str("target_user_id")))
	case entity.ActionEditProduct:
		name := str("name")
		if name == "" {
			name = str("product_id")
		}
		diff := num("stock_diff")
		sign := ""
		if diff > 0 {
			sign = "+"
		}
		return fmt.Sprintf("Produit: %s (Diff: %s%d)", name, sign, diff)
	case entity.ActionRestockProduct:
		return fmt.Sprintf("Produit: %s... (+%d)", shortID(str("product_id")), num("added"))
	case entity.ActionToggleUserStatus:
		status := "Bloqué"
		if v, ok := details["new_status"].(bool); ok && v {
			status = "Actif"
		}
		return fmt.Sprintf("User: %s... (Statut: %s)", shortID(str("target_user_id")), status)
	default:
		if len(raw) == 0 {
			return "{}"
		}
		return string(raw)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
