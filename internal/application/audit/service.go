package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Comercio-api/internal/application/authz"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
	"github.com/jhoicas/Comercio-api/pkg/logger"
)

var _ authz.DenialRecorder = (*Service)(nil)

// Entry datos de una acción a auditar; Outcome vacío se interpreta como success.
type Entry struct {
	Action     string
	EntityType string
	EntityID   string
	Detail     string
	Outcome    string
}

// Service registro de auditoría de solo inserción.
// Un fallo al escribir se reporta en el log y nunca se propaga al caso de uso.
type Service struct {
	repo repository.ActivityLogRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewService construye el servicio.
func NewService(repo repository.ActivityLogRepository, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, log: log.Component("audit"), now: time.Now}
}

// Record añade una entrada. Usa un contexto desacoplado de la cancelación del request.
func (s *Service) Record(ctx context.Context, actor *authz.Identity, e Entry) {
	if s == nil || s.repo == nil {
		return
	}
	if e.Outcome == "" {
		e.Outcome = entity.OutcomeSuccess
	}
	entry := &entity.ActivityLog{
		ID:         uuid.New().String(),
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Detail:     e.Detail,
		Outcome:    e.Outcome,
		CreatedAt:  s.now().UTC(),
	}
	if actor != nil {
		entry.ActorID = actor.UserID
		entry.ActorUsername = actor.Username
	}
	if err := s.repo.Append(context.WithoutCancel(ctx), entry); err != nil {
		s.log.Error().Err(err).
			Str("action", e.Action).
			Str("entity_type", e.EntityType).
			Str("entity_id", e.EntityID).
			Msg("no se pudo registrar la auditoría")
	}
}

// RecordResult registra success o failure según err. En failure el detalle lleva el tipo de error.
func (s *Service) RecordResult(ctx context.Context, actor *authz.Identity, e Entry, err error) {
	if err != nil {
		e.Outcome = entity.OutcomeFailure
		if e.Detail != "" {
			e.Detail = fmt.Sprintf("%s: %s (%s)", domain.Kind(err), err.Error(), e.Detail)
		} else {
			e.Detail = fmt.Sprintf("%s: %s", domain.Kind(err), err.Error())
		}
	}
	s.Record(ctx, actor, e)
}

// RecordDenied registra una denegación del gate de autorización.
func (s *Service) RecordDenied(ctx context.Context, id *authz.Identity, op authz.Operation) {
	s.Record(ctx, id, Entry{
		Action:     entity.ActionDenied,
		EntityType: entity.EntityRoute,
		EntityID:   string(op),
		Outcome:    entity.OutcomeDenied,
	})
}

// List consulta el registro en orden descendente de fecha.
func (s *Service) List(ctx context.Context, in dto.ActivityFilterRequest) (*dto.ActivityLogListResponse, error) {
	in.Normalize()
	filter := repository.ActivityLogFilter{
		ActorID:    in.ActorID,
		Action:     in.Action,
		EntityType: in.EntityType,
		Limit:      in.Limit,
		Offset:     in.Offset(),
	}
	var err error
	if filter.From, err = parseTime(in.From); err != nil {
		return nil, err
	}
	if filter.To, err = parseTime(in.To); err != nil {
		return nil, err
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: 'to' anterior a 'from'", domain.ErrInvalidInput)
	}
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ActivityLogResponse, 0, len(list))
	for _, e := range list {
		items = append(items, dto.ActivityLogResponse{
			ID:            e.ID,
			ActorID:       e.ActorID,
			ActorUsername: e.ActorUsername,
			Action:        e.Action,
			EntityType:    e.EntityType,
			EntityID:      e.EntityID,
			Detail:        e.Detail,
			Outcome:       e.Outcome,
			CreatedAt:     e.CreatedAt,
		})
	}
	return &dto.ActivityLogListResponse{Items: items, Page: dto.NewPageResponse(in.PageRequest, total)}, nil
}

func parseTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q no es RFC3339", domain.ErrInvalidInput, s)
	}
	return &t, nil
}
