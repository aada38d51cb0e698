package products

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Spok95/costbook/internal/validation"
)

var definitionMessages = map[string]string{
	"name":               "Название продукта обязательно",
	"code":               "Код продукта обязателен",
	"sale_department":    "Выберите отдел продаж",
	"production_segment": "Выберите производственный участок",
}

const duplicateCodeMessage = "Такой код продукта уже используется"

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Validate проверяет форму и уникальность кода среди существующих карточек.
func (s *Service) Validate(ctx context.Context, n NewDefinition) (validation.Errors, error) {
	errs := validation.Struct(n, definitionMessages)

	code := strings.TrimSpace(n.Code)
	if code == "" {
		return errs, nil
	}
	existing, err := s.store.ListProductDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range existing {
		if d.Code == code {
			errs.Add("code", duplicateCodeMessage)
			break
		}
	}
	return errs, nil
}

// Create сохраняет новую карточку. Ошибки формы возвращаются как
// validation.Errors, запись при этом не выполняется.
func (s *Service) Create(ctx context.Context, n NewDefinition) (*Definition, error) {
	errs, err := s.Validate(ctx, n)
	if err != nil {
		return nil, err
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	now := s.now()
	d, err := s.store.CreateProductDefinition(ctx, Definition{
		ID:                uuid.NewString(),
		Name:              strings.TrimSpace(n.Name),
		Code:              strings.TrimSpace(n.Code),
		SaleDepartment:    n.SaleDepartment,
		ProductionSegment: n.ProductionSegment,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if errors.Is(err, ErrDuplicateCode) {
		// код успели занять между проверкой и вставкой
		return nil, validation.Errors{"code": duplicateCodeMessage}
	}
	return d, err
}

func (s *Service) List(ctx context.Context) ([]Definition, error) {
	return s.store.ListProductDefinitions(ctx)
}

// Get возвращает nil, nil для неизвестного id.
func (s *Service) Get(ctx context.Context, id string) (*Definition, error) {
	return s.store.GetProductDefinition(ctx, id)
}
