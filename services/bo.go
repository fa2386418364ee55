package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"registrobo/dto"
	"registrobo/model"
)

const (
	MsgCreateBOFailed = "Erro ao registrar BO"
	MsgListBOFailed   = "Erro ao listar BOs"
	MsgGetBOFailed    = "Erro ao buscar BO"
	MsgBONotFound     = "BO não encontrado"
	MsgInvalidDate    = "Data da ocorrência inválida"
)

// BOService agrupa as operações de negócio sobre boletins de ocorrência.
type BOService interface {
	Create(ctx context.Context, policialID uint, req dto.CreateBORequest) (*model.BO, error)
	List(ctx context.Context) ([]model.BO, error)
	Get(ctx context.Context, id uint) (*model.BO, error)
}

type boService struct {
	db *gorm.DB
}

func NewBOService(db *gorm.DB) BOService {
	return &boService{db: db}
}

// layouts aceitos para a data da ocorrência; sem fuso são interpretados em UTC
var occurrenceLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseOccurrenceDate parses the client supplied occurrence date.
func ParseOccurrenceDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, model.ValidationError(MsgInvalidDate, errors.New("empty date"))
	}
	var lastErr error
	for _, layout := range occurrenceLayouts {
		t, err := time.ParseInLocation(layout, raw, time.UTC)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, model.ValidationError(MsgInvalidDate, lastErr)
}

func (s *boService) Create(ctx context.Context, policialID uint, req dto.CreateBORequest) (*model.BO, error) {
	data, err := ParseOccurrenceDate(req.Data)
	if err != nil {
		return nil, err
	}

	bo := model.BO{
		Comunicante: req.Comunicante,
		Descricao:   req.Descricao,
		Local:       req.Local,
		Data:        data,
		PolicialID:  policialID,
	}
	if err := s.db.WithContext(ctx).Create(&bo).Error; err != nil {
		return nil, model.PersistenceError(MsgCreateBOFailed, err)
	}
	return &bo, nil
}

func selectPolicialNome(tx *gorm.DB) *gorm.DB {
	return tx.Select("id", "nome")
}

func (s *boService) List(ctx context.Context) ([]model.BO, error) {
	var bos []model.BO
	err := s.db.WithContext(ctx).
		Preload("Policial", selectPolicialNome).
		Order("data DESC").
		Order("id DESC").
		Find(&bos).Error
	if err != nil {
		return nil, model.PersistenceError(MsgListBOFailed, err)
	}
	if bos == nil {
		bos = []model.BO{}
	}
	return bos, nil
}

func (s *boService) Get(ctx context.Context, id uint) (*model.BO, error) {
	var bo model.BO
	err := s.db.WithContext(ctx).
		Preload("Policial", selectPolicialNome).
		First(&bo, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFoundError(MsgBONotFound)
		}
		return nil, model.PersistenceError(MsgGetBOFailed, err)
	}
	return &bo, nil
}
