package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"registrobo/dto"
	"registrobo/model"
)

const (
	MsgInvalidCredentials = "Matrícula ou senha inválida"
	MsgPolicialInactive   = "Policial desativado"
	MsgPolicialNotFound   = "Policial não encontrado"
	MsgMatriculaExists    = "Matrícula já cadastrada"
	MsgPolicialFailed     = "Erro ao consultar policial"
	MsgRegisterFailed     = "Erro ao cadastrar policial"
	MsgPasswordTooLong    = "Senha deve ter no máximo 72 bytes"
)

type PolicialService struct {
	db *gorm.DB
}

func NewPolicialService(db *gorm.DB) *PolicialService {
	return &PolicialService{db: db}
}

func (s *PolicialService) GetByID(ctx context.Context, id uint) (*model.Policial, error) {
	var p model.Policial
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFoundError(MsgPolicialNotFound)
		}
		return nil, model.PersistenceError(MsgPolicialFailed, err)
	}
	return &p, nil
}

func (s *PolicialService) getByMatricula(ctx context.Context, matricula string) (*model.Policial, error) {
	var p model.Policial
	if err := s.db.WithContext(ctx).Where("matricula = ?", matricula).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Authenticate checks the badge number and password of an active officer.
func (s *PolicialService) Authenticate(ctx context.Context, matricula, senha string) (*model.Policial, error) {
	p, err := s.getByMatricula(ctx, matricula)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.UnauthorizedError(MsgInvalidCredentials)
		}
		return nil, model.PersistenceError(MsgPolicialFailed, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.HashedPassword), []byte(senha)); err != nil {
		return nil, model.UnauthorizedError(MsgInvalidCredentials)
	}
	if !p.Ativo {
		return nil, model.ForbiddenError(MsgPolicialInactive)
	}
	return p, nil
}

func (s *PolicialService) Register(ctx context.Context, req dto.CreatePolicialRequest) (*model.Policial, error) {
	_, err := s.getByMatricula(ctx, req.Matricula)
	if err == nil {
		return nil, model.ConflictError(MsgMatriculaExists)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.PersistenceError(MsgPolicialFailed, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Senha), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, model.ValidationError(MsgPasswordTooLong, err)
		}
		return nil, model.NewAppError(model.KindInternal, MsgRegisterFailed, err)
	}

	role := req.Role
	if role == "" {
		role = model.RolePolicial
	}
	p := model.Policial{
		Nome:           req.Nome,
		Matricula:      req.Matricula,
		HashedPassword: string(hashedPassword),
		Role:           role,
		Ativo:          true,
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		// outro cadastro com a mesma matrícula venceu a corrida
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, model.ConflictError(MsgMatriculaExists)
		}
		return nil, model.PersistenceError(MsgRegisterFailed, err)
	}
	return &p, nil
}

type seedFile struct {
	Policiais []struct {
		Nome      string `yaml:"nome"`
		Matricula string `yaml:"matricula"`
		Senha     string `yaml:"senha"`
		Role      string `yaml:"role"`
	} `yaml:"policiais"`
}

// SeedFromFile registers the officers listed in a YAML file, skipping badge
// numbers that already exist. It returns how many officers were created.
func (s *PolicialService) SeedFromFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}
	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}

	created := 0
	for _, p := range sf.Policiais {
		if p.Matricula == "" || p.Senha == "" {
			continue
		}
		_, err := s.Register(ctx, dto.CreatePolicialRequest{
			Nome:      p.Nome,
			Matricula: p.Matricula,
			Senha:     p.Senha,
			Role:      p.Role,
		})
		if model.KindOf(err) == model.KindConflict {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", p.Matricula, err)
		}
		created++
	}
	return created, nil
}
