package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"registrobo/database"
	"registrobo/model"
)

// setupTestDB abre um sqlite em memória já migrado, exclusivo do teste.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory(uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func seedPolicial(t *testing.T, db *gorm.DB, nome, matricula string) *model.Policial {
	t.Helper()
	p := &model.Policial{
		Nome:           nome,
		Matricula:      matricula,
		HashedPassword: "-",
		Role:           model.RolePolicial,
		Ativo:          true,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(p).Error)
	return p
}
