package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"registrobo/database"
	"registrobo/dto"
	"registrobo/metrics"
	"registrobo/model"
)

func TestParseOccurrenceDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-05", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-01-05T14:30", time.Date(2024, 1, 5, 14, 30, 0, 0, time.UTC)},
		{"2024-01-05T14:30:15", time.Date(2024, 1, 5, 14, 30, 15, 0, time.UTC)},
		{"2024-01-05 14:30:15", time.Date(2024, 1, 5, 14, 30, 15, 0, time.UTC)},
		{"2024-01-05T14:30:15-03:00", time.Date(2024, 1, 5, 17, 30, 15, 0, time.UTC)},
		{" 2024-01-05T14:30:15.5Z ", time.Date(2024, 1, 5, 14, 30, 15, 500000000, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOccurrenceDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseOccurrenceDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "ontem", "05/01/2024", "2024-13-45"} {
		_, err := ParseOccurrenceDate(in)
		require.Error(t, err, in)
		assert.Equal(t, model.KindValidation, model.KindOf(err), in)
	}
}

func TestCreateStampsOfficer(t *testing.T) {
	db := setupTestDB(t)
	p := seedPolicial(t, db, "Ana Souza", "1001")
	svc := NewBOService(db)

	bo, err := svc.Create(context.Background(), p.ID, dto.CreateBORequest{
		Comunicante: "João",
		Descricao:   "Furto de bicicleta",
		Local:       "Praça da Sé",
		Data:        "2024-01-02T10:00",
	})
	require.NoError(t, err)
	assert.NotZero(t, bo.ID)
	assert.Equal(t, p.ID, bo.PolicialID)

	var saved model.BO
	require.NoError(t, db.First(&saved, bo.ID).Error)
	assert.Equal(t, p.ID, saved.PolicialID)
	assert.Equal(t, "Furto de bicicleta", saved.Descricao)
	assert.True(t, saved.Data.Equal(time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)))
}

func TestCreateRejectsInvalidDate(t *testing.T) {
	db := setupTestDB(t)
	p := seedPolicial(t, db, "Ana Souza", "1001")
	svc := NewBOService(db)

	_, err := svc.Create(context.Background(), p.ID, dto.CreateBORequest{Data: "not a date"})
	require.Error(t, err)
	assert.Equal(t, model.KindValidation, model.KindOf(err))

	var count int64
	require.NoError(t, db.Model(&model.BO{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListOrdersByDateDesc(t *testing.T) {
	db := setupTestDB(t)
	p := seedPolicial(t, db, "Ana Souza", "1001")
	svc := NewBOService(db)
	ctx := context.Background()

	for _, data := range []string{"2024-01-02", "2024-01-05", "2023-12-31"} {
		_, err := svc.Create(ctx, p.ID, dto.CreateBORequest{Comunicante: data, Data: data})
		require.NoError(t, err)
	}

	bos, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, bos, 3)
	assert.Equal(t, "2024-01-05", bos[0].Comunicante)
	assert.Equal(t, "2024-01-02", bos[1].Comunicante)
	assert.Equal(t, "2023-12-31", bos[2].Comunicante)

	require.NotNil(t, bos[0].Policial)
	assert.Equal(t, "Ana Souza", bos[0].Policial.Nome)
	assert.Empty(t, bos[0].Policial.HashedPassword)
}

func TestListEmptyIsNotNil(t *testing.T) {
	svc := NewBOService(setupTestDB(t))

	bos, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, bos)
	assert.Empty(t, bos)
}

func TestListLengthMatchesCreates(t *testing.T) {
	db := setupTestDB(t)
	p := seedPolicial(t, db, "Ana Souza", "1001")
	svc := NewBOService(db)
	ctx := context.Background()

	succeeded := 0
	for i := 0; i < 6; i++ {
		data := fmt.Sprintf("2024-02-%02d", i+1)
		if i%3 == 0 {
			data = "invalid"
		}
		if _, err := svc.Create(ctx, p.ID, dto.CreateBORequest{Data: data}); err == nil {
			succeeded++
		}
	}

	bos, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, bos, succeeded)
	assert.Equal(t, 4, succeeded)
}

func TestConcurrentCreatesGetDistinctIDs(t *testing.T) {
	db := setupTestDB(t)
	p := seedPolicial(t, db, "Ana Souza", "1001")
	svc := NewBOService(db)

	const n = 20
	ids := make(chan uint, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bo, err := svc.Create(context.Background(), p.ID, dto.CreateBORequest{
				Comunicante: fmt.Sprintf("c%d", i),
				Data:        "2024-03-01",
			})
			if assert.NoError(t, err) {
				ids <- bo.ID
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := map[uint]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)
	p := seedPolicial(t, db, "Ana Souza", "1001")
	svc := NewBOService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, p.ID, dto.CreateBORequest{Local: "Centro", Data: "2024-01-02"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Centro", got.Local)
	require.NotNil(t, got.Policial)
	assert.Equal(t, "Ana Souza", got.Policial.Nome)

	_, err = svc.Get(ctx, created.ID+100)
	assert.Equal(t, model.KindNotFound, model.KindOf(err))
}

func TestPersistenceFailuresAreTagged(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBOService(db)
	require.NoError(t, database.Close(db))

	_, err := svc.Create(context.Background(), 1, dto.CreateBORequest{Data: "2024-01-02"})
	require.Error(t, err)
	assert.Equal(t, model.KindPersistence, model.KindOf(err))
	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, MsgCreateBOFailed, appErr.Message)

	_, err = svc.List(context.Background())
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, MsgListBOFailed, appErr.Message)
}

func TestMetricsDecoratorDelegates(t *testing.T) {
	db := setupTestDB(t)
	p := seedPolicial(t, db, "Ana Souza", "1001")
	svc := NewBOServiceWithMetrics(NewBOService(db), metrics.New("test", "api"))
	ctx := context.Background()

	bo, err := svc.Create(ctx, p.ID, dto.CreateBORequest{Data: "2024-01-02"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, bo.ID)
	require.NoError(t, err)
	assert.Equal(t, bo.ID, got.ID)

	bos, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, bos, 1)
}
