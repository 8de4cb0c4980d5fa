package delivery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jpvillanueva/oos-backend/pkg/db/models"
	pkgerrors "github.com/jpvillanueva/oos-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_fk=1"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.DeliveryInfo{}))

	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		require.NoError(t, err)
		sqlDB.Close()
	})
	return gdb
}

func newTestService(t *testing.T) (Service, Repository) {
	t.Helper()
	repo := NewRepository(newTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func validInput() SaveInput {
	return SaveInput{
		FirstName:   "Maria",
		LastName:    "Santos",
		Address:     "123 Mabini St",
		City:        "Quezon City",
		Province:    "Metro Manila",
		PhoneNumber: "09171234567",
	}
}

func TestSavePersistsContactDetails(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	input := validInput()
	landmark := "near the chapel"
	input.Landmark = &landmark

	saved, err := svc.Save(ctx, input)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.Nil(t, saved.OrderID)

	infos, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "Maria", infos[0].FirstName)
	require.NotNil(t, infos[0].Landmark)
	assert.Equal(t, "near the chapel", *infos[0].Landmark)
}

func TestSaveRejectsMissingFields(t *testing.T) {
	svc, _ := newTestService(t)

	input := validInput()
	input.City = "  "
	input.PhoneNumber = ""

	_, err := svc.Save(context.Background(), input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"city", "phone_number"}, details["missing"])
}

func TestGetByOrderID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	orderID := int64(42)
	input := validInput()
	input.OrderID = &orderID
	_, err := svc.Save(ctx, input)
	require.NoError(t, err)

	info, err := svc.GetByOrderID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Santos", info.LastName)

	_, err = svc.GetByOrderID(ctx, 999)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	_, err = svc.GetByOrderID(ctx, 0)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
