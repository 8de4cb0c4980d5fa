package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/jpvillanueva/oos-backend/pkg/db/models"
	pkgerrors "github.com/jpvillanueva/oos-backend/pkg/errors"
)

// SaveInput carries the delivery contact fields submitted at checkout. The
// order id is optional; payment confirmation records contact details before
// any order row exists.
type SaveInput struct {
	OrderID      *int64
	FirstName    string
	MiddleName   *string
	LastName     string
	Address      string
	City         string
	Province     string
	Landmark     *string
	EmailAddress *string
	PhoneNumber  string
	Notes        *string
}

type service struct {
	repo Repository
}

// NewService builds the delivery info service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Save(ctx context.Context, input SaveInput) (*models.DeliveryInfo, error) {
	if err := validateSaveInput(input); err != nil {
		return nil, err
	}

	info := &models.DeliveryInfo{
		OrderID:      input.OrderID,
		FirstName:    strings.TrimSpace(input.FirstName),
		MiddleName:   input.MiddleName,
		LastName:     strings.TrimSpace(input.LastName),
		Address:      strings.TrimSpace(input.Address),
		City:         strings.TrimSpace(input.City),
		Province:     strings.TrimSpace(input.Province),
		Landmark:     input.Landmark,
		EmailAddress: input.EmailAddress,
		PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
		Notes:        input.Notes,
	}
	if err := s.repo.Create(ctx, info); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save delivery info")
	}
	return info, nil
}

func (s *service) GetByOrderID(ctx context.Context, orderID int64) (*models.DeliveryInfo, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id must be positive")
	}

	info, err := s.repo.FindByOrderID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound,
			fmt.Sprintf("no delivery info found for order %d", orderID))
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "fetch delivery info")
	}
	return info, nil
}

func validateSaveInput(input SaveInput) error {
	required := []struct {
		field string
		value string
	}{
		{"first_name", input.FirstName},
		{"last_name", input.LastName},
		{"address", input.Address},
		{"city", input.City},
		{"province", input.Province},
		{"phone_number", input.PhoneNumber},
	}
	missing := []string{}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.field)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required delivery fields").
			WithDetails(map[string]any{"missing": missing})
	}
	return nil
}
