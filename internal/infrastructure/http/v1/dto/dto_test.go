package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"makerbooks/internal/core/apperror"
	"makerbooks/internal/core/id"
	"makerbooks/internal/core/types"
	"makerbooks/internal/domain/documents/batch"
)

func requireValidation(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, field, appErr.Details["field"])
}

func TestCreateBatchRequest_MalformedIDsRejected(t *testing.T) {
	req := CreateBatchRequest{
		SupplierID: "not-a-uuid",
		Date:       time.Now(),
		Items: []BatchItemRequest{
			{ProductID: id.New().String(), Quantity: 1},
		},
	}
	_, err := req.ToEntity()
	requireValidation(t, err, "supplierId")

	req.SupplierID = id.New().String()
	req.Items[0].ProductID = "nope"
	_, err = req.ToEntity()
	requireValidation(t, err, "items.productId")
}

func TestUpdateBatchRequest_MalformedItemIDRejected(t *testing.T) {
	doc := batch.New(id.New(), time.Now())
	bad := "not-a-uuid"
	req := UpdateBatchRequest{SupplierID: &bad}
	requireValidation(t, req.ApplyTo(doc), "supplierId")
}

func TestCreateProductionRequest_MalformedIDsRejected(t *testing.T) {
	req := CreateProductionRequest{
		ProductID: id.New().String(),
		MakerID:   "garbage",
		Materials: []ProductionMaterialRequest{
			{ProductID: id.New().String(), Quantity: 2},
		},
	}
	_, err := req.ToEntity()
	requireValidation(t, err, "makerId")
}

// A bad customer id must fail, not silently become a walk-in sale.
func TestCreateSaleRequest_MalformedCustomerIDRejected(t *testing.T) {
	req := CreateSaleRequest{
		CustomerID:    "bogus",
		PaymentMethod: "cash",
		Items: []SaleItemRequest{
			{ProductID: id.New().String(), Quantity: 1, UnitPrice: types.MustMoney("100")},
		},
	}
	_, err := req.ToEntity()
	requireValidation(t, err, "customerId")
}

func TestUpdateProductRequest_MalformedCategoryIDRejected(t *testing.T) {
	req := CreateProductRequest{
		Name:       "tote",
		Kind:       "finished_good",
		CategoryID: id.New().String(),
	}
	p, err := req.ToEntity()
	require.NoError(t, err)

	bad := "not-a-uuid"
	upd := UpdateProductRequest{CategoryID: &bad}
	requireValidation(t, upd.ApplyTo(p), "categoryId")
}
