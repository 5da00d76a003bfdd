package service

import (
	"context"
	"fmt"

	"github.com/minishare/backend/internal/model"
	"github.com/minishare/backend/internal/repository"
)

// imageResolver owns the rule that a product image belongs to exactly one of
// a product or a product request. All ownership changes go through it.
type imageResolver struct {
	images repository.ProductImageRepository
}

// Reparent moves every staged image of a resolved request onto a product.
// Each image must still be owned by the request; anything else means the
// caller passed rows it should not have.
func (r imageResolver) Reparent(ctx context.Context, images []model.ProductImage, fromRequestID, toProductID uint64) error {
	ids := make([]uint64, 0, len(images))
	for _, img := range images {
		if img.ProductRequestID == nil || *img.ProductRequestID != fromRequestID || img.ProductID != nil {
			return fmt.Errorf("%w: image %d not staged under request %d", ErrInvariant, img.ID, fromRequestID)
		}
		ids = append(ids, img.ID)
	}
	return r.images.ReparentToProduct(ctx, ids, toProductID)
}

// CopyToRequest stages copies of a live product's images under an edit
// request. The originals keep serving the product until the edit is approved.
func (r imageResolver) CopyToRequest(ctx context.Context, source []model.ProductImage, requestID uint64) error {
	copies := make([]model.ProductImage, 0, len(source))
	for _, img := range source {
		copies = append(copies, model.ProductImage{
			ProductRequestID: &requestID,
			ImageURL:         img.ImageURL,
			IsMain:           img.IsMain,
			SortOrder:        img.SortOrder,
		})
	}
	return r.images.CreateBatch(ctx, copies)
}
