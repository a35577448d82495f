package products

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/vendra/vendra/pkg/errors"
	"github.com/vendra/vendra/pkg/gateway"
	"github.com/vendra/vendra/pkg/logger"
)

// Changes describes a product edit. Nil fields are left untouched.
type Changes struct {
	Name        *string
	Price       *float64
	Code        *string
	Description *string
	// Image is the base64-encoded image payload; blank clears the image.
	Image *string
}

// UpdateResult reports the outcome of an update. The primary write and the
// secondary name propagation have separate outcomes: a failed propagation is
// logged and recorded here but never fails the update.
type UpdateResult struct {
	// Updated is the remote write's boolean verdict; false means the remote
	// side rejected or ignored the update.
	Updated bool

	// NameChanged reports whether the edit included a new name, which
	// triggers propagation.
	NameChanged bool

	// Propagated reports whether the name reached the variant records.
	Propagated bool

	// PropagationErr is the propagation failure, if any.
	PropagationErr error
}

// validate checks the edit before any network call and assembles the remote
// values map. Blank optional strings collapse to the remote unset sentinel
// (false) rather than an empty string.
func (c *Changes) validate() (map[string]any, error) {
	values := map[string]any{}

	if c.Name != nil {
		name := strings.TrimSpace(*c.Name)
		if name == "" {
			return nil, errors.NewInvalidArgumentError("product name must not be blank", nil)
		}
		values["name"] = name
	}
	if c.Price != nil {
		price := *c.Price
		if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
			return nil, errors.NewInvalidArgumentError(
				fmt.Sprintf("product price must be a finite number >= 0, got %v", price), nil)
		}
		values["list_price"] = price
	}
	if c.Code != nil {
		values["default_code"] = unsetIfBlank(*c.Code)
	}
	if c.Description != nil {
		values["description_sale"] = unsetIfBlank(*c.Description)
	}
	if c.Image != nil {
		values["image_1920"] = unsetIfBlank(*c.Image)
	}

	if len(values) == 0 {
		return nil, errors.NewInvalidArgumentError("no changes given", nil)
	}
	return values, nil
}

// unsetIfBlank collapses a blank string to the remote unset sentinel.
func unsetIfBlank(s string) any {
	if strings.TrimSpace(s) == "" {
		return false
	}
	return s
}

// Update validates and applies a product edit. When the edit changes the
// name, the new name is re-propagated best-effort to the product's variant
// records with a locale-neutral context, because the remote system derives
// display names per locale and a plain write does not always cascade.
func (s *Service) Update(ctx context.Context, id int64, changes Changes) (*UpdateResult, error) {
	if id <= 0 {
		return nil, errors.NewInvalidArgumentError(fmt.Sprintf("invalid product id %d", id), nil)
	}
	values, err := changes.validate()
	if err != nil {
		return nil, err
	}

	ok, err := s.gw.Write(ctx, Model, []int64{id}, values, nil)
	if err != nil {
		return nil, err
	}

	result := &UpdateResult{Updated: ok}
	name, nameChanged := values["name"].(string)
	result.NameChanged = nameChanged

	if ok && nameChanged {
		if err := s.propagateName(ctx, id, name); err != nil {
			logger.Warnw("variant name propagation failed", "product", id, "error", err.Error())
			result.PropagationErr = err
		} else {
			result.Propagated = true
		}
	}
	return result, nil
}

// propagateName pushes the new name onto the base record and all of its
// variants with a locale-neutral write context.
func (s *Service) propagateName(ctx context.Context, id int64, name string) error {
	neutral := map[string]any{"lang": false}
	values := map[string]any{"name": name}

	if _, err := s.gw.Write(ctx, Model, []int64{id}, values, neutral); err != nil {
		return err
	}

	variants, err := s.gw.SearchRead(ctx, VariantModel,
		gateway.Domain{}.Add(gateway.Condition("product_tmpl_id", "=", id)),
		[]string{"id"}, nil)
	if err != nil {
		return err
	}
	if len(variants) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(variants))
	for _, rec := range variants {
		if vid := rec.ID(); vid > 0 {
			ids = append(ids, vid)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	_, err = s.gw.Write(ctx, VariantModel, ids, values, neutral)
	return err
}

// Delete removes the given products. Ids are deduplicated and must all be
// positive; an empty list after normalization fails before any call.
func (s *Service) Delete(ctx context.Context, ids []int64) (bool, error) {
	normalized := normalizeIDs(ids)
	if len(normalized) == 0 {
		return false, errors.NewInvalidArgumentError("no valid product ids to delete", nil)
	}
	return s.gw.Unlink(ctx, Model, normalized)
}

// normalizeIDs drops non-positive ids and duplicates, preserving first
// occurrence order.
func normalizeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	var out []int64
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
