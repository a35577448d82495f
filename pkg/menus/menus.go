// Package menus reads the server's menu tree entries.
package menus

import (
	"context"

	"github.com/vendra/vendra/pkg/gateway"
	"github.com/vendra/vendra/pkg/rpc"
)

// Model is the remote menu model.
const Model = "ir.ui.menu"

// Fields selects the columns the menu listing needs.
var Fields = []string{"name", "icon", "action", "sequence", "parent_id"}

// Menu is one entry of the server's menu tree.
type Menu struct {
	ID       int64
	Name     string
	Icon     string
	Action   string
	Sequence int64
	ParentID int64
	Parent   string
}

// FromRecord maps a raw menu record, tolerating unset fields.
func FromRecord(rec rpc.Record) Menu {
	parentID, parent, _ := rec.Many2One("parent_id")
	return Menu{
		ID:       rec.ID(),
		Name:     rec.String("name"),
		Icon:     rec.String("icon"),
		Action:   rec.String("action"),
		Sequence: rec.Int("sequence"),
		ParentID: parentID,
		Parent:   parent,
	}
}

// Service lists menus through an authenticated gateway.
type Service struct {
	gw *gateway.Gateway
}

func NewService(gw *gateway.Gateway) *Service {
	return &Service{gw: gw}
}

// List returns all menu entries ordered by sequence.
func (s *Service) List(ctx context.Context) ([]Menu, error) {
	records, err := s.gw.SearchRead(ctx, Model, gateway.Domain{}, Fields,
		&gateway.QueryOptions{Order: "sequence"})
	if err != nil {
		return nil, err
	}
	menus := make([]Menu, 0, len(records))
	for _, rec := range records {
		menus = append(menus, FromRecord(rec))
	}
	return menus, nil
}
