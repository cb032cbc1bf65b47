package catalog

import "context"

// Store is the slice of Repo the invariant checks need.
type Store interface {
	GetMenu(ctx context.Context, id int64) (*MenuList, error)
	GetItemsByIDs(ctx context.Context, ids []int64) ([]Item, error)
	ListActiveMenusUsingItem(ctx context.Context, itemID int64) ([]MenuList, error)
	SetItemActive(ctx context.Context, id int64, active bool) error
	SetMenuItems(ctx context.Context, menuID int64, itemIDs []int64) error
	SetMenuActive(ctx context.Context, id int64, active bool) error
	CreateTimeSlot(ctx context.Context, start, end string) (*TimeSlot, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service { return &Service{store: store} }

// DeactivateItem refuses while any active menu still references the item.
func (s *Service) DeactivateItem(ctx context.Context, itemID int64) error {
	menus, err := s.store.ListActiveMenusUsingItem(ctx, itemID)
	if err != nil {
		return err
	}
	if err := CheckItemDeactivation(menus); err != nil {
		return err
	}
	return s.store.SetItemActive(ctx, itemID, false)
}

// UpdateMenuItems replaces a menu's membership, re-validating composition
// against a fresh snapshot of the referenced items.
func (s *Service) UpdateMenuItems(ctx context.Context, menuID int64, itemIDs []int64) error {
	menu, err := s.store.GetMenu(ctx, menuID)
	if err != nil {
		return err
	}
	if menu == nil {
		return ErrNotFound
	}
	items, err := s.store.GetItemsByIDs(ctx, itemIDs)
	if err != nil {
		return err
	}
	if err := CheckMenuComposition(menu.Active, items); err != nil {
		return err
	}
	return s.store.SetMenuItems(ctx, menuID, itemIDs)
}

// ActivateMenu re-applies composition checks before flipping the flag.
func (s *Service) ActivateMenu(ctx context.Context, menuID int64) error {
	menu, err := s.store.GetMenu(ctx, menuID)
	if err != nil {
		return err
	}
	if menu == nil {
		return ErrNotFound
	}
	items, err := s.store.GetItemsByIDs(ctx, menu.ItemIDs)
	if err != nil {
		return err
	}
	if err := CheckMenuComposition(true, items); err != nil {
		return err
	}
	return s.store.SetMenuActive(ctx, menuID, true)
}

func (s *Service) CreateTimeSlot(ctx context.Context, start, end string) (*TimeSlot, error) {
	if err := CheckTimeSlot(start, end); err != nil {
		return nil, err
	}
	return s.store.CreateTimeSlot(ctx, start, end)
}
