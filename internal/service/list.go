package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/templui/shelf/internal/model"
	"github.com/templui/shelf/internal/repository"
	"github.com/templui/shelf/internal/validation"
)

type CreateListInput struct {
	Name        string         `json:"name" validate:"required,max=100"`
	Description string         `json:"description" validate:"max=1000"`
	ListType    model.ListType `json:"list_type" validate:"omitempty,oneof=watch read custom"`
}

type ListService struct {
	store *repository.Store
}

func NewListService(store *repository.Store) *ListService {
	return &ListService{store: store}
}

// Lists returns the user's lists, default slots first.
func (s *ListService) Lists(ctx context.Context, userID string) ([]*model.List, error) {
	return s.store.Read().Lists.ByUser(ctx, userID)
}

// Create adds a custom list. Default slot lists only come from registration.
func (s *ListService) Create(ctx context.Context, userID string, in CreateListInput) (*model.List, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.ListType == "" {
		in.ListType = model.ListTypeCustom
	}

	err := validation.Struct(in)
	if err != nil {
		return nil, validationError("", err)
	}

	name, err := validation.CleanText(in.Name, validation.MaxListName)
	if err != nil {
		return nil, invalid("name", err)
	}

	list := &model.List{
		UserID:      userID,
		Name:        name,
		Description: in.Description,
		ListType:    in.ListType,
		Slot:        model.ListSlotCustom,
	}
	err = s.store.Read().Lists.Create(ctx, list)
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	slog.Info("list created", "user_id", userID, "list_id", list.ID)
	return list, nil
}

// View returns a list with every item it shelves, newest first.
func (s *ListService) View(ctx context.Context, listID string) (*model.ListView, error) {
	repos := s.store.Read()
	list, err := repos.Lists.ByID(ctx, listID)
	if errors.Is(err, repository.ErrListNotFound) {
		return nil, notFound(err)
	}
	if err != nil {
		return nil, err
	}

	items, err := repos.Lists.Items(ctx, list.ID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load list items: %w", err)
	}
	return &model.ListView{List: list, Items: items}, nil
}
