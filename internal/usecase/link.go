package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vadimbarashkov/link-shortener/internal/entity"
	"github.com/vadimbarashkov/link-shortener/internal/metrics"
)

type linkRepository interface {
	Save(ctx context.Context, name, url string) (*entity.ShortLink, error)
	List(ctx context.Context, params entity.ListParams) (*entity.LinkPage, error)
	RetrieveAndUpdateStats(ctx context.Context, name string) (*entity.ShortLink, error)
	Update(ctx context.Context, id uuid.UUID, name, url string) (*entity.ShortLink, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type LinkUseCase struct {
	linkRepo linkRepository
}

func NewLinkUseCase(linkRepo linkRepository) *LinkUseCase {
	return &LinkUseCase{linkRepo: linkRepo}
}

// ListLinks returns one page of links, newest first. Out of range paging
// values are clamped to the first page and to [1, entity.MaxPageSize].
func (uc *LinkUseCase) ListLinks(ctx context.Context, params entity.ListParams) (*entity.LinkPage, error) {
	const op = "usecase.LinkUseCase.ListLinks"

	if params.Page < 1 {
		params.Page = 1
	}

	switch {
	case params.PageSize < 1:
		params.PageSize = entity.DefaultPageSize
	case params.PageSize > entity.MaxPageSize:
		params.PageSize = entity.MaxPageSize
	}

	page, err := uc.linkRepo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list links: %w", op, err)
	}

	return page, nil
}

func (uc *LinkUseCase) CreateLink(ctx context.Context, name, url string) (*entity.ShortLink, error) {
	const op = "usecase.LinkUseCase.CreateLink"

	link, err := uc.linkRepo.Save(ctx, name, url)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create link: %w", op, err)
	}

	metrics.RecordLinkCreated()

	return link, nil
}

func (uc *LinkUseCase) UpdateLink(ctx context.Context, id uuid.UUID, name, url string) (*entity.ShortLink, error) {
	const op = "usecase.LinkUseCase.UpdateLink"

	link, err := uc.linkRepo.Update(ctx, id, name, url)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update link: %w", op, err)
	}

	return link, nil
}

func (uc *LinkUseCase) DeleteLink(ctx context.Context, id uuid.UUID) error {
	const op = "usecase.LinkUseCase.DeleteLink"

	if err := uc.linkRepo.Remove(ctx, id); err != nil {
		return fmt.Errorf("%s: failed to delete link: %w", op, err)
	}

	return nil
}

// ResolveLink returns the link registered under name with its access count
// already incremented by one.
func (uc *LinkUseCase) ResolveLink(ctx context.Context, name string) (*entity.ShortLink, error) {
	const op = "usecase.LinkUseCase.ResolveLink"

	link, err := uc.linkRepo.RetrieveAndUpdateStats(ctx, name)
	if err != nil {
		if errors.Is(err, entity.ErrLinkNotFound) {
			metrics.RecordResolution(metrics.OutcomeNotFound)
		} else {
			metrics.RecordResolution(metrics.OutcomeError)
		}

		return nil, fmt.Errorf("%s: failed to resolve link: %w", op, err)
	}

	metrics.RecordResolution(metrics.OutcomeSuccess)

	return link, nil
}
