package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/raffa/internal/errors"
	"github.com/Alturino/raffa/internal/log"
	"github.com/Alturino/raffa/internal/otel"
	"github.com/Alturino/raffa/internal/repository"
	"github.com/Alturino/raffa/menu/pkg/request"
	"github.com/Alturino/raffa/menu/pkg/response"
)

func (svc MenuService) ListCategories(c context.Context, includeInactive bool) ([]response.Category, error) {
	c, span := otel.Tracer.Start(c, "MenuService ListCategories")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MenuService ListCategories").
		Str(log.KeyProcess, "finding categories in database").
		Logger()

	logger.Trace().Msg("finding categories in database")
	categories, err := svc.queries.ListCategories(c, includeInactive)
	if err != nil {
		err = fmt.Errorf("failed finding categories with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("found categories in database")

	result := make([]response.Category, 0, len(categories))
	for _, category := range categories {
		result = append(result, category.Response())
	}
	return result, nil
}

// InsertCategory appends the category after the current last one.
func (svc MenuService) InsertCategory(c context.Context, param request.Category) (response.Category, error) {
	c, span := otel.Tracer.Start(c, "MenuService InsertCategory")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MenuService InsertCategory").
		Str(log.KeyCategoryID, param.ID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding next category sort order").Logger()
	logger.Trace().Msg("finding next category sort order")
	sortOrder, err := svc.queries.NextCategorySortOrder(c)
	if err != nil {
		err = fmt.Errorf("failed finding next category sort order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Category{}, err
	}
	logger.Trace().Msg("found next category sort order")

	logger = logger.With().Str(log.KeyProcess, "inserting category to database").Logger()
	logger.Trace().Msg("inserting category to database")
	category, err := svc.queries.InsertCategory(c, repository.InsertCategoryParams{
		ID:        param.ID,
		Name:      param.Name,
		Icon:      param.Icon,
		SortOrder: sortOrder,
		Active:    param.Active,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting category with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Category{}, err
	}
	logger.Info().Msg("inserted category to database")

	return category.Response(), nil
}

func (svc MenuService) UpdateCategory(c context.Context, id string, param request.Category) (response.Category, error) {
	c, span := otel.Tracer.Start(c, "MenuService UpdateCategory")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MenuService UpdateCategory").
		Str(log.KeyCategoryID, id).
		Str(log.KeyProcess, "updating category in database").
		Logger()

	logger.Trace().Msg("updating category in database")
	category, err := svc.queries.UpdateCategory(c, repository.UpdateCategoryParams{
		ID:     id,
		Name:   param.Name,
		Icon:   param.Icon,
		Active: param.Active,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrCategoryNotFound
		} else {
			err = fmt.Errorf("failed updating category with error=%w", err)
		}
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Category{}, err
	}
	logger.Info().Msg("updated category in database")

	c = logger.WithContext(c)
	svc.invalidate(c)

	return category.Response(), nil
}

// DeleteCategory refuses to remove a category that still owns menu items.
func (svc MenuService) DeleteCategory(c context.Context, id string) error {
	c, span := otel.Tracer.Start(c, "MenuService DeleteCategory")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MenuService DeleteCategory").
		Str(log.KeyCategoryID, id).
		Str(log.KeyProcess, "deleting category from database").
		Logger()

	logger.Trace().Msg("deleting category from database")
	affected, err := svc.queries.DeleteCategory(c, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			err = inErrors.ErrCategoryInUse
		} else {
			err = fmt.Errorf("failed deleting category with error=%w", err)
		}
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if affected == 0 {
		err = inErrors.ErrCategoryNotFound
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted category from database")
	return nil
}

func (svc MenuService) ReorderCategories(c context.Context, ids []string) error {
	c, span := otel.Tracer.Start(c, "MenuService ReorderCategories")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MenuService ReorderCategories").
		Str(log.KeyProcess, "updating category sort order").
		Logger()

	logger.Trace().Msg("updating category sort order")
	c = logger.WithContext(c)
	err := repository.RunInTx(c, svc.pool, svc.queries, func(q *repository.Queries) error {
		for i, id := range ids {
			affected, err := q.UpdateCategorySortOrder(c, id, int32(i+1))
			if err != nil {
				return fmt.Errorf("failed updating sort order of category=%s with error=%w", id, err)
			}
			if affected == 0 {
				return fmt.Errorf("category=%s with error=%w", id, inErrors.ErrCategoryNotFound)
			}
		}
		return nil
	})
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("updated category sort order")

	svc.invalidate(c)
	return nil
}
