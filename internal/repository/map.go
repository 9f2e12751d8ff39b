package repository

import (
	"context"
	"starcraft-tracker/internal/database"
	"starcraft-tracker/internal/db"
	"starcraft-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type MapRepository struct {
	base
}

func NewMapRepository(manager *database.Manager, logger zerolog.Logger) *MapRepository {
	return &MapRepository{base{manager: manager, logger: logger}}
}

func (r *MapRepository) Create(ctx context.Context, name string) (*domain.Map, error) {
	var created domain.Map
	err := r.read(ctx, "create map", func(q *db.Queries) error {
		id, err := q.CreateMap(ctx, db.CreateMapParams{Name: name, NameKey: domain.FoldKey(name)})
		if err != nil {
			return translate("create map", constraint{entity: "map", field: "name", value: name}, err)
		}
		created = domain.Map{ID: id, Name: name}
		return nil
	})
	if err != nil {
		r.logger.Error().Err(err).Str("name", name).Msg("failed to create map")
		return nil, err
	}

	r.logger.Info().Int64("map_id", created.ID).Str("name", name).Msg("map created")
	return &created, nil
}

func (r *MapRepository) Update(ctx context.Context, m domain.Map) error {
	return r.read(ctx, "update map", func(q *db.Queries) error {
		n, err := q.UpdateMap(ctx, db.UpdateMapParams{Name: m.Name, NameKey: domain.FoldKey(m.Name), ID: m.ID})
		if err != nil {
			return translate("update map", constraint{entity: "map", field: "name", value: m.Name, id: m.ID}, err)
		}
		if n == 0 {
			return notFound("map", m.ID)
		}
		r.logger.Info().Int64("map_id", m.ID).Msg("map updated")
		return nil
	})
}

func (r *MapRepository) Delete(ctx context.Context, id int64) error {
	return r.read(ctx, "delete map", func(q *db.Queries) error {
		n, err := q.DeleteMap(ctx, id)
		if err != nil {
			return translate("delete map", constraint{entity: "map", id: id}, err)
		}
		if n == 0 {
			return notFound("map", id)
		}
		r.logger.Info().Int64("map_id", id).Msg("map deleted")
		return nil
	})
}

func (r *MapRepository) Get(ctx context.Context, id int64) (*domain.Map, error) {
	var m domain.Map
	err := r.read(ctx, "get map", func(q *db.Queries) error {
		row, err := q.GetMap(ctx, id)
		if err != nil {
			return translate("get map", constraint{entity: "map", id: id}, err)
		}
		m = mapFromDB(row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MapRepository) List(ctx context.Context) ([]domain.Map, error) {
	var maps []domain.Map
	err := r.read(ctx, "list maps", func(q *db.Queries) error {
		rows, err := q.ListMaps(ctx)
		if err != nil {
			return translate("list maps", constraint{entity: "map"}, err)
		}
		maps = make([]domain.Map, len(rows))
		for i, row := range rows {
			maps[i] = mapFromDB(row)
		}
		return nil
	})
	return maps, err
}

func (r *MapRepository) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	var n int64
	err := r.read(ctx, "check map name", func(q *db.Queries) error {
		var err error
		n, err = q.CountMapsWithName(ctx, db.CountMapsWithNameParams{NameKey: domain.FoldKey(name), ID: excludeID})
		return translate("check map name", constraint{entity: "map"}, err)
	})
	return n > 0, err
}

func (r *MapRepository) GamesCount(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := r.read(ctx, "count map games", func(q *db.Queries) error {
		var err error
		n, err = q.CountGamesForMap(ctx, id)
		return translate("count map games", constraint{entity: "map", id: id}, err)
	})
	return n, err
}

func (r *MapRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.read(ctx, "count maps", func(q *db.Queries) error {
		var err error
		n, err = q.CountMaps(ctx)
		return translate("count maps", constraint{entity: "map"}, err)
	})
	return n, err
}
