package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func (d *DB) query(ctx context.Context, q string, scan func(*sql.Rows) error) error {
	rows, err := d.db.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("%s: %w", firstWords(q), err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("%s: %w", firstWords(q), err)
		}
	}
	return rows.Err()
}

// Load reads the whole world schema.
func (d *DB) Load(ctx context.Context) (*WorldData, error) {
	data := &WorldData{}
	loaders := []func(context.Context, *WorldData) error{
		d.loadFluids,
		d.loadRangedCovers,
		d.loadForagableProfiles,
		d.loadWeatherControllers,
		d.loadTerrains,
		d.loadShards,
		d.loadClocks,
		d.loadCalendars,
		d.loadCelestials,
		d.loadZones,
		d.loadRooms,
		d.loadCells,
		d.loadOverlayPackages,
		d.loadOverlays,
		d.loadExits,
		d.loadAreas,
		d.loadItems,
	}
	for _, l := range loaders {
		if err := l(ctx, data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func (d *DB) loadFluids(ctx context.Context, data *WorldData) error {
	return d.query(ctx, `SELECT id, name, is_gas, density FROM fluids ORDER BY id`, func(rows *sql.Rows) error {
		var r FluidRecord
		var gas int
		if err := rows.Scan(&r.ID, &r.Name, &gas, &r.Density); err != nil {
			return err
		}
		r.IsGas = gas != 0
		data.Fluids = append(data.Fluids, r)
		return nil
	})
}

func (d *DB) loadRangedCovers(ctx context.Context, data *WorldData) error {
	return d.query(ctx, `SELECT id, name, cover_type, cover_extent, max_simultaneous FROM ranged_covers ORDER BY id`, func(rows *sql.Rows) error {
		var r RangedCoverRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.CoverType, &r.CoverExtent, &r.MaxSimultaneous); err != nil {
			return err
		}
		data.RangedCovers = append(data.RangedCovers, r)
		return nil
	})
}

func (d *DB) loadForagableProfiles(ctx context.Context, data *WorldData) error {
	yields := map[int64][]ProfileYieldRecord{}
	err := d.query(ctx, `SELECT profile_id, yield_type, maximum, hourly_regain FROM foragable_profile_yields ORDER BY profile_id, yield_type`, func(rows *sql.Rows) error {
		var id int64
		var y ProfileYieldRecord
		if err := rows.Scan(&id, &y.Type, &y.Maximum, &y.HourlyRegain); err != nil {
			return err
		}
		yields[id] = append(yields[id], y)
		return nil
	})
	if err != nil {
		return err
	}
	return d.query(ctx, `SELECT id, name FROM foragable_profiles ORDER BY id`, func(rows *sql.Rows) error {
		var r ForagableProfileRecord
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return err
		}
		r.Yields = yields[r.ID]
		data.ForagableProfiles = append(data.ForagableProfiles, r)
		return nil
	})
}

func (d *DB) loadWeatherControllers(ctx context.Context, data *WorldData) error {
	return d.query(ctx, `SELECT id, name, precipitation, wind, temperature FROM weather_controllers ORDER BY id`, func(rows *sql.Rows) error {
		var r WeatherControllerRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.Precipitation, &r.Wind, &r.Temperature); err != nil {
			return err
		}
		data.WeatherControllers = append(data.WeatherControllers, r)
		return nil
	})
}

func (d *DB) loadTerrains(ctx context.Context, data *WorldData) error {
	covers := map[int64][]int64{}
	err := d.query(ctx, `SELECT terrain_id, cover_id FROM terrain_covers ORDER BY terrain_id, cover_id`, func(rows *sql.Rows) error {
		var tid, cid int64
		if err := rows.Scan(&tid, &cid); err != nil {
			return err
		}
		covers[tid] = append(covers[tid], cid)
		return nil
	})
	if err != nil {
		return err
	}
	return d.query(ctx, `SELECT id, name, movement_rate, stamina_cost, hide_difficulty, spot_difficulty,
		infection_type, infection_virulence, infection_multiplier, outdoors_type, weather_controller_id,
		atmosphere_id, foragable_profile_id, terrain_model, map_colour, editor_colour, default_terrain
		FROM terrains ORDER BY id`, func(rows *sql.Rows) error {
		var r TerrainRecord
		var def int
		err := rows.Scan(&r.ID, &r.Name, &r.MovementRate, &r.StaminaCost, &r.HideDifficulty, &r.SpotDifficulty,
			&r.InfectionType, &r.InfectionVirulence, &r.InfectionMultiplier, &r.OutdoorsType, &r.WeatherControllerID,
			&r.AtmosphereID, &r.ForagableProfileID, &r.Model, &r.MapColour, &r.EditorColour, &def)
		if err != nil {
			return err
		}
		r.DefaultTerrain = def != 0
		r.CoverIDs = covers[r.ID]
		data.Terrains = append(data.Terrains, r)
		return nil
	})
}

func (d *DB) loadShards(ctx context.Context, data *WorldData) error {
	return d.query(ctx, `SELECT id, name, minimum_terrestrial_lux FROM shards ORDER BY id`, func(rows *sql.Rows) error {
		var r ShardRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.MinimumTerrestrialLux); err != nil {
			return err
		}
		data.Shards = append(data.Shards, r)
		return nil
	})
}

func (d *DB) loadClocks(ctx context.Context, data *WorldData) error {
	return d.query(ctx, `SELECT id, shard_id, name, days_per_year, clock_year, clock_day, clock_minute FROM clocks ORDER BY id`, func(rows *sql.Rows) error {
		var r ClockRecord
		if err := rows.Scan(&r.ID, &r.ShardID, &r.Name, &r.DaysPerYear, &r.Year, &r.Day, &r.Minute); err != nil {
			return err
		}
		data.Clocks = append(data.Clocks, r)
		return nil
	})
}

func (d *DB) loadCalendars(ctx context.Context, data *WorldData) error {
	return d.query(ctx, `SELECT id, shard_id, name, days_per_year FROM calendars ORDER BY id`, func(rows *sql.Rows) error {
		var r CalendarRecord
		if err := rows.Scan(&r.ID, &r.ShardID, &r.Name, &r.DaysPerYear); err != nil {
			return err
		}
		data.Calendars = append(data.Calendars, r)
		return nil
	})
}

func (d *DB) loadCelestials(ctx context.Context, data *WorldData) error {
	return d.query(ctx, `SELECT id, shard_id, clock_id, name, peak_illuminance FROM celestials ORDER BY id`, func(rows *sql.Rows) error {
		var r CelestialRecord
		if err := rows.Scan(&r.ID, &r.ShardID, &r.ClockID, &r.Name, &r.PeakIlluminance); err != nil {
			return err
		}
		data.Celestials = append(data.Celestials, r)
		return nil
	})
}

func (d *DB) loadZones(ctx context.Context, data *WorldData) error {
	tzs := map[int64][]TimezoneRecord{}
	err := d.query(ctx, `SELECT zone_id, clock_id, name, offset_minutes FROM zone_timezones ORDER BY zone_id, clock_id`, func(rows *sql.Rows) error {
		var zid int64
		var tz TimezoneRecord
		if err := rows.Scan(&zid, &tz.ClockID, &tz.Name, &tz.Offset); err != nil {
			return err
		}
		tzs[zid] = append(tzs[zid], tz)
		return nil
	})
	if err != nil {
		return err
	}
	return d.query(ctx, `SELECT id, shard_id, name, latitude, longitude, elevation, ambient_light_pollution, weather_controller_id
		FROM zones ORDER BY id`, func(rows *sql.Rows) error {
		var r ZoneRecord
		err := rows.Scan(&r.ID, &r.ShardID, &r.Name, &r.Latitude, &r.Longitude, &r.Elevation,
			&r.AmbientLightPollution, &r.WeatherControllerID)
		if err != nil {
			return err
		}
		r.Timezones = tzs[r.ID]
		data.Zones = append(data.Zones, r)
		return nil
	})
}

func (d *DB) loadRooms(ctx context.Context, data *WorldData) error {
	return d.query(ctx, `SELECT id, zone_id, x, y, z FROM rooms ORDER BY id`, func(rows *sql.Rows) error {
		var r RoomRecord
		if err := rows.Scan(&r.ID, &r.ZoneID, &r.X, &r.Y, &r.Z); err != nil {
			return err
		}
		data.Rooms = append(data.Rooms, r)
		return nil
	})
}

func (d *DB) loadCells(ctx context.Context, data *WorldData) error {
	tags := map[int64][]int64{}
	err := d.query(ctx, `SELECT cell_id, tag_id FROM cell_tags ORDER BY cell_id, tag_id`, func(rows *sql.Rows) error {
		var cid, tid int64
		if err := rows.Scan(&cid, &tid); err != nil {
			return err
		}
		tags[cid] = append(tags[cid], tid)
		return nil
	})
	if err != nil {
		return err
	}

	yields := map[int64][]YieldRecord{}
	err = d.query(ctx, `SELECT cell_id, yield_type, amount FROM cell_yields ORDER BY cell_id, yield_type`, func(rows *sql.Rows) error {
		var cid int64
		var y YieldRecord
		if err := rows.Scan(&cid, &y.Type, &y.Amount); err != nil {
			return err
		}
		yields[cid] = append(yields[cid], y)
		return nil
	})
	if err != nil {
		return err
	}

	resources := map[int64][]ResourceRecord{}
	err = d.query(ctx, `SELECT cell_id, resource_id, amount FROM cell_magic_resources ORDER BY cell_id, resource_id`, func(rows *sql.Rows) error {
		var cid int64
		var m ResourceRecord
		if err := rows.Scan(&cid, &m.ResourceID, &m.Amount); err != nil {
			return err
		}
		resources[cid] = append(resources[cid], m)
		return nil
	})
	if err != nil {
		return err
	}

	hooks := map[int64][]int64{}
	err = d.query(ctx, `SELECT cell_id, hook_id FROM cell_hooks ORDER BY cell_id, hook_id`, func(rows *sql.Rows) error {
		var cid, hid int64
		if err := rows.Scan(&cid, &hid); err != nil {
			return err
		}
		hooks[cid] = append(hooks[cid], hid)
		return nil
	})
	if err != nil {
		return err
	}

	contents := map[int64][]ContentRecord{}
	err = d.query(ctx, `SELECT cell_id, item_id, layer FROM cell_contents ORDER BY cell_id, item_id`, func(rows *sql.Rows) error {
		var cid int64
		var c ContentRecord
		if err := rows.Scan(&cid, &c.ItemID, &c.Layer); err != nil {
			return err
		}
		contents[cid] = append(contents[cid], c)
		return nil
	})
	if err != nil {
		return err
	}

	return d.query(ctx, `SELECT id, room_id, current_overlay_id, foragable_profile_id, is_temporary, effects_xml FROM cells ORDER BY id`, func(rows *sql.Rows) error {
		var r CellRecord
		var temp int
		var effects sql.NullString
		if err := rows.Scan(&r.ID, &r.RoomID, &r.CurrentOverlayID, &r.ForagableProfileID, &temp, &effects); err != nil {
			return err
		}
		r.Temporary = temp != 0
		r.EffectsXML = effects.String
		r.Tags = tags[r.ID]
		r.Yields = yields[r.ID]
		r.MagicResources = resources[r.ID]
		r.Hooks = hooks[r.ID]
		r.Contents = contents[r.ID]
		data.Cells = append(data.Cells, r)
		return nil
	})
}

func (d *DB) loadOverlayPackages(ctx context.Context, data *WorldData) error {
	return d.query(ctx, `SELECT id, revision, name, status FROM overlay_packages ORDER BY id, revision`, func(rows *sql.Rows) error {
		var r OverlayPackageRecord
		if err := rows.Scan(&r.ID, &r.Revision, &r.Name, &r.Status); err != nil {
			return err
		}
		data.OverlayPackages = append(data.OverlayPackages, r)
		return nil
	})
}

func (d *DB) loadOverlays(ctx context.Context, data *WorldData) error {
	exits := map[int64][]int64{}
	err := d.query(ctx, `SELECT overlay_id, exit_id FROM cell_overlay_exits ORDER BY overlay_id, exit_id`, func(rows *sql.Rows) error {
		var oid, eid int64
		if err := rows.Scan(&oid, &eid); err != nil {
			return err
		}
		exits[oid] = append(exits[oid], eid)
		return nil
	})
	if err != nil {
		return err
	}
	return d.query(ctx, `SELECT id, cell_id, package_id, package_revision, name, description, terrain_id,
		outdoors_type, hearing_profile_id, ambient_light_factor, added_light, atmosphere_id, safe_quit
		FROM cell_overlays ORDER BY id`, func(rows *sql.Rows) error {
		var r OverlayRecord
		var desc sql.NullString
		var safe int
		err := rows.Scan(&r.ID, &r.CellID, &r.PackageID, &r.PackageRevision, &r.Name, &desc, &r.TerrainID,
			&r.OutdoorsType, &r.HearingProfileID, &r.AmbientLightFactor, &r.AddedLight, &r.AtmosphereID, &safe)
		if err != nil {
			return err
		}
		r.Description = desc.String
		r.SafeQuit = safe != 0
		r.ExitIDs = exits[r.ID]
		data.Overlays = append(data.Overlays, r)
		return nil
	})
}

func (d *DB) loadExits(ctx context.Context, data *WorldData) error {
	return d.query(ctx, `SELECT id, cell1_id, cell2_id, direction1, direction2, has_door, door_open, accepts_fall FROM exits ORDER BY id`, func(rows *sql.Rows) error {
		var r ExitRecord
		var door, open, fall int
		if err := rows.Scan(&r.ID, &r.Cell1ID, &r.Cell2ID, &r.Direction1, &r.Direction2, &door, &open, &fall); err != nil {
			return err
		}
		r.HasDoor = door != 0
		r.DoorOpen = open != 0
		r.AcceptsFall = fall != 0
		data.Exits = append(data.Exits, r)
		return nil
	})
}

func (d *DB) loadAreas(ctx context.Context, data *WorldData) error {
	rooms := map[int64][]int64{}
	err := d.query(ctx, `SELECT area_id, room_id FROM area_rooms ORDER BY area_id, room_id`, func(rows *sql.Rows) error {
		var aid, rid int64
		if err := rows.Scan(&aid, &rid); err != nil {
			return err
		}
		rooms[aid] = append(rooms[aid], rid)
		return nil
	})
	if err != nil {
		return err
	}
	return d.query(ctx, `SELECT id, name, weather_controller_id FROM areas ORDER BY id`, func(rows *sql.Rows) error {
		var r AreaRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.WeatherControllerID); err != nil {
			return err
		}
		r.RoomIDs = rooms[r.ID]
		data.Areas = append(data.Areas, r)
		return nil
	})
}

func (d *DB) loadItems(ctx context.Context, data *WorldData) error {
	return d.query(ctx, `SELECT id, name, weight, density, light, temperature, anchored FROM items ORDER BY id`, func(rows *sql.Rows) error {
		var r ItemRecord
		var anchored int
		if err := rows.Scan(&r.ID, &r.Name, &r.Weight, &r.Density, &r.Light, &r.Temperature, &anchored); err != nil {
			return err
		}
		r.Anchored = anchored != 0
		data.Items = append(data.Items, r)
		return nil
	})
}
