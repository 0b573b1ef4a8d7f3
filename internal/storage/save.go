package storage

func (t *Tx) SaveFluid(r FluidRecord) error {
	return t.exec(`REPLACE INTO fluids (id, name, is_gas, density) VALUES (?, ?, ?, ?)`,
		r.ID, r.Name, boolInt(r.IsGas), r.Density)
}

func (t *Tx) SaveRangedCover(r RangedCoverRecord) error {
	return t.exec(`REPLACE INTO ranged_covers (id, name, cover_type, cover_extent, max_simultaneous) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.CoverType, r.CoverExtent, r.MaxSimultaneous)
}

func (t *Tx) SaveForagableProfile(r ForagableProfileRecord) error {
	if err := t.exec(`REPLACE INTO foragable_profiles (id, name) VALUES (?, ?)`, r.ID, r.Name); err != nil {
		return err
	}
	if err := t.exec(`DELETE FROM foragable_profile_yields WHERE profile_id = ?`, r.ID); err != nil {
		return err
	}
	for _, y := range r.Yields {
		err := t.exec(`INSERT INTO foragable_profile_yields (profile_id, yield_type, maximum, hourly_regain) VALUES (?, ?, ?, ?)`,
			r.ID, y.Type, y.Maximum, y.HourlyRegain)
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *Tx) SaveWeatherController(r WeatherControllerRecord) error {
	return t.exec(`REPLACE INTO weather_controllers (id, name, precipitation, wind, temperature) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.Precipitation, r.Wind, r.Temperature)
}

func (t *Tx) SaveTerrain(r TerrainRecord) error {
	err := t.exec(`REPLACE INTO terrains (id, name, movement_rate, stamina_cost, hide_difficulty, spot_difficulty,
		infection_type, infection_virulence, infection_multiplier, outdoors_type, weather_controller_id,
		atmosphere_id, foragable_profile_id, terrain_model, map_colour, editor_colour, default_terrain)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.MovementRate, r.StaminaCost, r.HideDifficulty, r.SpotDifficulty,
		r.InfectionType, r.InfectionVirulence, r.InfectionMultiplier, r.OutdoorsType, r.WeatherControllerID,
		r.AtmosphereID, r.ForagableProfileID, r.Model, r.MapColour, r.EditorColour, boolInt(r.DefaultTerrain))
	if err != nil {
		return err
	}
	if err := t.exec(`DELETE FROM terrain_covers WHERE terrain_id = ?`, r.ID); err != nil {
		return err
	}
	for _, id := range r.CoverIDs {
		if err := t.exec(`INSERT INTO terrain_covers (terrain_id, cover_id) VALUES (?, ?)`, r.ID, id); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tx) SaveShard(r ShardRecord) error {
	return t.exec(`REPLACE INTO shards (id, name, minimum_terrestrial_lux) VALUES (?, ?, ?)`,
		r.ID, r.Name, r.MinimumTerrestrialLux)
}

func (t *Tx) SaveClock(r ClockRecord) error {
	return t.exec(`REPLACE INTO clocks (id, shard_id, name, days_per_year, clock_year, clock_day, clock_minute) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ShardID, r.Name, r.DaysPerYear, r.Year, r.Day, r.Minute)
}

func (t *Tx) SaveCalendar(r CalendarRecord) error {
	return t.exec(`REPLACE INTO calendars (id, shard_id, name, days_per_year) VALUES (?, ?, ?, ?)`,
		r.ID, r.ShardID, r.Name, r.DaysPerYear)
}

func (t *Tx) SaveCelestial(r CelestialRecord) error {
	return t.exec(`REPLACE INTO celestials (id, shard_id, clock_id, name, peak_illuminance) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.ShardID, r.ClockID, r.Name, r.PeakIlluminance)
}

func (t *Tx) SaveZone(r ZoneRecord) error {
	err := t.exec(`REPLACE INTO zones (id, shard_id, name, latitude, longitude, elevation, ambient_light_pollution, weather_controller_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ShardID, r.Name, r.Latitude, r.Longitude, r.Elevation, r.AmbientLightPollution, r.WeatherControllerID)
	if err != nil {
		return err
	}
	if err := t.exec(`DELETE FROM zone_timezones WHERE zone_id = ?`, r.ID); err != nil {
		return err
	}
	for _, tz := range r.Timezones {
		err := t.exec(`INSERT INTO zone_timezones (zone_id, clock_id, name, offset_minutes) VALUES (?, ?, ?, ?)`,
			r.ID, tz.ClockID, tz.Name, tz.Offset)
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *Tx) SaveRoom(r RoomRecord) error {
	return t.exec(`REPLACE INTO rooms (id, zone_id, x, y, z) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.ZoneID, r.X, r.Y, r.Z)
}

func (t *Tx) DeleteRoom(id int64) error {
	if err := t.exec(`DELETE FROM area_rooms WHERE room_id = ?`, id); err != nil {
		return err
	}
	return t.exec(`DELETE FROM rooms WHERE id = ?`, id)
}

// InsertCell creates the row for a new cell with every optional part.
func (t *Tx) InsertCell(r CellRecord) error {
	err := t.exec(`INSERT INTO cells (id, room_id, current_overlay_id, foragable_profile_id, is_temporary, effects_xml) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.RoomID, r.CurrentOverlayID, r.ForagableProfileID, boolInt(r.Temporary), r.EffectsXML)
	if err != nil {
		return err
	}
	return t.saveCellParts(r, CellAllChanged)
}

// SaveCell always writes the cell's references and writes the optional
// parts selected by changes.
func (t *Tx) SaveCell(r CellRecord, changes CellChanges) error {
	err := t.exec(`UPDATE cells SET room_id = ?, current_overlay_id = ?, foragable_profile_id = ?, is_temporary = ? WHERE id = ?`,
		r.RoomID, r.CurrentOverlayID, r.ForagableProfileID, boolInt(r.Temporary), r.ID)
	if err != nil {
		return err
	}
	return t.saveCellParts(r, changes)
}

func (t *Tx) saveCellParts(r CellRecord, changes CellChanges) error {
	if changes&CellEffectsChanged != 0 {
		if err := t.exec(`UPDATE cells SET effects_xml = ? WHERE id = ?`, r.EffectsXML, r.ID); err != nil {
			return err
		}
	}
	if changes&CellContentsChanged != 0 {
		if err := t.exec(`DELETE FROM cell_contents WHERE cell_id = ?`, r.ID); err != nil {
			return err
		}
		for _, c := range r.Contents {
			if err := t.exec(`INSERT INTO cell_contents (cell_id, item_id, layer) VALUES (?, ?, ?)`, r.ID, c.ItemID, c.Layer); err != nil {
				return err
			}
		}
	}
	if changes&CellResourcesChanged != 0 {
		if err := t.exec(`DELETE FROM cell_magic_resources WHERE cell_id = ?`, r.ID); err != nil {
			return err
		}
		for _, m := range r.MagicResources {
			if err := t.exec(`INSERT INTO cell_magic_resources (cell_id, resource_id, amount) VALUES (?, ?, ?)`, r.ID, m.ResourceID, m.Amount); err != nil {
				return err
			}
		}
	}
	if changes&CellYieldsChanged != 0 {
		if err := t.exec(`DELETE FROM cell_yields WHERE cell_id = ?`, r.ID); err != nil {
			return err
		}
		for _, y := range r.Yields {
			if err := t.exec(`INSERT INTO cell_yields (cell_id, yield_type, amount) VALUES (?, ?, ?)`, r.ID, y.Type, y.Amount); err != nil {
				return err
			}
		}
	}
	if changes&CellTagsChanged != 0 {
		if err := t.exec(`DELETE FROM cell_tags WHERE cell_id = ?`, r.ID); err != nil {
			return err
		}
		for _, tag := range r.Tags {
			if err := t.exec(`INSERT INTO cell_tags (cell_id, tag_id) VALUES (?, ?)`, r.ID, tag); err != nil {
				return err
			}
		}
	}
	if changes&CellHooksChanged != 0 {
		if err := t.exec(`DELETE FROM cell_hooks WHERE cell_id = ?`, r.ID); err != nil {
			return err
		}
		for _, h := range r.Hooks {
			if err := t.exec(`INSERT INTO cell_hooks (cell_id, hook_id) VALUES (?, ?)`, r.ID, h); err != nil {
				return err
			}
		}
	}
	return nil
}

// DeleteCell removes a cell with its overlays and every cell side table.
func (t *Tx) DeleteCell(id int64) error {
	stmts := []string{
		`DELETE FROM cell_overlay_exits WHERE overlay_id IN (SELECT id FROM cell_overlays WHERE cell_id = ?)`,
		`DELETE FROM cell_overlays WHERE cell_id = ?`,
		`DELETE FROM cell_contents WHERE cell_id = ?`,
		`DELETE FROM cell_magic_resources WHERE cell_id = ?`,
		`DELETE FROM cell_yields WHERE cell_id = ?`,
		`DELETE FROM cell_tags WHERE cell_id = ?`,
		`DELETE FROM cell_hooks WHERE cell_id = ?`,
		`DELETE FROM cells WHERE id = ?`,
	}
	for _, s := range stmts {
		if err := t.exec(s, id); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tx) SaveOverlayPackage(r OverlayPackageRecord) error {
	return t.exec(`REPLACE INTO overlay_packages (id, revision, name, status) VALUES (?, ?, ?, ?)`,
		r.ID, r.Revision, r.Name, r.Status)
}

func (t *Tx) SaveOverlay(r OverlayRecord) error {
	err := t.exec(`REPLACE INTO cell_overlays (id, cell_id, package_id, package_revision, name, description, terrain_id,
		outdoors_type, hearing_profile_id, ambient_light_factor, added_light, atmosphere_id, safe_quit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CellID, r.PackageID, r.PackageRevision, r.Name, r.Description, r.TerrainID,
		r.OutdoorsType, r.HearingProfileID, r.AmbientLightFactor, r.AddedLight, r.AtmosphereID, boolInt(r.SafeQuit))
	if err != nil {
		return err
	}
	if err := t.exec(`DELETE FROM cell_overlay_exits WHERE overlay_id = ?`, r.ID); err != nil {
		return err
	}
	for _, id := range r.ExitIDs {
		if err := t.exec(`INSERT INTO cell_overlay_exits (overlay_id, exit_id) VALUES (?, ?)`, r.ID, id); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tx) SaveExit(r ExitRecord) error {
	return t.exec(`REPLACE INTO exits (id, cell1_id, cell2_id, direction1, direction2, has_door, door_open, accepts_fall)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Cell1ID, r.Cell2ID, r.Direction1, r.Direction2, boolInt(r.HasDoor), boolInt(r.DoorOpen), boolInt(r.AcceptsFall))
}

func (t *Tx) DeleteExit(id int64) error {
	if err := t.exec(`DELETE FROM cell_overlay_exits WHERE exit_id = ?`, id); err != nil {
		return err
	}
	return t.exec(`DELETE FROM exits WHERE id = ?`, id)
}

func (t *Tx) SaveArea(r AreaRecord) error {
	err := t.exec(`REPLACE INTO areas (id, name, weather_controller_id) VALUES (?, ?, ?)`,
		r.ID, r.Name, r.WeatherControllerID)
	if err != nil {
		return err
	}
	if err := t.exec(`DELETE FROM area_rooms WHERE area_id = ?`, r.ID); err != nil {
		return err
	}
	for _, id := range r.RoomIDs {
		if err := t.exec(`INSERT INTO area_rooms (area_id, room_id) VALUES (?, ?)`, r.ID, id); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tx) DeleteArea(id int64) error {
	if err := t.exec(`DELETE FROM area_rooms WHERE area_id = ?`, id); err != nil {
		return err
	}
	return t.exec(`DELETE FROM areas WHERE id = ?`, id)
}

func (t *Tx) SaveItem(r ItemRecord) error {
	return t.exec(`REPLACE INTO items (id, name, weight, density, light, temperature, anchored) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.Weight, r.Density, r.Light, r.Temperature, boolInt(r.Anchored))
}

// SaveWorld writes every row of data. It is used to import seeds and snapshots.
func (t *Tx) SaveWorld(data *WorldData) error {
	for _, r := range data.Fluids {
		if err := t.SaveFluid(r); err != nil {
			return err
		}
	}
	for _, r := range data.RangedCovers {
		if err := t.SaveRangedCover(r); err != nil {
			return err
		}
	}
	for _, r := range data.ForagableProfiles {
		if err := t.SaveForagableProfile(r); err != nil {
			return err
		}
	}
	for _, r := range data.WeatherControllers {
		if err := t.SaveWeatherController(r); err != nil {
			return err
		}
	}
	for _, r := range data.Terrains {
		if err := t.SaveTerrain(r); err != nil {
			return err
		}
	}
	for _, r := range data.Shards {
		if err := t.SaveShard(r); err != nil {
			return err
		}
	}
	for _, r := range data.Clocks {
		if err := t.SaveClock(r); err != nil {
			return err
		}
	}
	for _, r := range data.Calendars {
		if err := t.SaveCalendar(r); err != nil {
			return err
		}
	}
	for _, r := range data.Celestials {
		if err := t.SaveCelestial(r); err != nil {
			return err
		}
	}
	for _, r := range data.Zones {
		if err := t.SaveZone(r); err != nil {
			return err
		}
	}
	for _, r := range data.Rooms {
		if err := t.SaveRoom(r); err != nil {
			return err
		}
	}
	for _, r := range data.Cells {
		if err := t.DeleteCell(r.ID); err != nil {
			return err
		}
		if err := t.InsertCell(r); err != nil {
			return err
		}
	}
	for _, r := range data.OverlayPackages {
		if err := t.SaveOverlayPackage(r); err != nil {
			return err
		}
	}
	for _, r := range data.Overlays {
		if err := t.SaveOverlay(r); err != nil {
			return err
		}
	}
	for _, r := range data.Exits {
		if err := t.SaveExit(r); err != nil {
			return err
		}
	}
	for _, r := range data.Areas {
		if err := t.SaveArea(r); err != nil {
			return err
		}
	}
	for _, r := range data.Items {
		if err := t.SaveItem(r); err != nil {
			return err
		}
	}
	return nil
}
