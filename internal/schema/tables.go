package schema

// Default returns a fresh copy of the built-in tables.
func Default() *Contribution {
	return &Contribution{
		Definitions: map[string]string{
			"items":                 "type",
			"itemCategories":        "type",
			"units":                 "type",
			"soldiers":              "type",
			"crafts":                "type",
			"craftWeapons":          "type",
			"ufos":                  "type",
			"facilities":            "type",
			"research":              "name",
			"manufacture":           "name",
			"ufopaedia":             "id",
			"alienRaces":            "id",
			"alienMissions":         "type",
			"alienDeployments":      "type",
			"armors":                "type",
			"terrains":              "name",
			"mapScripts":            "type",
			"regions":               "type",
			"countries":             "type",
			"extraSprites":          "type",
			"extraSounds":           "type",
			"invs":                  "id",
			"ufoTrajectories":       "id",
			"commendations":         "type",
			"soldierTransformation": "name",
			"startingConditions":    "type",
			"enviroEffects":         "type",
			"cutscenes":             "type",
			"musics":                "type",
			"missionScripts":        "type",
			"arcScripts":            "type",
			"eventScripts":          "type",
			"events":                "name",
		},

		Qualified: map[string]string{
			"extraSprites": "type",
			"extraSounds":  "type",
		},

		Links: map[string][]string{
			"items.requires":              {"research"},
			"items.requiresBuy":           {"research"},
			"items.categories":            {"itemCategories"},
			"items.compatibleAmmo":        {TokenDummy},
			"items.ammo[].compatibleAmmo": {"items"},
			"items.autoShots":             {TokenDummy},
			"items.bigSprite":             {"extraSprites.BIGOBS.PCK", TokenNumeric},
			"items.floorSprite":           {"extraSprites.FLOOROB.PCK", TokenNumeric},
			"items.handSprite":            {"extraSprites.HANDOB.PCK", TokenNumeric},
			"items.bulletSprite":          {"extraSprites.Projectiles", TokenNumeric},
			"items.hitAnimation":          {"extraSprites.SMOKE.PCK", TokenNumeric},
			"items.fireSound":             {"extraSounds.BATTLE.CAT", TokenNumeric},
			"items.hitSound":              {"extraSounds.BATTLE.CAT", TokenNumeric},

			"units.armor":           {TokenDummy},
			"units.race":            {"alienRaces"},
			"units.builtInWeapons":  {"items"},
			"units.spawnUnit":       {"units"},
			"units.deathSound":      {"extraSounds.BATTLE.CAT", TokenNumeric},
			"soldiers.armor":        {"armors"},
			"soldiers.requires":     {"research"},
			"armors.corpseBattle":   {"items"},
			"armors.corpseGeo":      {"items"},
			"armors.storeItem":      {"items"},
			"armors.builtInWeapons": {"items"},
			"armors.units":          {"soldiers", "units"},
			"armors.spriteSheet":    {"extraSprites"},

			"crafts.requires":       {"research"},
			"crafts.refuelItem":     {"items"},
			"craftWeapons.launcher": {TokenDummy},
			"craftWeapons.clip":     {TokenDummy},
			"craftWeapons.sprite":   {"extraSprites.INTICON.PCK", "extraSprites.BASEBITS.PCK", TokenNumeric, TokenAll},
			"craftWeapons.sound":    {"extraSounds.GEO.CAT", TokenNumeric},

			"facilities.requires":            {"research"},
			"facilities.buildOverFacilities": {"facilities"},
			"facilities.destroyedFacility":   {"facilities"},

			"research.dependencies": {"research"},
			"research.unlocks":      {"research"},
			"research.getOneFree":   {"research"},
			"research.requires":     {"research"},
			"research.disables":     {"research"},
			"research.lookup":       {"research", "ufopaedia"},
			"research.spawnedItem":  {"items"},

			"manufacture.requires":           {"research"},
			"manufacture.requiredItems":      {"items", "crafts"},
			"manufacture.producedItems":      {"items", "crafts"},
			"manufacture.requiredFacilities": {"facilities"},

			"ufopaedia.requires": {"research"},
			"ufopaedia.image_id": {"extraSprites"},

			"alienRaces.members":            {"units"},
			"alienRaces.retaliationMission": {"alienMissions"},
			"alienRaces.baseCustomMission":  {"alienDeployments"},

			"alienMissions.siteType":           {TokenDummy},
			"alienMissions.spawnUfo":           {"ufos"},
			"alienMissions.waves[].ufo":        {"ufos", "alienDeployments"},
			"alienMissions.waves[].trajectory": {TokenDummy},

			"alienDeployments.nextStage":             {TokenDummy},
			"alienDeployments.terrains":              {"terrains"},
			"alienDeployments.script":                {"mapScripts"},
			"alienDeployments.race":                  {"alienRaces"},
			"alienDeployments.enviroEffects":         {"enviroEffects"},
			"alienDeployments.data[].itemSets[]":     {"items"},
			"alienDeployments.briefing.music":        {"musics"},
			"alienDeployments.briefing.background":   {"extraSprites"},
			"alienDeployments.debriefing.background": {"extraSprites"},

			"terrains.civilianTypes": {"units"},

			"mapScripts.commands[].terrain":   {"terrains"},
			"mapScripts.commands[].groups":    {TokenDummy},
			"mapScripts.commands[].UFOName":   {"ufos"},
			"mapScripts.commands[].craftName": {"crafts"},

			"regions.areas[]":   {TokenDummy},
			"countries.areas[]": {TokenDummy},

			"startingConditions.allowedArmors":   {"armors"},
			"startingConditions.allowedVehicles": {"items"},
			"startingConditions.allowedItems":    {"items"},
			"startingConditions.allowedCraft":    {"crafts"},

			"soldierTransformation.requires":             {"research"},
			"soldierTransformation.allowedSoldierTypes":  {"soldiers"},
			"soldierTransformation.producedSoldierType":  {"soldiers"},
			"soldierTransformation.producedSoldierArmor": {"armors"},

			"events.researchList": {"research"},
			"events.regionList":   {"regions"},
			"events.spawnedItems": {"items"},

			"missionScripts.researchTriggers": {"research"},
			"arcScripts.researchTriggers":     {"research"},

			"enviroEffects.armorTransformations": {"armors"},
		},

		Patterns: []PatternSpec{
			{Pattern: `^items\.ammo\.\d+\.compatibleAmmo$`, Targets: []string{"items"}},
			{Pattern: `^soldiers\.minStats\.\w+$`, Targets: []string{TokenDummy}},
			{Pattern: `^enviroEffects\.armorTransformations\.[^.]+$`, Targets: []string{"armors"}},
			{Pattern: `^[A-Za-z]+\.requires$`, Targets: []string{"research"}},
			{Pattern: `^[A-Za-z]+\.requiresBuy$`, Targets: []string{"research"}},
		},

		KeyReferences: []string{
			"manufacture.requiredItems",
			"manufacture.producedItems",
			"manufacture.requiredFacilities",
			"enviroEffects.armorTransformations",
			"missionScripts.researchTriggers",
			"arcScripts.researchTriggers",
		},

		Metadata: map[string][]string{
			"mapScripts.commands[].groups":     {"terrain"},
			"alienMissions.waves[].trajectory": {"ufo"},
			"regions.areas[]":                  {"*"},
			"countries.areas[]":                {"*"},
		},

		Ignore: []string{
			"ufos.battlescapeTerrainData",
			"soldiers.soldierNames",
			"alienDeployments.data[].alienRank",
		},
		IgnorePatterns: []string{
			`\.delete$`,
			`\.refNode(\.|$)`,
			`^(globe|constants|extraStrings|interfaces|converter|fixedUserOptions|ufoTrajectories)(\.|$)`,
			`^alienMissions\.raceWeights\.`,
			`^missionScripts\.(missionWeights|regionWeights|raceWeights)\.`,
		},

		Strings: []string{
			"ufopaedia.section",
			"ufopaedia.text",
			"ufopaedia.type_id",
			"armors.spriteInv",
			"terrains.mapDataSets",
			"cutscenes.videos",
			"musics.files",
			"commendations.description",
			"missionScripts.varName",
			"missionScripts.missionVarName",
		},
		StringPatterns: []string{
			`\.name$`,
			`\.(title|desc|description|text|label)$`,
			`^extra(Sprites|Sounds)\..+\.files\.[^.]+$`,
			`^cutscenes\.slideshow\.`,
		},

		BuiltIns: map[string]BuiltIn{
			"items.bigSprite":                 {Ranges: []Range{{Min: 0, Max: 56}}},
			"items.floorSprite":               {Ranges: []Range{{Min: 0, Max: 72}}},
			"items.handSprite":                {Ranges: []Range{{Min: 0, Max: 255}}},
			"items.bulletSprite":              {Ranges: []Range{{Min: 0, Max: 10}}},
			"items.hitAnimation":              {Ranges: []Range{{Min: 0, Max: 55}}},
			"items.fireSound":                 {Ranges: []Range{{Min: 0, Max: 54}}},
			"items.hitSound":                  {Ranges: []Range{{Min: 0, Max: 54}}},
			"units.deathSound":                {Ranges: []Range{{Min: 0, Max: 54}}},
			"craftWeapons.sound":              {Ranges: []Range{{Min: 0, Max: 13}}},
			"extraSprites.INTICON.PCK":        {Ranges: []Range{{Min: 0, Max: 10}}},
			"extraSprites.BASEBITS.PCK":       {Ranges: []Range{{Min: 0, Max: 53}}},
			"ufopaedia.image_id":              {Values: vanillaUfopaediaImages},
			"mapScripts.commands[].type":      {Values: []string{"addBlock", "addLine", "addCraft", "addUFO", "digTunnel", "fillArea", "checkBlock", "removeBlock", "resize"}},
			"mapScripts.commands[].direction": {Values: []string{"horizontal", "vertical", "both"}},
		},
		BuiltInPatterns: []BuiltInSpec{
			{Pattern: `\.music$`, Values: vanillaMusic},
		},

		DuplicateIgnore: map[string][]string{
			"extraSprites": {"BIGOBS.PCK", "FLOOROB.PCK", "HANDOB.PCK", "SMOKE.PCK", "INTICON.PCK", "BASEBITS.PCK", "Projectiles"},
			"extraSounds":  {"BATTLE.CAT", "GEO.CAT"},
		},
		DuplicateIgnorePatterns: []string{
			`^musics$`,
		},
	}
}

var vanillaMusic = []string{
	"GMDEFEND", "GMENBASE", "GMGEO1", "GMGEO2", "GMINTER", "GMINTRO1",
	"GMLOSE", "GMMARS", "GMNEWMAR", "GMSTORY", "GMTACTIC", "GMWIN",
}

var vanillaUfopaediaImages = []string{
	"UP001.SPK", "UP002.SPK", "UP003.SPK", "UP004.SPK", "UP005.SPK",
	"UP006.SPK", "UP007.SPK", "UP008.SPK", "UP009.SPK", "UP010.SPK",
	"UP011.SPK", "UP012.SPK", "UP013.SPK", "UP014.SPK", "UP015.SPK",
	"UP016.SPK", "UP017.SPK", "UP018.SPK", "UP019.SPK", "UP020.SPK",
	"UP021.SPK", "UP022.SPK", "UP023.SPK", "UP024.SPK", "UP025.SPK",
	"UP026.SPK", "UP027.SPK", "UP028.SPK", "UP029.SPK", "UP030.SPK",
	"UP031.SPK", "UP032.SPK", "UP033.SPK", "UP034.SPK", "UP035.SPK",
	"UP036.SPK", "UP037.SPK", "UP038.SPK", "UP039.SPK", "UP040.SPK",
	"UP041.SPK", "UP042.SPK",
}
