package domain

// SubTypeDefault is used when a booking request does not name a variant.
const SubTypeDefault = "DEFAULT"

// resourceCatalog is the static capacity table: category -> subType -> ordered
// physical resource IDs. Order matters: reservation picks the first free ID.
var resourceCatalog = map[Category]map[string][]string{
	CategoryDiscussionRoom: {
		"ROOM_1": {"disc_room_1"},
		"ROOM_2": {"disc_room_2"},
		"ROOM_3": {"disc_room_3"},
		"ROOM_4": {"disc_room_4"},
		"ROOM_5": {"disc_room_5"},
	},
	CategoryMusicRoom: {
		SubTypeDefault: {"music_room_1"},
	},
	CategoryPoolTable: {
		"LARGE": {"pool_large_1"},
		"SMALL": {"pool_small_1"},
	},
	CategoryPingPong: {
		SubTypeDefault: {"pingpong_1", "pingpong_2"},
	},
}

// ResourcesFor returns the resource IDs valid for a category/subType pair,
// falling back to the DEFAULT variant for unknown subTypes. Nil means the
// pair has no capacity at all (invalid subType).
func ResourcesFor(category Category, subType string) []string {
	variants, ok := resourceCatalog[category]
	if !ok {
		return nil
	}
	if ids, ok := variants[subType]; ok {
		return ids
	}
	return variants[SubTypeDefault]
}
