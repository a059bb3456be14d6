package category

import (
	"sort"

	"dbs-store/internal/logger"

	"go.uber.org/zap"
)

func parent(id string) *string { return &id }

// all is the storefront navigation tree. Order is the display position among siblings.
var all = []Category{
	{ID: "smartphones", Slug: "smartphones", Name: "Smartphones", Icon: "smartphone", Order: 0},
	{ID: "tablettes", Slug: "tablettes", Name: "Tablettes", Icon: "tablet", Order: 1},
	{ID: "ordinateurs", Slug: "ordinateurs", Name: "Ordinateurs", Icon: "laptop", Order: 2},
	{ID: "montres", Slug: "montres-connectees", Name: "Montres connectées", Icon: "watch", Order: 3},
	{ID: "audio", Slug: "audio", Name: "Audio", Icon: "headphones", Order: 4},
	{ID: "cameras-drones", Slug: "cameras-drones", Name: "Caméras & Drones", Icon: "camera", Order: 5},
	{ID: "gaming", Slug: "gaming", Name: "Gaming", Icon: "gamepad-2", Order: 6},
	{ID: "imprimantes", Slug: "imprimantes", Name: "Imprimantes", Icon: "printer", Order: 7},
	{ID: "accessoires", Slug: "accessoires", Name: "Accessoires", Icon: "cable", Order: 8},
	{ID: "offres", Slug: "offres", Name: "Offres", Icon: "percent", Order: 9},
	{ID: "support", Slug: "support", Name: "Support", Icon: "life-buoy", Order: 10},

	{ID: "iphone", Slug: "iphone", Name: "iPhone", Icon: "smartphone", ParentID: parent("smartphones"), Order: 0},
	{ID: "samsung-galaxy", Slug: "samsung-galaxy", Name: "Samsung Galaxy", Icon: "smartphone", ParentID: parent("smartphones"), Order: 1},
	{ID: "google-pixel", Slug: "google-pixel", Name: "Google Pixel", Icon: "smartphone", ParentID: parent("smartphones"), Order: 2},
	{ID: "xiaomi", Slug: "xiaomi", Name: "Xiaomi", Icon: "smartphone", ParentID: parent("smartphones"), Order: 3},
	{ID: "huawei", Slug: "huawei", Name: "Huawei", Icon: "smartphone", ParentID: parent("smartphones"), Order: 4},
	{ID: "autres-marques", Slug: "autres-marques", Name: "Autres marques", Icon: "smartphone", ParentID: parent("smartphones"), Order: 5},

	{ID: "ipad", Slug: "ipad", Name: "iPad", Icon: "tablet", ParentID: parent("tablettes"), Order: 0},
	{ID: "samsung-tab", Slug: "samsung-tab", Name: "Samsung Tab", Icon: "tablet", ParentID: parent("tablettes"), Order: 1},
	{ID: "tablettes-android", Slug: "tablettes-android", Name: "Tablettes Android", Icon: "tablet", ParentID: parent("tablettes"), Order: 2},
	{ID: "accessoires-tablettes", Slug: "accessoires-tablettes", Name: "Accessoires tablettes", Icon: "tablet", ParentID: parent("tablettes"), Order: 3},

	{ID: "laptops", Slug: "laptops", Name: "Laptops", Icon: "laptop", ParentID: parent("ordinateurs"), Order: 0},
	{ID: "desktops", Slug: "desktops", Name: "Desktops", Icon: "monitor", ParentID: parent("ordinateurs"), Order: 1},
	{ID: "tout-en-un", Slug: "tout-en-un", Name: "Tout-en-un", Icon: "monitor", ParentID: parent("ordinateurs"), Order: 2},
	{ID: "chromebooks", Slug: "chromebooks", Name: "Chromebooks", Icon: "laptop", ParentID: parent("ordinateurs"), Order: 3},

	{ID: "apple-watch", Slug: "apple-watch", Name: "Apple Watch", Icon: "watch", ParentID: parent("montres"), Order: 0},
	{ID: "samsung-galaxy-watch", Slug: "samsung-galaxy-watch", Name: "Samsung Galaxy Watch", Icon: "watch", ParentID: parent("montres"), Order: 1},
	{ID: "huawei-watch", Slug: "huawei-watch", Name: "Huawei Watch", Icon: "watch", ParentID: parent("montres"), Order: 2},
	{ID: "google-pixel-watch", Slug: "google-pixel-watch", Name: "Google Pixel Watch", Icon: "watch", ParentID: parent("montres"), Order: 3},
	{ID: "fitbit", Slug: "fitbit", Name: "Fitbit", Icon: "watch", ParentID: parent("montres"), Order: 4},
	{ID: "autres-montres", Slug: "autres-montres", Name: "Autres montres", Icon: "watch", ParentID: parent("montres"), Order: 5},

	{ID: "ecouteurs-sans-fil", Slug: "ecouteurs-sans-fil", Name: "Écouteurs sans fil", Icon: "headphones", ParentID: parent("audio"), Order: 0},
	{ID: "casques", Slug: "casques", Name: "Casques", Icon: "headphones", ParentID: parent("audio"), Order: 1},
	{ID: "enceintes-bluetooth", Slug: "enceintes-bluetooth", Name: "Enceintes Bluetooth", Icon: "speaker", ParentID: parent("audio"), Order: 2},
	{ID: "enceintes-intelligentes", Slug: "enceintes-intelligentes", Name: "Enceintes intelligentes", Icon: "speaker", ParentID: parent("audio"), Order: 3},
	{ID: "micros", Slug: "micros", Name: "Micros", Icon: "mic", ParentID: parent("audio"), Order: 4},
	{ID: "barres-de-son", Slug: "barres-de-son", Name: "Barres de son", Icon: "speaker", ParentID: parent("audio"), Order: 5},

	{ID: "drones", Slug: "drones", Name: "Drones", Icon: "camera", ParentID: parent("cameras-drones"), Order: 0},
	{ID: "cameras-action", Slug: "cameras-action", Name: "Caméras d'action", Icon: "camera", ParentID: parent("cameras-drones"), Order: 1},
	{ID: "stabilisateurs", Slug: "stabilisateurs", Name: "Stabilisateurs", Icon: "camera", ParentID: parent("cameras-drones"), Order: 2},
	{ID: "appareils-photo", Slug: "appareils-photo", Name: "Appareils photo", Icon: "camera", ParentID: parent("cameras-drones"), Order: 3},

	{ID: "consoles", Slug: "consoles", Name: "Consoles", Icon: "gamepad-2", ParentID: parent("gaming"), Order: 0},
	{ID: "manettes-gaming", Slug: "manettes-gaming", Name: "Manettes", Icon: "gamepad-2", ParentID: parent("gaming"), Order: 1},

	{ID: "imprimantes-laser", Slug: "imprimantes-laser", Name: "Laser", Icon: "printer", ParentID: parent("imprimantes"), Order: 0},
	{ID: "jet-encre", Slug: "jet-encre", Name: "Jet d'encre", Icon: "printer", ParentID: parent("imprimantes"), Order: 1},
	{ID: "multifonctions", Slug: "multifonctions", Name: "Multifonctions", Icon: "printer", ParentID: parent("imprimantes"), Order: 2},
	{ID: "projecteurs", Slug: "projecteurs", Name: "Projecteurs", Icon: "projector", ParentID: parent("imprimantes"), Order: 3},

	{ID: "coques-protections", Slug: "coques-protections", Name: "Coques & protections", Icon: "shield", ParentID: parent("accessoires"), Order: 0},
	{ID: "chargeurs-cables", Slug: "chargeurs-cables", Name: "Chargeurs & câbles", Icon: "cable", ParentID: parent("accessoires"), Order: 1},
	{ID: "stockage", Slug: "stockage", Name: "Stockage", Icon: "hard-drive", ParentID: parent("accessoires"), Order: 2},
	{ID: "supports-docks", Slug: "supports-docks", Name: "Supports & docks", Icon: "monitor", ParentID: parent("accessoires"), Order: 3},
	{ID: "claviers-souris", Slug: "claviers-souris", Name: "Claviers & souris", Icon: "keyboard", ParentID: parent("accessoires"), Order: 4},
	{ID: "maison-connectee", Slug: "maison-connectee", Name: "Maison connectée", Icon: "home", ParentID: parent("accessoires"), Order: 5},
	{ID: "wearables", Slug: "wearables", Name: "Wearables", Icon: "glasses", ParentID: parent("accessoires"), Order: 6},
}

var (
	topLevel      []Category
	subcategories = map[string][]Category{}
	bySlug        = map[string]Category{}
	byID          = map[string]Category{}
)

func init() {
	for _, c := range all {
		bySlug[c.Slug] = c
		byID[c.ID] = c
		if c.IsTopLevel() {
			topLevel = append(topLevel, c)
		}
	}
	sortByOrder(topLevel)

	for _, top := range topLevel {
		var subs []Category
		for _, c := range all {
			if c.ParentID != nil && *c.ParentID == top.ID {
				subs = append(subs, c)
			}
		}
		sortByOrder(subs)
		if subs == nil {
			subs = []Category{}
		}
		subcategories[top.ID] = subs
		subcategories[top.Slug] = subs
	}
}

func sortByOrder(cs []Category) {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Order < cs[j].Order })
}

// TopLevel returns the root categories in display order.
func TopLevel() []Category {
	return topLevel
}

// Subcategories returns the children of a top-level category looked up by id or slug.
// Unknown keys yield an empty slice.
func Subcategories(slugOrID string) []Category {
	subs, ok := subcategories[slugOrID]
	if !ok {
		logger.L().Debug("unknown category key", zap.String("key", slugOrID))
		return []Category{}
	}
	return subs
}

func BySlug(slug string) (Category, bool) {
	c, ok := bySlug[slug]
	return c, ok
}

func ByID(id string) (Category, bool) {
	c, ok := byID[id]
	return c, ok
}
