package recipe

import (
	"fmt"
	"hash/fnv"
	"strings"
)

const unsplashFormat = "https://images.unsplash.com/photo-%s?w=600&h=400&fit=crop&crop=center&auto=format&q=80"

var foodImages = map[string][]string{
	"breakfast": {
		"1551218808-fbd922b8b42a",
		"1484723091739-30a097e8f929",
		"1506084868230-bb9d95c24759",
		"1525351326368-efbb5cb6435d",
		"1558618047-3c512c78c7e4",
		"1571091718767-18b5b1457add",
		"1533089860892-a9c6a049fc8e",
		"1504674900247-0877df9cc836",
	},
	"pasta": {
		"1565299624946-3fb6ac7614dd",
		"1551183053-bf91a1d81141",
		"1563379091339-03fa3c4b4d40",
		"1621996346205-f0b67c2ec7e8",
		"1598866594230-2c3c2c2c2c2c",
	},
	"salad": {
		"1512621776951-a57141f2eefd",
		"1540420773420-3366772f4999",
		"1546793665-c74683f339c1",
		"1505576391880-9c3163c6c5e2",
	},
	"meat": {
		"1546833999-946b90aaaa2d",
		"1565299507177-4ee19f04e67f",
		"1544025162-18861d2de8a3",
		"1529692236671-f1f6cf9683ba",
	},
	"sandwich": {
		"1568901346375-23c9450c58cd",
		"1571091718767-18b5b1457add",
		"1565299585323-38dd0054c3bf",
		"1586190848861-99aa4a171e90",
	},
	"soup": {
		"1547592180-85f173990554",
		"1547592166-23ac45744acd",
		"1578662996442-374dcbcf3b2f",
	},
	"dessert": {
		"1551024506-0bccd0e7dcc2",
		"1563805042-6e88d27e3ef8",
		"1578985545622-7c14a934dff8",
		"1571115177098-24ec42ed204d",
	},
	"asian": {
		"1565299624946-3fb6ac7614dd",
		"1546833999-946b90aaaa2d",
		"1563379091339-03fa3c4b4d40",
		"1598866594230-2c3c2c2c2c2c",
	},
	"mexican": {
		"1565299585323-38dd0054c3bf",
		"1586190848861-99aa4a171e90",
		"1547592180-85f173990554",
	},
	"italian": {
		"1565299624946-3fb6ac7614dd",
		"1551183053-bf91a1d81141",
		"1563379091339-03fa3c4b4d40",
	},
	"general": {
		"1565299624946-3fb6ac7614dd",
		"1551183053-bf91a1d81141",
		"1546833999-946b90aaaa2d",
		"1568901346375-23c9450c58cd",
		"1512621776951-a57141f2eefd",
	},
}

// nameCategories is checked in order; the first match wins.
var nameCategories = []struct {
	category string
	keywords []string
}{
	{"pasta", []string{"pasta", "spaghetti", "carbonara", "penne"}},
	{"salad", []string{"salad"}},
	{"sandwich", []string{"sandwich", "burger", "panini"}},
	{"soup", []string{"soup", "broth"}},
	{"dessert", []string{"cake", "dessert", "cookie", "ice cream"}},
	{"meat", []string{"chicken", "beef", "steak", "meat"}},
	{"breakfast", []string{"pancake", "toast", "breakfast", "eggs"}},
}

// ImageCategory picks the photo category for a recipe. Cuisine overrides the
// category derived from the name.
func ImageCategory(name, cuisine string) string {
	n := strings.ToLower(name)
	c := strings.ToLower(cuisine)

	switch {
	case strings.Contains(c, "italian"):
		return "italian"
	case strings.Contains(c, "mexican"):
		return "mexican"
	case strings.Contains(c, "asian"), strings.Contains(c, "chinese"), strings.Contains(c, "japanese"):
		return "asian"
	}

	for _, nc := range nameCategories {
		for _, kw := range nc.keywords {
			if strings.Contains(n, kw) {
				return nc.category
			}
		}
	}
	return "general"
}

// ImageFor returns a stock photo URL for a recipe. The photo is chosen from
// the recipe's category by a hash of its name, so the same recipe always
// gets the same picture.
func ImageFor(name, cuisine string) string {
	images := foodImages[ImageCategory(name, cuisine)]
	if len(images) == 0 {
		return PlaceholderImage()
	}
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(name)))
	return fmt.Sprintf(unsplashFormat, images[h.Sum32()%uint32(len(images))])
}

// PlaceholderImage is the fallback used when a recipe image cannot be shown.
func PlaceholderImage() string {
	return fmt.Sprintf(unsplashFormat, "1565299624946-3fb6ac7614dd")
}
