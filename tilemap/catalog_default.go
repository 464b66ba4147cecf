package tilemap

const (
	half     = 1.0 / 2
	third    = 1.0 / 3
	twoThird = 2.0 / 3
)

// Ids of the pass-through lines in the default catalog.
const (
	TileGoN = 12
	TileGoS = 23
	TileGoE = 34
	TileGoW = 45
)

// Ids of the single-tile 45 degree slopes in the default catalog.
const (
	TileSlope45NE = 2
	TileSlope45SE = 24
	TileSlope45NW = 13
	TileSlope45SW = 35
)

// DefaultCatalog returns a fresh copy of the built-in slope table: 15, 22,
// 45, 67 and 75 degree slopes in four rotations plus four one-way lines.
func DefaultCatalog() *Catalog {
	return NewCatalog(map[int]TileDef{
		// 15 NE
		5: {0, 1, 1, twoThird, true}, 6: {0, twoThird, 1, third, true}, 7: {0, third, 1, 0, true},
		// 22 NE
		3: {0, 1, 1, half, true}, 4: {0, half, 1, 0, true},
		// 45 NE
		2: {0, 1, 1, 0, true},
		// 67 NE
		10: {half, 1, 1, 0, true}, 21: {0, 1, half, 0, true},
		// 75 NE
		32: {twoThird, 1, 1, 0, true}, 43: {third, 1, twoThird, 0, true}, 54: {0, 1, third, 0, true},

		// 15 SE
		27: {0, 0, 1, third, true}, 28: {0, third, 1, twoThird, true}, 29: {0, twoThird, 1, 1, true},
		// 22 SE
		25: {0, 0, 1, half, true}, 26: {0, half, 1, 1, true},
		// 45 SE
		24: {0, 0, 1, 1, true},
		// 67 SE
		11: {0, 0, half, 1, true}, 22: {half, 0, 1, 1, true},
		// 75 SE
		33: {0, 0, third, 1, true}, 44: {third, 0, twoThird, 1, true}, 55: {twoThird, 0, 1, 1, true},

		// 15 NW
		16: {1, third, 0, 0, true}, 17: {1, twoThird, 0, third, true}, 18: {1, 1, 0, twoThird, true},
		// 22 NW
		14: {1, half, 0, 0, true}, 15: {1, 1, 0, half, true},
		// 45 NW
		13: {1, 1, 0, 0, true},
		// 67 NW
		8: {half, 1, 0, 0, true}, 19: {1, 1, half, 0, true},
		// 75 NW
		30: {third, 1, 0, 0, true}, 41: {twoThird, 1, third, 0, true}, 52: {1, 1, twoThird, 0, true},

		// 15 SW
		38: {1, twoThird, 0, 1, true}, 39: {1, third, 0, twoThird, true}, 40: {1, 0, 0, third, true},
		// 22 SW
		36: {1, half, 0, 1, true}, 37: {1, 0, 0, half, true},
		// 45 SW
		35: {1, 0, 0, 1, true},
		// 67 SW
		9: {1, 0, half, 1, true}, 20: {half, 0, 0, 1, true},
		// 75 SW
		31: {1, 0, twoThird, 1, true}, 42: {twoThird, 0, third, 1, true}, 53: {third, 0, 0, 1, true},

		TileGoN: {0, 0, 1, 0, false},
		TileGoS: {1, 1, 0, 1, false},
		TileGoE: {1, 0, 1, 1, false},
		TileGoW: {0, 1, 0, 0, false},
	})
}
