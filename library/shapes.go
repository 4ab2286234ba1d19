package library

// DefaultShapes is the built-in chord shape table, indexed low E to high E.
// -1 = muted/not played, 0 = open string.
func DefaultShapes() map[string][]int {
	return map[string][]int{
		"A":       {0, 0, 2, 2, 2, 0},
		"A7":      {0, 0, 2, 0, 2, 0},
		"Am":      {0, 0, 2, 2, 1, 0},
		"Am7":     {0, 0, 2, 0, 1, 0},
		"B":       {0, 0, 3, 3, 3, 1},
		"B7":      {0, 2, 1, 2, 0, 2},
		"Bm":      {2, 2, 4, 4, 3, 2},
		"C":       {0, 3, 2, 0, 1, 0},
		"C7":      {0, 3, 2, 3, 1, 0},
		"C Major": {0, 1, 0, 2, 3, -1},
		"D":       {2, 2, 2, 0, -1, -1},
		"D5":      {0, 0, 0, 2, 3, 2},
		"D6/9":    {2, 2, 0, 0, 0, 0},
		"D7":      {2, 2, 0, 2, 1, 2},
		"D7/F#":   {2, 0, 0, 2, 1, 2},
		"Dm":      {1, 3, 2, 0, -1, -1},
		"Dsus2":   {0, 0, 0, 2, 3, 2},
		"E":       {0, 2, 2, 1, 0, 0},
		"E7":      {0, 2, 2, 1, 3, 0},
		"Em":      {0, 2, 2, 0, 0, 0},
		"F":       {1, 3, 3, 2, 1, 1},
		"F7":      {1, 3, 1, 2, 1, 1},
		"Fm":      {1, 3, 3, 1, 1, 1},
		"G":       {3, 0, 0, 0, 2, 3},
		"G7":      {3, 2, 0, 0, 0, 1},
		"G Major": {3, 0, 0, 0, 2, 3},
		"Gm":      {3, 5, 5, 3, 3, 3},
		"G/B":     {2, 2, 0, 0, 0, 3},
		"Ab":      {0, 2, 2, 2, 0, -1},
		"Db":      {2, 3, 2, 0, -1, -1},
		"Dbsus4":  {3, 3, 2, 0, -1, -1},
		"Db/F":    {-1, 3, 2, 0, 0, 2},
		"Eb":      {0, 0, 1, 2, 2, 0},
	}
}
