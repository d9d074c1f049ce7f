package worldmap

// Building is map decoration only: the simulation never collides against
// it or reads it (spec.md §2 "buildings (ignored by simulation)"). Kept so
// GET /maps/{id} can echo it back verbatim to the client.
type Building struct {
	X, Y, W, H int
}
