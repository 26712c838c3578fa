package domain

// Joke is a single two-part joke as served by JokeAPI.
//
// Joke is comparable: two jokes are the same joke only when ID, Setup and
// Delivery all match. Deduplication relies on this, not on ID alone.
type Joke struct {
	ID       int
	Setup    string
	Delivery string
}
